package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonscript/internal/compiler"
	"github.com/abhisek/lessonscript/internal/ids"
	"github.com/abhisek/lessonscript/internal/lessons"
	"github.com/abhisek/lessonscript/internal/llm"
	"github.com/abhisek/lessonscript/internal/logging"
	"github.com/abhisek/lessonscript/internal/retrieval"
	"github.com/abhisek/lessonscript/internal/script"
	"github.com/abhisek/lessonscript/internal/store"
)

// openStore opens the event database selected by --db.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// cliLogger keeps library logs out of the way of command output.
func cliLogger() *logging.Logger {
	log, err := logging.New("development", "warn")
	if err != nil {
		return logging.Nop()
	}
	return log
}

// buildSource returns the lesson text source named kind. The LLM source
// reads LESSONSCRIPT_LLM_* first and falls back to vendor API key
// discovery.
func buildSource(ctx context.Context, kind string, rag retrieval.Config, rec llm.Recorder, log *logging.Logger) (retrieval.Source, error) {
	switch kind {
	case lessons.SourceRAG:
		if err := rag.Validate(); err != nil {
			return nil, err
		}
		return retrieval.NewClient(rag, retrieval.WithLogger(log)), nil
	case lessons.SourceLLM:
		cfg, err := llm.ConfigFromEnv()
		if err != nil {
			return nil, err
		}
		if !cfg.Configured() {
			discovered, ok := llm.DiscoverConfig()
			if !ok {
				return nil, fmt.Errorf("LLM provider not configured: set LESSONSCRIPT_LLM_PROVIDER or a vendor API key")
			}
			cfg = discovered
		}
		provider, err := llm.NewProvider(ctx, cfg, rec, log)
		if err != nil {
			return nil, err
		}
		return retrieval.NewLLMSource(provider, log), nil
	default:
		return nil, fmt.Errorf("unknown lesson source %q (want %q or %q)", kind, lessons.SourceRAG, lessons.SourceLLM)
	}
}

// newService builds a lesson service recording into st. --source
// overrides LESSON_SOURCE when the command has that flag.
func newService(cmd *cobra.Command, st *store.Store) (*lessons.Service, error) {
	log := cliLogger()

	cfg, err := lessons.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("source"); f != nil && f.Changed {
		cfg.Source = f.Value.String()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	rag, err := retrieval.ConfigFromEnv()
	if err != nil && cfg.Source == lessons.SourceRAG {
		return nil, err
	}

	src, err := buildSource(cmd.Context(), cfg.Source, rag, st.EventRepo(), log)
	if err != nil {
		return nil, err
	}
	return lessons.NewService(src, cfg,
		lessons.WithRecorder(st.EventRepo()),
		lessons.WithLogger(log),
		lessons.WithCompilerOptions(compilerOptions(cmd)...),
	), nil
}

// compilerOptions honours --seed-ids for reproducible output.
func compilerOptions(cmd *cobra.Command) []compiler.Option {
	if seed, _ := cmd.Flags().GetBool("seed-ids"); seed {
		return []compiler.Option{compiler.WithIDGenerator(ids.NewSequence())}
	}
	return nil
}

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeScript(cmd *cobra.Command, sc *script.Script) error {
	return writeJSON(cmd.OutOrStdout(), sc)
}

// lessonFlags registers the topic/grade/board request flags.
func lessonFlags(cmd *cobra.Command) {
	cmd.Flags().String("topic", "", "Lesson topic (e.g. photosynthesis)")
	cmd.Flags().Int("grade", 0, "Learner grade")
	cmd.Flags().String("board", "", "Curriculum board (e.g. CBSE)")
	cmd.Flags().String("subtopic", "", "Subtopic to focus on")
}

func lessonRequest(cmd *cobra.Command) retrieval.LessonRequest {
	topic, _ := cmd.Flags().GetString("topic")
	grade, _ := cmd.Flags().GetInt("grade")
	board, _ := cmd.Flags().GetString("board")
	subtopic, _ := cmd.Flags().GetString("subtopic")
	return retrieval.LessonRequest{Topic: topic, Grade: grade, Board: board, Subtopic: subtopic}
}
