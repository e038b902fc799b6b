package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonscript/internal/lessons"
	"github.com/abhisek/lessonscript/internal/retrieval"
	"github.com/abhisek/lessonscript/internal/script"
)

var compileCmd = &cobra.Command{
	Use:   "compile [file...|-]",
	Short: "Compile raw lesson text into a Lesson Script",
	Long: "Compile raw lesson text into Lesson Script JSON. With one file (or stdin) " +
		"the script is written to stdout; with several files each script is written " +
		"to --out-dir as <name>.json.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		cfg, err := lessons.ConfigFromEnv()
		if err != nil {
			return err
		}
		svc := lessons.NewService(nil, cfg,
			lessons.WithRecorder(st.EventRepo()),
			lessons.WithLogger(cliLogger()),
			lessons.WithCompilerOptions(compilerOptions(cmd)...),
		)
		meta := compileMeta(cmd)

		if len(args) <= 1 {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return writeScript(cmd, svc.CompileText(cmd.Context(), lessons.TextInput{Text: string(text), Meta: meta}))
		}

		outDir, _ := cmd.Flags().GetString("out-dir")
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		inputs := make([]lessons.TextInput, len(args))
		for i, name := range args {
			text, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			inputs[i] = lessons.TextInput{Text: string(text), Meta: meta}
		}

		scripts, err := svc.CompileBatch(cmd.Context(), inputs)
		if err != nil {
			return err
		}
		for i, sc := range scripts {
			out := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(args[i]), filepath.Ext(args[i]))+".json")
			if err := writeScriptFile(out, sc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d events)\n", args[i], out, len(sc.Events))
		}
		return nil
	},
}

func compileMeta(cmd *cobra.Command) retrieval.Metadata {
	req := lessonRequest(cmd)
	meta := retrieval.Metadata{Topic: req.Topic, Subtopic: req.Subtopic, Grade: req.Grade, Board: req.Board}
	if meta.Topic == "" {
		meta.Topic = retrieval.DefaultTopic
	}
	if meta.Grade == 0 {
		meta.Grade = retrieval.DefaultGrade
	}
	if meta.Board == "" {
		meta.Board = retrieval.DefaultBoard
	}
	return meta
}

func writeScriptFile(path string, sc *script.Script) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeJSON(f, sc); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

var convertCmd = &cobra.Command{
	Use:   "convert [file|-]",
	Short: "Convert an upstream lesson response into a Lesson Script",
	Long: "Convert a RAG service response document ({\"answer\": ...}) into Lesson " +
		"Script JSON, applying the grade policy the service applies to generated lessons.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		resp, err := retrieval.ParseLessonResponse(data)
		if err != nil {
			return fmt.Errorf("parse lesson response: %w", err)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		cfg, err := lessons.ConfigFromEnv()
		if err != nil {
			return err
		}
		svc := lessons.NewService(nil, cfg,
			lessons.WithRecorder(st.EventRepo()),
			lessons.WithLogger(cliLogger()),
			lessons.WithCompilerOptions(compilerOptions(cmd)...),
		)
		return writeScript(cmd, svc.Convert(cmd.Context(), *resp))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <script.json>",
	Short: "Check a Lesson Script against the schema and graph rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		if err := script.ValidateJSON(data); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
		sc, err := script.Parse(data)
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		if err := script.Validate(sc); err != nil {
			var verr *script.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(w, "%d problem(s) in %s:\n", len(verr.Problems), args[0])
				for _, p := range verr.Problems {
					fmt.Fprintf(w, "  - %s\n", p)
				}
			}
			return fmt.Errorf("%s is not a valid lesson script", args[0])
		}

		fmt.Fprintf(w, "Title:   %s\n", sc.Title)
		fmt.Fprintf(w, "Start:   %s\n", sc.StartEvent)
		counts := sc.Counts()
		fmt.Fprintf(w, "Events:  %d (teach %d, interact %d, choice %d, wait %d)\n", len(sc.Events),
			counts[script.TypeTeach], counts[script.TypeInteract], counts[script.TypeChoice], counts[script.TypeWait])

		path, err := script.DefaultPath(sc)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Path:    %s\n", strings.Join(path, " -> "))

		if unreachable := script.Unreachable(sc); len(unreachable) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: unreachable events: %s\n", strings.Join(unreachable, ", "))
		}
		fmt.Fprintln(w, "OK")
		return nil
	},
}

func init() {
	lessonFlags(compileCmd)
	compileCmd.Flags().Bool("seed-ids", false, "Use sequential element ids for reproducible output")
	compileCmd.Flags().StringP("out-dir", "o", ".", "Output directory when compiling several files")

	convertCmd.Flags().Bool("seed-ids", false, "Use sequential element ids for reproducible output")
}
