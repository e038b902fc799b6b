package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonscript/internal/app"
	"github.com/abhisek/lessonscript/internal/playback"
	"github.com/abhisek/lessonscript/internal/screen"
	"github.com/abhisek/lessonscript/internal/screens/player"
	"github.com/abhisek/lessonscript/internal/script"
)

var playCmd = &cobra.Command{
	Use:   "play [script.json]",
	Short: "Play a Lesson Script in the terminal",
	Long: "Play a compiled Lesson Script in the terminal. Without a file, a lesson is " +
		"generated for --topic/--grade/--board first.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		cfg, err := playback.ConfigFromEnv()
		if err != nil {
			return err
		}
		if f := cmd.Flags().Lookup("speech"); f.Changed {
			cfg.SpeechDuration, _ = cmd.Flags().GetDuration("speech")
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		manual, _ := cmd.Flags().GetBool("manual")
		opts := []player.Option{
			player.WithConfig(cfg),
			player.WithAutoplay(!manual),
			player.WithRecorder(st.EventRepo()),
		}

		var initial screen.Screen
		if len(args) == 1 {
			sc, err := loadScript(cmd, args)
			if err != nil {
				return err
			}
			p, err := player.New(sc, opts...)
			if err != nil {
				return err
			}
			initial = p
		} else {
			req := lessonRequest(cmd)
			if err := req.Validate(); err != nil {
				return fmt.Errorf("give a script file or --topic, --grade and --board: %w", err)
			}
			svc, err := newService(cmd, st)
			if err != nil {
				return err
			}
			initial = player.NewLoading(svc, req, opts...)
		}

		return app.Run(initial)
	},
}

// loadScript reads and fully validates a script document.
func loadScript(cmd *cobra.Command, args []string) (*script.Script, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	if err := script.ValidateJSON(data); err != nil {
		return nil, err
	}
	sc, err := script.Parse(data)
	if err != nil {
		return nil, err
	}
	if err := script.Validate(sc); err != nil {
		return nil, fmt.Errorf("%s: %w", args[0], err)
	}
	return sc, nil
}

func init() {
	lessonFlags(playCmd)
	playCmd.Flags().String("source", "rag", "Lesson source when generating: rag or llm")
	playCmd.Flags().Bool("manual", false, "Start with autoplay paused")
	playCmd.Flags().Duration("speech", playback.DefaultConfig().SpeechDuration, "How long each teach event plays")
}
