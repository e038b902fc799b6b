package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonscript/internal/retrieval"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fetch a lesson and compile it into a Lesson Script",
	Long: "Generate a lesson from the RAG service (or an LLM with --source llm) and " +
		"print the compiled Lesson Script. With --chat the --message question is " +
		"answered as a lesson; add --answer to print the raw answer instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, err := newService(cmd, st)
		if err != nil {
			return err
		}

		req := lessonRequest(cmd)
		req.Message, _ = cmd.Flags().GetString("message")
		req.Language, _ = cmd.Flags().GetString("language")
		req.MethodPreference, _ = cmd.Flags().GetStringSlice("method")

		chat, _ := cmd.Flags().GetBool("chat")
		answer, _ := cmd.Flags().GetBool("answer")
		switch {
		case chat && answer:
			if err := req.ValidateChat(); err != nil {
				return err
			}
			resp, err := svc.Chat(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		case chat:
			sc, err := svc.ChatToLesson(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeScript(cmd, sc)
		default:
			sc, err := svc.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeScript(cmd, sc)
		}
	},
}

var adaptiveCmd = &cobra.Command{
	Use:   "adaptive",
	Short: "Fetch content matched to the learner's level",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, err := newService(cmd, st)
		if err != nil {
			return err
		}

		lr := lessonRequest(cmd)
		req := retrieval.AdaptiveRequest{Topic: lr.Topic, Board: lr.Board, Grade: lr.Grade, Subtopic: lr.Subtopic}
		req.Language, _ = cmd.Flags().GetString("language")
		asScript, _ := cmd.Flags().GetBool("script")

		res, err := svc.Adaptive(cmd.Context(), req, asScript)
		if err != nil {
			return err
		}
		if asScript {
			return writeScript(cmd, res.Script)
		}
		return writeJSON(cmd.OutOrStdout(), res.Content)
	},
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Fetch a learning path through a topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, err := newService(cmd, st)
		if err != nil {
			return err
		}

		lr := lessonRequest(cmd)
		req := retrieval.PathRequest{Topic: lr.Topic, Board: lr.Board, Grade: lr.Grade, CurrentSubtopic: lr.Subtopic}
		if f := cmd.Flags().Lookup("mastery"); f.Changed {
			m, _ := cmd.Flags().GetFloat64("mastery")
			if m < 0 || m > 1 {
				return fmt.Errorf("mastery must be between 0 and 1, got %g", m)
			}
			req.MasteryLevel = &m
		}

		path, err := svc.LearningPath(cmd.Context(), req)
		if err != nil {
			return err
		}
		var pretty any
		if err := json.Unmarshal(path, &pretty); err != nil {
			_, err = cmd.OutOrStdout().Write(append(path, '\n'))
			return err
		}
		return writeJSON(cmd.OutOrStdout(), pretty)
	},
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, adaptiveCmd, pathCmd} {
		lessonFlags(c)
		c.Flags().String("source", "rag", "Lesson source: rag or llm (overrides LESSON_SOURCE)")
	}

	generateCmd.Flags().StringP("message", "m", "", "Question to answer (with --chat)")
	generateCmd.Flags().String("language", retrieval.DefaultLanguage, "Lesson language")
	generateCmd.Flags().StringSlice("method", nil, "Preferred teaching methods (e.g. examples,visual)")
	generateCmd.Flags().Bool("chat", false, "Answer --message as a lesson")
	generateCmd.Flags().Bool("answer", false, "With --chat, print the raw answer instead of a script")
	generateCmd.Flags().Bool("seed-ids", false, "Use sequential element ids for reproducible output")

	adaptiveCmd.Flags().String("language", retrieval.DefaultLanguage, "Content language")
	adaptiveCmd.Flags().Bool("script", false, "Compile the adaptive content into a Lesson Script")

	pathCmd.Flags().Float64("mastery", retrieval.DefaultMastery, "Current mastery level between 0 and 1")
}
