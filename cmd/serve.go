package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lessonscript/internal/lessons"
	"github.com/abhisek/lessonscript/internal/logging"
	"github.com/abhisek/lessonscript/internal/playback"
	"github.com/abhisek/lessonscript/internal/retrieval"
	"github.com/abhisek/lessonscript/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lesson API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := server.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTPAddr = addr
		}

		logger, err := logging.New(cfg.LogMode, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		lcfg, err := lessons.ConfigFromEnv()
		if err != nil {
			return err
		}
		lcfg.Source = cfg.LessonSource
		if err := lcfg.Validate(); err != nil {
			return err
		}

		rag, err := retrieval.ConfigFromEnv()
		if err != nil && lcfg.Source == lessons.SourceRAG {
			return err
		}
		rag.BaseURL = cfg.RAGServiceURL

		ctx := cmd.Context()
		src, err := buildSource(ctx, lcfg.Source, rag, st.EventRepo(), logger)
		if err != nil {
			return fmt.Errorf("building lesson source: %w", err)
		}
		pcfg, err := playback.ConfigFromEnv()
		if err != nil {
			return err
		}

		svc := lessons.NewService(src, lcfg,
			lessons.WithRecorder(st.EventRepo()),
			lessons.WithLogger(logger),
		)
		srv := server.New(cfg.HTTPAddr, logger, server.Deps{
			Lessons:      svc,
			Events:       st.EventRepo(),
			DB:           st.DB(),
			Playback:     pcfg,
			MaxBodyBytes: cfg.MaxBodyBytes,
			SessionIdle:  cfg.SessionIdle,
		})

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			logger.Info("starting http server", "addr", cfg.HTTPAddr, "source", lcfg.Source)
			return srv.Run(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down http server")
			return srv.Shutdown(context.Background())
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides HTTP_ADDR)")
}
