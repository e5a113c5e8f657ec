package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/campushq/campusbot/internal/config"
	"github.com/campushq/campusbot/internal/providers/rag"
	"github.com/campushq/campusbot/internal/service/ingest"
	"github.com/campushq/campusbot/internal/storage/sqlite"
	"github.com/campushq/campusbot/pkg/log"
)

var ingestDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest .txt documents into the knowledge base",
	Long:  `Chunks, embeds and stores every .txt file in the documents directory. Run offline; re-ingesting a document replaces its chunks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to init env")
		}
		appCfg := config.NewAppConfig(ctx)
		ragCfg := config.NewRAGConfig(ctx)

		db, err := initStorage(ctx, appCfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		defer db.Close()

		dir := ingestDir
		if dir == "" {
			dir = appCfg.DocsPath
		}

		ingester := ingest.New(rag.NewEmbedder(ragCfg), sqlite.NewDocuments(db), ragCfg)
		n, err := ingester.IngestDir(ctx, dir)
		if err != nil {
			return err
		}

		logger.Info().Int("documents", n).Str("dir", dir).Msg("ingestion complete")
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "directory with .txt documents (default: configured docs path)")
	rootCmd.AddCommand(ingestCmd)
}
