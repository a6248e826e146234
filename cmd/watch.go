package cmd

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"odf-core/core/config"
	"odf-core/core/logger"
	"odf-core/feature/hotfolder"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the hotfolder and deliver feed files",
	Long: `Watches the configured hotfolder for ODF XML files, posts each one to
the ingestion endpoint and files it away by outcome.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w := hotfolder.NewWatcher(cfg.Hotfolder, logg)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logg.Info("Watcher stopped")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
