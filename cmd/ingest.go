package cmd

import (
	"fmt"
	"log"
	"os"

	"odf-core/core/config"
	"odf-core/core/database"
	"odf-core/core/logger"
	"odf-core/feature/odf"
	"odf-core/feature/odf/models"
	"odf-core/feature/odf/parse"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file.xml>",
	Short: "Reconcile one feed file directly against the database",
	Long: `Reads one ODF XML file and reconciles it without the HTTP hop.
Useful for replaying archived feeds or debugging a single message.`,
	Args: cobra.ExactArgs(1),
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

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if err := database.Migrate(db, models.All()...); err != nil {
			return err
		}

		svc := odf.NewService(db, logg, parse.DefaultRegistry(), nil)
		report, err := svc.Ingest(cmd.Context(), raw)
		if err != nil {
			return err
		}

		logg.Info("message processed",
			zap.String("outcome", string(report.Outcome)),
			zap.String("type", report.Type),
			zap.String("discipline", report.Discipline),
			zap.String("subtype", report.Subtype))
		fmt.Println(string(report.Outcome))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(ingestCmd)
}
