package cmd

import (
	"fmt"
	"os"

	"odf-core/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "odf-core",
	Short: "ODF Core Service",
	Long: `ODF Core ingests an unordered stream of Olympic-Data-Feed XML messages
for a swimming competition and reconciles them into a relational snapshot
served to display clients.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Report through the standard structured logger, console encoded
		// to match CLI expectations.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
