package cmd

import (
	"fmt"
	"os"

	"pipeline-storage/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var namespaceFlag string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pipeline-storage",
	Short: "Pipeline Artifact Storage",
	Long: `Pipeline Storage persists and discovers pipeline artifacts in S3/MinIO,
a relational database or memory, behind one namespaced key space.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level gives readable ISO8601 timestamps
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

func init() {
	RootCmd.PersistentFlags().StringVarP(&namespaceFlag, "namespace", "n", "", "Child namespace below the configured root prefix")
}
