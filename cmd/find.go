package cmd

import (
	"encoding/json"
	"fmt"
	"regexp"

	"pipeline-storage/core/pipeline"
	"pipeline-storage/core/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	findBaseDir string
	findMax     int
	findFilters []string
)

// findCmd searches the namespace for keys matching a pattern.
var findCmd = &cobra.Command{
	Use:   "find <pattern>",
	Short: "Find keys matching a pattern",
	Long: `Lists the namespace once and prints every key matching the pattern, anchored
at the start of the key, followed by its named capture groups as JSON.

Examples:
  # Every CSV of 2021 runs
  find 'runs/(?P<year>\d{4})/(?P<name>\w+)\.csv' --filter year=2021

  # First ten parts of a stage
  find 'p-(?P<n>\d+)' --namespace stage1 --base-dir parts/ --max 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pattern, err := regexp.Compile(args[0])
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
		filters, err := utils.ParseFieldFilters(findFilters)
		if err != nil {
			return err
		}

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		ns, err := s.namespace(ctx)
		if err != nil {
			return err
		}

		report := func(p pipeline.Progress) {
			s.logger.Debug("Find progress", zap.Int("total", p.Total), zap.Int("completed", p.Completed), zap.String("description", p.Description))
		}

		seq, err := ns.Find(ctx, pattern, pipeline.FindOptions{
			BaseDir:     findBaseDir,
			FieldFilter: filters,
			MaxResults:  findMax,
			Progress:    report,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		count := 0
		for key, groups := range seq {
			data, err := json.Marshal(groups)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%s\n", key, data)
			count++
		}

		s.logger.Info("Find completed", zap.String("pattern", args[0]), zap.String("root", ns.Root()), zap.Int("matches", count))
		return nil
	},
}

func init() {
	findCmd.Flags().StringVar(&findBaseDir, "base-dir", "", "Only consider keys starting with this prefix")
	findCmd.Flags().IntVar(&findMax, "max", -1, "Stop after this many matches (<= 0 for unlimited)")
	findCmd.Flags().StringArrayVar(&findFilters, "filter", nil, "Field filter as group=regex (repeatable)")

	RootCmd.AddCommand(findCmd)
}
