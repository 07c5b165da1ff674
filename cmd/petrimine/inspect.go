package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petrimine/petrimine/mining"
	"github.com/petrimine/petrimine/render"
)

var tracesCmd = &cobra.Command{
	Use:   "traces <log>",
	Short: "Show the distinct traces of a log with frequencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventLog, err := loadLog(args[0])
		if err != nil {
			return err
		}
		fmt.Print(render.VariantTable(eventLog.Variants()))
		return nil
	},
}

var footprintCmd = &cobra.Command{
	Use:   "footprint <log>",
	Short: "Show the footprint matrix of ordering relations",
	Long: `Show the footprint matrix of a log: for every pair of activities,
the observed ordering relation.

  →  causality      (a directly precedes b, never the reverse)
  ←  reverse        (b directly precedes a, never the reverse)
  ‖  parallel       (both orderings observed)
  #  independence   (no direct succession either way)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventLog, err := loadLog(args[0])
		if err != nil {
			return err
		}
		fp := mining.NewFootprintMatrix(eventLog)
		if fp.Universe.SkippedEmpty > 0 {
			log.Warn().Int("count", fp.Universe.SkippedEmpty).Msg("skipped empty traces")
		}
		fmt.Print(render.FootprintTable(fp))
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{tracesCmd, footprintCmd} {
		cmd.Flags().StringVar(&formatFlag, "format", "", "log format: json, jsonl, csv, xes (default: by extension)")
		cmd.Flags().StringVar(&caseColumn, "case-col", "", "case ID column/field for csv/jsonl")
		cmd.Flags().StringVar(&activityCol, "activity-col", "", "activity column/field for csv/jsonl")
		cmd.Flags().StringVar(&timestampCol, "timestamp-col", "", "timestamp column/field for csv/jsonl")
		cmd.Flags().StringVar(&taskField, "task-field", "", "task field for json trace arrays")
		rootCmd.AddCommand(cmd)
	}
}
