package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petrimine/petrimine/store"
)

var (
	runsDB    string
	runsLimit int
)

var runsCmd = &cobra.Command{
	Use:   "runs [id]",
	Short: "List recorded discovery runs, or print one run's report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(runsDB)
		if err != nil {
			return err
		}
		defer db.Close()

		if len(args) == 1 {
			run, err := db.GetRun(args[0])
			if err != nil {
				return err
			}
			fmt.Println(run.Report)
			return nil
		}

		runs, err := db.ListRuns(runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No recorded runs.")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  %s  traces=%d variants=%d activities=%d places=%d\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Source,
				r.NumTraces, r.NumVariants, r.NumActivities, r.NumPlaces)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsDB, "db", "petrimine.db", "SQLite database path")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 50, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
