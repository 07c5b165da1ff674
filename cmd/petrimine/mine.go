package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petrimine/petrimine/cache"
	"github.com/petrimine/petrimine/mining"
	"github.com/petrimine/petrimine/render"
	"github.com/petrimine/petrimine/store"
)

var (
	mineOutput string
	mineDOT    string
	mineBudget int
	mineSave   bool
	mineDB     string
	mineQuiet  bool
)

var mineCmd = &cobra.Command{
	Use:   "mine <log>...",
	Short: "Discover Petri nets from event logs",
	Long: `Discover workflow Petri nets from event logs using the classical
Alpha algorithm.

Candidate-place enumeration is exponential in the number of causally
connected activities; --budget caps the number of candidates examined
and fails with a clear error instead of returning a truncated model.

Several logs can be mined in one invocation; logs with the same
distinct traces and counts are discovered once and served from cache.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMine,
}

func init() {
	mineCmd.Flags().StringVarP(&mineOutput, "output", "o", "", "write a JSON report to this file (single log only)")
	mineCmd.Flags().StringVar(&mineDOT, "dot", "", "write a Graphviz DOT rendering to this file (single log only)")
	mineCmd.Flags().IntVar(&mineBudget, "budget", 0, "max candidate places to examine (0 = unlimited)")
	mineCmd.Flags().BoolVar(&mineSave, "save", false, "record the run in the local store")
	mineCmd.Flags().StringVar(&mineDB, "db", "petrimine.db", "SQLite database for --save and runs")
	mineCmd.Flags().BoolVarP(&mineQuiet, "quiet", "q", false, "suppress tables, print only the summary")
	mineCmd.Flags().StringVar(&formatFlag, "format", "", "log format: json, jsonl, csv, xes (default: by extension)")
	mineCmd.Flags().StringVar(&caseColumn, "case-col", "", "case ID column/field for csv/jsonl")
	mineCmd.Flags().StringVar(&activityCol, "activity-col", "", "activity column/field for csv/jsonl")
	mineCmd.Flags().StringVar(&timestampCol, "timestamp-col", "", "timestamp column/field for csv/jsonl")
	mineCmd.Flags().StringVar(&taskField, "task-field", "", "task field for json trace arrays")
	rootCmd.AddCommand(mineCmd)
}

func runMine(cmd *cobra.Command, args []string) error {
	if len(args) > 1 && (mineOutput != "" || mineDOT != "") {
		return fmt.Errorf("--output and --dot take a single log; got %d", len(args))
	}

	discoveries := cache.NewDiscoveryCache(0)
	for _, path := range args {
		if err := mineOne(discoveries, path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	if stats := discoveries.Stats(); stats.Hits > 0 {
		log.Debug().Int64("hits", stats.Hits).Int64("misses", stats.Misses).Msg("discovery cache")
	}
	return nil
}

// mineOne discovers one log's net and renders or persists it per the
// flags. Discovery goes through the cache, so identical logs in one
// invocation are mined once.
func mineOne(discoveries *cache.DiscoveryCache, path string) error {
	eventLog, err := loadLog(path)
	if err != nil {
		return err
	}
	log.Debug().Int("cases", eventLog.NumCases()).Int("events", eventLog.NumEvents()).Msg("loaded log")

	result, err := discoveries.GetOrDiscover(eventLog, mining.PlaceOptions{MaxCandidates: mineBudget})
	if errors.Is(err, mining.ErrEnumerationBudget) {
		return fmt.Errorf("%w; raise --budget or simplify the log", err)
	}
	if err != nil {
		return err
	}

	if skipped := result.Footprint.Universe.SkippedEmpty; skipped > 0 {
		log.Warn().Int("count", skipped).Msg("skipped empty traces")
	}

	if !mineQuiet {
		fmt.Print(render.VariantTable(result.Variants))
		fmt.Println()
		fmt.Print(render.FootprintTable(result.Footprint))
		fmt.Println()
		fmt.Print(render.PlaceList(result.Places))
		fmt.Println()
	}

	net := result.Net
	fmt.Printf("%s: %d transitions, %d places, %d arcs (%.0f%% of cases on the most common variant)\n",
		path, len(net.Transitions), len(net.Places), len(net.Arcs), result.CoveragePercent)

	if mineOutput != "" {
		if err := render.SaveJSON(result, mineOutput); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", mineOutput)
	}
	if mineDOT != "" {
		if err := render.SaveDOT(net, mineDOT); err != nil {
			return err
		}
		fmt.Printf("DOT written to %s\n", mineDOT)
	}

	if mineSave {
		db, err := store.Open(mineDB)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := db.SaveRun(path, eventLog.NumCases(), result)
		if err != nil {
			return err
		}
		fmt.Printf("Run saved as %s\n", id)
	}

	return nil
}
