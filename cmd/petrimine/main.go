// petrimine discovers workflow Petri nets from process event logs using
// the classical Alpha algorithm, and generates synthetic logs to mine.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	verbose bool
	log     = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
)

var rootCmd = &cobra.Command{
	Use:   "petrimine",
	Short: "Process discovery with the Alpha algorithm",
	Long: `petrimine turns event logs into workflow Petri nets.

It reads logs in JSON, JSONL, CSV, or XES form, extracts the footprint
matrix of ordering relations, and assembles the Petri net the classical
Alpha algorithm derives from them. Results render as terminal tables,
Graphviz DOT, or a JSON report, and can be saved to a local SQLite store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log = log.Level(zerolog.DebugLevel)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("petrimine version %s\n", version)
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
