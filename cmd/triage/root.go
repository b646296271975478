package main

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "triage",
		Short: "Score and rank tasks by urgency, importance, effort and dependencies",
		Long: `triage computes a priority score for each task and orders them highest first.

Tasks are read from a single entry (flags) and/or a JSON array of records.
Records that cannot be scored are kept with a score of 0 and a reason.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "path to config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newAnalyzeCmd())
	return root
}
