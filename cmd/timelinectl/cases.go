package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/casetimeline/internal/casefile"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List the cases in the case file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := casefile.Open(casesPath, slog.Default())
		if err != nil {
			fatal("Error opening case file", err)
		}
		out := cmd.OutOrStdout()
		for _, id := range store.CaseIDs() {
			if title := store.Title(id); title != "" {
				fmt.Fprintf(out, "%s - %s\n", id, title)
				continue
			}
			fmt.Fprintln(out, id)
		}
	},
}

func init() {
	rootCmd.AddCommand(casesCmd)
}
