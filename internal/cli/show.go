package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	showJSON    bool
	showTimeout time.Duration
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the detail record for an id",
	Long: `Show fetches and prints one record. If the record cannot be fetched the
built-in fallback record is shown instead, marked as a fallback.

Example:
  incidents show 3
  incidents show 3 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the record as JSON")
	showCmd.Flags().DurationVar(&showTimeout, "timeout", 30*time.Second, "fetch timeout")
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 0 {
		return fmt.Errorf("invalid id %q: must be a non-negative integer", args[0])
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), showTimeout)
	defer cancel()

	inc := newFetcher(appConfig).Fetch(ctx, id)
	if showJSON {
		return printJSON(cmd.OutOrStdout(), inc)
	}
	printIncident(cmd.OutOrStdout(), inc)
	return nil
}
