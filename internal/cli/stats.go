package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/incidents/internal/coverage"
)

var (
	statsFilter filterFlags
	statsGroups bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many records match a filter",
	Long: `Stats reports how many people match the category filter out of the
whole dataset.

Example:
  incidents stats
  incidents stats --race black,hispanic --armed unarmed
  incidents stats --armed none
  incidents stats --groups`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsFilter.register(statsCmd, false)
	statsCmd.Flags().BoolVar(&statsGroups, "groups", false, "list the matching groups")
}

func runStats(cmd *cobra.Command, args []string) error {
	sel, err := statsFilter.selection()
	if err != nil {
		return err
	}

	idx, err := loadIndex(appConfig)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, coverage.Calculate(idx, sel).String())

	if statsGroups {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "\nRACE\tARMED\tN\tFULL\tDEFICIENT")
		for _, g := range idx.GroupsMatching(sel) {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", g.Race, g.Armed, g.N, len(g.FullIDs), len(g.DeficientIDs))
		}
		return tw.Flush()
	}
	return nil
}
