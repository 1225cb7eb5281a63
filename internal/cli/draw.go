package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/incidents/internal/sample"
	"github.com/ppiankov/incidents/internal/worker"
)

var (
	drawFilter  filterFlags
	drawCount   int
	drawRetry   bool
	drawFetch   bool
	drawJSON    bool
	drawTimeout time.Duration
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw random record ids",
	Long: `Draw picks record ids at random. A category is chosen with probability
proportional to its size, then a record within it from the eligible tiers.

A draw can come up empty when the chosen category has no record in an
eligible tier; it is reported as "no result" rather than redrawn, unless
--retry is given.

Example:
  incidents draw
  incidents draw --count 20 --race white --tier full
  incidents draw --count 5 --fetch --concurrency 4`,
	Args: cobra.NoArgs,
	RunE: runDraw,
}

func init() {
	rootCmd.AddCommand(drawCmd)
	drawFilter.register(drawCmd, true)
	drawCmd.Flags().IntVarP(&drawCount, "count", "n", 1, "number of draws")
	drawCmd.Flags().BoolVar(&drawRetry, "retry", false, "redraw empty results up to selection.max_redraws times")
	drawCmd.Flags().BoolVar(&drawFetch, "fetch", false, "fetch the detail record of each drawn id")
	drawCmd.Flags().BoolVar(&drawJSON, "json", false, "print fetched records as JSON")
	drawCmd.Flags().Int("concurrency", 0, "concurrent detail fetches (default from config)")
	drawCmd.Flags().DurationVar(&drawTimeout, "timeout", 2*time.Minute, "overall timeout for fetching")
}

func runDraw(cmd *cobra.Command, args []string) error {
	sel, err := drawFilter.selection()
	if err != nil {
		return err
	}
	policy, err := drawFilter.policy(appConfig)
	if err != nil {
		return err
	}

	idx, err := loadIndex(appConfig)
	if err != nil {
		return err
	}
	sampler := sample.NewSampler(idx, nil)

	out := cmd.OutOrStdout()
	var ids []int
	for i := 0; i < drawCount; i++ {
		var (
			id int
			ok bool
		)
		if drawRetry {
			id, ok, err = sampler.DrawUntil(sel, policy, appConfig.Selection.MaxRedraws)
		} else {
			id, ok, err = sampler.Draw(sel, policy)
		}
		if err != nil {
			return err
		}
		if !ok {
			if !drawFetch {
				fmt.Fprintln(out, "no result")
			}
			continue
		}
		ids = append(ids, id)
		if !drawFetch {
			fmt.Fprintln(out, id)
		}
	}

	if !drawFetch {
		return nil
	}
	if len(ids) == 0 {
		fmt.Fprintln(out, "no result")
		return nil
	}

	workers := appConfig.Concurrency.Workers
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		workers = n
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), drawTimeout)
	defer cancel()

	results := worker.NewPrefetcher(newFetcher(appConfig), workers).Prefetch(ctx, ids)
	for _, res := range results {
		if res.Error != nil {
			return fmt.Errorf("fetch %d: %w", res.ID, res.Error)
		}
		if drawJSON {
			if err := printJSON(out, res.Incident); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(out, "%d\t%s\t%s, %s, %s\n", res.ID, res.Incident.Name, res.Incident.Armed, res.Incident.Race, age(res.Incident.Age))
	}
	return nil
}
