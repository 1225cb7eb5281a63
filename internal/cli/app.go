package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/incidents/internal/cache"
	"github.com/ppiankov/incidents/internal/filter"
	"github.com/ppiankov/incidents/internal/index"
	"github.com/ppiankov/incidents/internal/logging"
	"github.com/ppiankov/incidents/internal/model"
	"github.com/ppiankov/incidents/internal/pipeline"
	"github.com/ppiankov/incidents/internal/util"
	"github.com/ppiankov/incidents/internal/worker"
)

// filterFlags are shared by every command that takes a category filter
type filterFlags struct {
	races []string
	armed []string
	tier  string
}

func (f *filterFlags) register(cmd *cobra.Command, withTier bool) {
	cmd.Flags().StringSliceVar(&f.races, "race", nil, "enabled race categories (white, black, hispanic, other, none); default all")
	cmd.Flags().StringSliceVar(&f.armed, "armed", nil, "enabled armed categories (gun, knife, unarmed, other, none); default all")
	if withTier {
		cmd.Flags().StringVar(&f.tier, "tier", "", "eligible completeness tiers (all, full, deficient, none); default from config")
	}
}

func (f *filterFlags) selection() (filter.Selection, error) {
	return filter.Parse(f.races, f.armed)
}

func (f *filterFlags) policy(cfg *model.Config) (filter.Policy, error) {
	if f.tier == "" {
		return configPolicy(cfg), nil
	}
	return filter.ParsePolicy(f.tier)
}

func configPolicy(cfg *model.Config) filter.Policy {
	return filter.Policy{
		IncludeFull:      cfg.Selection.IncludeFull,
		IncludeDeficient: cfg.Selection.IncludeDeficient,
	}
}

// loadIndex loads the dataset; a DataFormatError here is fatal
func loadIndex(cfg *model.Config) (*index.Index, error) {
	idx, err := index.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", cfg.Dataset.Path, err)
	}
	logging.New("index").Debug("dataset loaded",
		"path", cfg.Dataset.Path,
		"groups", idx.Len(),
		"records", idx.TotalCount(),
	)
	return idx, nil
}

// newFetcher wires the detail source, cache, limiter and robots checker
func newFetcher(cfg *model.Config) *pipeline.DetailFetcher {
	var src pipeline.Source
	if cfg.Detail.BaseURL != "" {
		limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
		var robots *util.RobotsChecker
		if cfg.HTTP.RespectRobots {
			robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout, logging.New("robots"))
		}
		src = pipeline.NewHTTPSource(cfg.Detail.BaseURL, cfg.HTTP, limiter, robots)
	} else {
		src = pipeline.NewDirSource(cfg.Detail.Dir)
	}

	return pipeline.NewDetailFetcher(src, cache.FromConfig(cfg.Cache), cfg.Detail.FallbackID, logging.New("fetcher"))
}
