package sample

import (
	"fmt"
	"math/rand/v2"

	"github.com/ppiankov/incidents/internal/filter"
	"github.com/ppiankov/incidents/internal/index"
	"github.com/ppiankov/incidents/internal/model"
)

// ConsistencyFault is raised when the cumulative weight walk selects no group
// despite a positive total weight. It cannot happen for a validated index.
type ConsistencyFault struct {
	Remaining   int // weight left unconsumed after the walk
	TotalWeight int
}

func (f *ConsistencyFault) Error() string {
	return fmt.Sprintf("internal consistency fault: weight walk overran by %d of %d", f.Remaining, f.TotalWeight)
}

// Rand is the randomness a Sampler needs. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Sampler draws record ids weighted by category population
type Sampler struct {
	idx *index.Index
	rnd Rand
}

// NewSampler creates a sampler over idx. A nil rnd uses the global math/rand/v2 source.
func NewSampler(idx *index.Index, rnd Rand) *Sampler {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Sampler{idx: idx, rnd: rnd}
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Draw picks one record id. The group is chosen with probability proportional
// to its n, then an id is chosen uniformly from the group's eligible tiers.
//
// ok is false when no group matches, the matched weight is zero, or the chosen
// group has no id in an eligible tier. The last case is not redrawn against
// another group; callers that need a result call Draw again.
func (s *Sampler) Draw(sel filter.Selection, policy filter.Policy) (id int, ok bool, err error) {
	candidates := s.idx.GroupsMatching(sel)
	if len(candidates) == 0 {
		return 0, false, nil
	}

	totalWeight := 0
	for _, g := range candidates {
		totalWeight += g.N
	}
	if totalWeight == 0 {
		return 0, false, nil
	}

	g, err := pickGroup(candidates, s.rnd.IntN(totalWeight), totalWeight)
	if err != nil {
		return 0, false, err
	}

	pool := eligible(g, policy)
	if len(pool) == 0 {
		return 0, false, nil
	}

	return pool[s.rnd.IntN(len(pool))], true, nil
}

// DrawUntil calls Draw up to attempts times and returns the first id found
func (s *Sampler) DrawUntil(sel filter.Selection, policy filter.Policy, attempts int) (int, bool, error) {
	for range max(attempts, 1) {
		id, ok, err := s.Draw(sel, policy)
		if err != nil || ok {
			return id, ok, err
		}
		// A draw with nothing to choose from will never succeed
		if sel.Empty() || !(policy.IncludeFull || policy.IncludeDeficient) {
			break
		}
	}
	return 0, false, nil
}

// pickGroup returns the group whose cumulative weight range contains r
func pickGroup(candidates []model.Group, r, totalWeight int) (model.Group, error) {
	remaining := r
	for _, g := range candidates {
		if remaining < g.N {
			return g, nil
		}
		remaining -= g.N
	}

	return model.Group{}, &ConsistencyFault{Remaining: remaining, TotalWeight: totalWeight}
}

// eligible concatenates the id lists permitted by policy, full tier first
func eligible(g model.Group, policy filter.Policy) []int {
	var pool []int
	if policy.IncludeFull {
		pool = append(pool, g.FullIDs...)
	}
	if policy.IncludeDeficient {
		pool = append(pool, g.DeficientIDs...)
	}
	return pool
}
