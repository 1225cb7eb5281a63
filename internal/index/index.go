package index

import (
	"slices"

	"github.com/ppiankov/incidents/internal/filter"
	"github.com/ppiankov/incidents/internal/model"
)

// Index is the immutable table of category groups.
// Group order is fixed at load time and never changes.
type Index struct {
	groups []model.Group
	total  int
	byID   map[int]Location
}

// Location places a record id within the index
type Location struct {
	Group int // position in Groups()
	Race  model.Race
	Armed model.Armed
	Tier  model.Tier
}

// New validates groups and builds an index over them.
// The index takes ownership of groups; callers must not modify them afterwards.
func New(groups []model.Group) (*Index, error) {
	idx := &Index{
		groups: groups,
		byID:   make(map[int]Location),
	}
	seen := make(map[[2]int]int, len(groups))

	for i, g := range groups {
		if g.Race.Ordinal() < 0 {
			return nil, formatErr(i, "unknown race %q", g.Race)
		}
		if g.Armed.Ordinal() < 0 {
			return nil, formatErr(i, "unknown armed %q", g.Armed)
		}
		key := [2]int{g.Race.Ordinal(), g.Armed.Ordinal()}
		if prev, dup := seen[key]; dup {
			return nil, formatErr(i, "category %s/%s already defined by group %d", g.Race, g.Armed, prev)
		}
		seen[key] = i

		if g.N < 0 {
			return nil, formatErr(i, "negative count %d", g.N)
		}
		if got := len(g.FullIDs) + len(g.DeficientIDs); got != g.N {
			return nil, formatErr(i, "count n=%d but %d ids listed", g.N, got)
		}

		if err := idx.register(i, g, g.FullIDs, model.TierFull); err != nil {
			return nil, err
		}
		if err := idx.register(i, g, g.DeficientIDs, model.TierDeficient); err != nil {
			return nil, err
		}
		idx.total += g.N
	}

	return idx, nil
}

func (idx *Index) register(i int, g model.Group, ids []int, tier model.Tier) error {
	for _, id := range ids {
		if prev, dup := idx.byID[id]; dup {
			return formatErr(i, "duplicate id %d (also in group %d)", id, prev.Group)
		}
		idx.byID[id] = Location{Group: i, Race: g.Race, Armed: g.Armed, Tier: tier}
	}
	return nil
}

// Groups returns the groups in stored order. The id slices are shared and must not be modified.
func (idx *Index) Groups() []model.Group {
	return slices.Clone(idx.groups)
}

// Len returns the number of groups
func (idx *Index) Len() int {
	return len(idx.groups)
}

// TotalCount returns the sum of n across all groups
func (idx *Index) TotalCount() int {
	return idx.total
}

// GroupsMatching returns the groups enabled by sel, preserving stored order
func (idx *Index) GroupsMatching(sel filter.Selection) []model.Group {
	var out []model.Group
	for _, g := range idx.groups {
		if filter.Matches(g, sel) {
			out = append(out, g)
		}
	}
	return out
}

// Lookup returns where id is stored
func (idx *Index) Lookup(id int) (Location, bool) {
	loc, ok := idx.byID[id]
	return loc, ok
}
