package coverage

import (
	"fmt"

	"github.com/ppiankov/incidents/internal/filter"
	"github.com/ppiankov/incidents/internal/index"
)

// Coverage is the number of records enabled by a filter out of all known records
type Coverage struct {
	Matched int `json:"matched"`
	Total   int `json:"total"`
}

// Calculate derives coverage from the index and selection. It is a pure function.
func Calculate(idx *index.Index, sel filter.Selection) Coverage {
	matched := 0
	for _, g := range idx.GroupsMatching(sel) {
		matched += g.N
	}

	return Coverage{
		Matched: matched,
		Total:   idx.TotalCount(),
	}
}

// Percent returns floor(matched*100/total), or 0 for an empty dataset
func (c Coverage) Percent() int {
	if c.Total == 0 {
		return 0
	}
	return c.Matched * 100 / c.Total
}

func (c Coverage) String() string {
	return fmt.Sprintf("%d out of %d people match your filters (%d%%)", c.Matched, c.Total, c.Percent())
}
