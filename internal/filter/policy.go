package filter

import (
	"fmt"
	"strings"

	"github.com/ppiankov/incidents/internal/model"
)

// Policy selects which completeness tiers of a group are eligible for a draw
type Policy struct {
	IncludeFull      bool
	IncludeDeficient bool
}

// BothTiers includes full and deficient records
func BothTiers() Policy {
	return Policy{IncludeFull: true, IncludeDeficient: true}
}

// Includes reports whether records of tier t are eligible
func (p Policy) Includes(t model.Tier) bool {
	switch t {
	case model.TierFull:
		return p.IncludeFull
	case model.TierDeficient:
		return p.IncludeDeficient
	default:
		return false
	}
}

// ToggleFull returns a copy of p with IncludeFull flipped
func (p Policy) ToggleFull() Policy {
	p.IncludeFull = !p.IncludeFull
	return p
}

// ToggleDeficient returns a copy of p with IncludeDeficient flipped
func (p Policy) ToggleDeficient() Policy {
	p.IncludeDeficient = !p.IncludeDeficient
	return p
}

func (p Policy) String() string {
	switch {
	case p.IncludeFull && p.IncludeDeficient:
		return "all"
	case p.IncludeFull:
		return string(model.TierFull)
	case p.IncludeDeficient:
		return string(model.TierDeficient)
	default:
		return "none"
	}
}

// ParsePolicy parses "all", "full", "deficient" or "none"; empty means all
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return BothTiers(), nil
	case string(model.TierFull):
		return Policy{IncludeFull: true}, nil
	case string(model.TierDeficient):
		return Policy{IncludeDeficient: true}, nil
	case "none":
		return Policy{}, nil
	default:
		return Policy{}, fmt.Errorf("unknown tier %q (valid: all, full, deficient, none)", s)
	}
}
