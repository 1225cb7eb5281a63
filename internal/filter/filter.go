package filter

import (
	"fmt"
	"strings"

	"github.com/ppiankov/incidents/internal/model"
)

// Selection is the set of enabled race and armed categories.
// It is a comparable value; every operation returns a new Selection.
type Selection struct {
	races uint8 // bit i set when model.AllRaces[i] is enabled
	armed uint8 // bit i set when model.AllArmed[i] is enabled
}

// All returns a selection with every category enabled
func All() Selection {
	return Selection{
		races: 1<<len(model.AllRaces) - 1,
		armed: 1<<len(model.AllArmed) - 1,
	}
}

// None returns a selection with every category disabled
func None() Selection {
	return Selection{}
}

// Of builds a selection enabling exactly the given categories.
// Unknown category values are ignored.
func Of(races []model.Race, armed []model.Armed) Selection {
	var s Selection
	for _, r := range races {
		if i := r.Ordinal(); i >= 0 {
			s.races |= 1 << i
		}
	}
	for _, a := range armed {
		if i := a.Ordinal(); i >= 0 {
			s.armed |= 1 << i
		}
	}
	return s
}

// ToggleRace returns a copy of s with r's membership flipped
func (s Selection) ToggleRace(r model.Race) Selection {
	if i := r.Ordinal(); i >= 0 {
		s.races ^= 1 << i
	}
	return s
}

// ToggleArmed returns a copy of s with a's membership flipped
func (s Selection) ToggleArmed(a model.Armed) Selection {
	if i := a.Ordinal(); i >= 0 {
		s.armed ^= 1 << i
	}
	return s
}

// HasRace reports whether r is enabled
func (s Selection) HasRace(r model.Race) bool {
	i := r.Ordinal()
	return i >= 0 && s.races&(1<<i) != 0
}

// HasArmed reports whether a is enabled
func (s Selection) HasArmed(a model.Armed) bool {
	i := a.Ordinal()
	return i >= 0 && s.armed&(1<<i) != 0
}

// Races returns the enabled race categories in canonical order
func (s Selection) Races() []model.Race {
	var out []model.Race
	for _, r := range model.AllRaces {
		if s.HasRace(r) {
			out = append(out, r)
		}
	}
	return out
}

// Armed returns the enabled armed categories in canonical order
func (s Selection) Armed() []model.Armed {
	var out []model.Armed
	for _, a := range model.AllArmed {
		if s.HasArmed(a) {
			out = append(out, a)
		}
	}
	return out
}

// Empty reports whether no group can match s
func (s Selection) Empty() bool {
	return s.races == 0 || s.armed == 0
}

// Matches reports whether g's category is enabled in both dimensions
func Matches(g model.Group, s Selection) bool {
	return s.HasRace(g.Race) && s.HasArmed(g.Armed)
}

func (s Selection) String() string {
	return fmt.Sprintf("race=[%s] armed=[%s]", joinRaces(s.Races()), joinArmed(s.Armed()))
}

func joinRaces(rs []model.Race) string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.String()
	}
	return strings.Join(names, ",")
}

func joinArmed(as []model.Armed) string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = a.String()
	}
	return strings.Join(names, ",")
}

// Parse builds a selection from user-supplied category names.
// An empty list leaves that dimension fully enabled; the single name "none" disables it.
func Parse(races, armed []string) (Selection, error) {
	sel := All()
	if len(races) > 0 {
		sel.races = 0
		for _, name := range races {
			if isNone(name) {
				continue
			}
			r, err := model.ParseRace(name)
			if err != nil {
				return Selection{}, err
			}
			sel.races |= 1 << r.Ordinal()
		}
	}
	if len(armed) > 0 {
		sel.armed = 0
		for _, name := range armed {
			if isNone(name) {
				continue
			}
			a, err := model.ParseArmed(name)
			if err != nil {
				return Selection{}, err
			}
			sel.armed |= 1 << a.Ordinal()
		}
	}
	return sel, nil
}

func isNone(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), "none")
}
