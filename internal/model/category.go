package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Race is the race component of a record's category
type Race string

const (
	RaceWhite    Race = "White"
	RaceBlack    Race = "Black"
	RaceHispanic Race = "Hispanic"
	RaceOther    Race = "Other"
)

// AllRaces lists every race category in canonical order
var AllRaces = []Race{RaceWhite, RaceBlack, RaceHispanic, RaceOther}

// Armed is the armament component of a record's category
type Armed string

const (
	ArmedGun     Armed = "Gun"
	ArmedKnife   Armed = "Knife"
	ArmedUnarmed Armed = "Unarmed"
	ArmedOther   Armed = "Other"
)

// AllArmed lists every armament category in canonical order
var AllArmed = []Armed{ArmedGun, ArmedKnife, ArmedUnarmed, ArmedOther}

func (r Race) String() string { return string(r) }

// Ordinal returns the position of r in AllRaces, or -1 if r is not a known category
func (r Race) Ordinal() int {
	for i, v := range AllRaces {
		if v == r {
			return i
		}
	}
	return -1
}

func (a Armed) String() string { return string(a) }

// Ordinal returns the position of a in AllArmed, or -1 if a is not a known category
func (a Armed) Ordinal() int {
	for i, v := range AllArmed {
		if v == a {
			return i
		}
	}
	return -1
}

// ParseRace parses a race category name, ignoring case and surrounding space
func ParseRace(s string) (Race, error) {
	r := Race(title(s))
	if r.Ordinal() < 0 {
		return "", fmt.Errorf("unknown race category %q (valid: %s)", s, joinNames(AllRaces))
	}
	return r, nil
}

// ParseArmed parses an armament category name, ignoring case and surrounding space
func ParseArmed(s string) (Armed, error) {
	a := Armed(title(s))
	if a.Ordinal() < 0 {
		return "", fmt.Errorf("unknown armed category %q (valid: %s)", s, joinNames(AllArmed))
	}
	return a, nil
}

// title folds user input onto the canonical spelling; a Caser is stateful so one is built per call
func title(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

func joinNames[T ~string](vals []T) string {
	names := make([]string, len(vals))
	for i, v := range vals {
		names[i] = strings.ToLower(string(v))
	}
	return strings.Join(names, ", ")
}
