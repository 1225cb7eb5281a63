package model

// Group holds every known record of one (race, armed) category.
// N counts both completeness tiers: N == len(FullIDs) + len(DeficientIDs).
type Group struct {
	Race         Race
	Armed        Armed
	N            int
	FullIDs      []int // records with photo, summary, source link and video
	DeficientIDs []int // records missing that supplementary content
}

// Tier classifies a record by the completeness of its supplementary content
type Tier string

const (
	TierFull      Tier = "full"
	TierDeficient Tier = "deficient"
)
