package model

// Incident is the full detail record for one identifier
type Incident struct {
	ID                   int    `json:"id" yaml:"id"`
	Name                 string `json:"name" yaml:"name"`
	Age                  int    `json:"age" yaml:"age"`
	Gender               string `json:"gender" yaml:"gender"`
	Race                 string `json:"race" yaml:"race"`
	Armed                string `json:"armed" yaml:"armed"`
	Date                 string `json:"date" yaml:"date"`
	MannerOfDeath        string `json:"manner_of_death,omitempty" yaml:"manner_of_death,omitempty"`
	City                 string `json:"city" yaml:"city"`
	State                string `json:"state" yaml:"state"`
	SignsOfMentalIllness string `json:"signs_of_mental_illness,omitempty" yaml:"signs_of_mental_illness,omitempty"`
	ThreatLevel          string `json:"threat_level,omitempty" yaml:"threat_level,omitempty"`
	Flee                 string `json:"flee,omitempty" yaml:"flee,omitempty"`
	BodyCamera           string `json:"body_camera,omitempty" yaml:"body_camera,omitempty"`

	// Supplementary content, absent for deficient records
	Photo    string `json:"photo,omitempty" yaml:"photo,omitempty"`
	Summary  string `json:"summary,omitempty" yaml:"summary,omitempty"`
	NewsLink string `json:"newslink,omitempty" yaml:"newslink,omitempty"`
	YouTube  string `json:"youtube,omitempty" yaml:"youtube,omitempty"`
	Embed    string `json:"embed,omitempty" yaml:"embed,omitempty"` // raw embeddable markup

	Defaulted bool `json:"defaulted,omitempty" yaml:"defaulted,omitempty"` // supplementary defaults were applied
	Fallback  bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`   // substituted after a failed fetch
}

// Location returns "City, State", or whichever part is known
func (i Incident) Location() string {
	switch {
	case i.City != "" && i.State != "":
		return i.City + ", " + i.State
	case i.City != "":
		return i.City
	default:
		return i.State
	}
}

// FallbackID identifies the built-in record shown when a detail fetch fails.
// It is outside the id range of the dataset.
const FallbackID = 0

// FallbackSuffix marks the display name of a substituted record
const FallbackSuffix = " (fallback)"
