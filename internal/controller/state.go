package controller

import (
	"github.com/ppiankov/incidents/internal/filter"
	"github.com/ppiankov/incidents/internal/model"
)

// Phase is the controller's position in its two-state machine
type Phase int

const (
	// Idle means no fetch is outstanding
	Idle Phase = iota
	// Resolving means a fetch for PendingID is in flight
	Resolving
)

func (p Phase) String() string {
	if p == Resolving {
		return "resolving"
	}
	return "idle"
}

// State is an immutable snapshot. Transitions return a new State and
// never modify the receiver.
type State struct {
	Phase     Phase
	Filter    filter.Selection
	Policy    filter.Policy
	Current   *model.Incident // displayed record; nil shows "no result"
	PendingID int
	Seq       uint64 // sequence number of the most recent request
}

// Initial returns the startup state: everything enabled, nothing displayed
func Initial(policy filter.Policy) State {
	return State{
		Phase:  Idle,
		Filter: filter.All(),
		Policy: policy,
	}
}

// NoResult reports whether the display shows the "no result" state
func (s State) NoResult() bool {
	return s.Phase == Idle && s.Current == nil
}

// ToggleRace flips one race category in the filter
func (s State) ToggleRace(r model.Race) State {
	s.Filter = s.Filter.ToggleRace(r)
	return s
}

// ToggleArmed flips one armed category in the filter
func (s State) ToggleArmed(a model.Armed) State {
	s.Filter = s.Filter.ToggleArmed(a)
	return s
}

// ToggleFull flips eligibility of full-content records
func (s State) ToggleFull() State {
	s.Policy = s.Policy.ToggleFull()
	return s
}

// ToggleDeficient flips eligibility of deficient-content records
func (s State) ToggleDeficient() State {
	s.Policy = s.Policy.ToggleDeficient()
	return s
}

// ApplyDrawResult records a sampler outcome. A miss supersedes any
// outstanding request and clears the display.
func (s State) ApplyDrawResult(id int, ok bool) State {
	if ok {
		return s
	}
	s.Seq++
	s.Phase = Idle
	s.PendingID = 0
	s.Current = nil
	return s
}

// BeginResolve issues a new request for id and returns its sequence number
func (s State) BeginResolve(id int) (State, uint64) {
	s.Seq++
	s.Phase = Resolving
	s.PendingID = id
	return s, s.Seq
}

// ApplyResponse applies a fetched record issued under seq. With discardStale
// a response older than the latest request is dropped and applied is false;
// otherwise the last response to arrive wins.
func (s State) ApplyResponse(seq uint64, inc model.Incident, discardStale bool) (next State, applied bool) {
	if discardStale && seq < s.Seq {
		return s, false
	}
	s.Current = &inc
	if seq >= s.Seq {
		s.Phase = Idle
		s.PendingID = 0
	}
	return s, true
}
