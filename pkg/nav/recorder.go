package nav

import "time"

// Outcome describes what a directional press did.
type Outcome string

const (
	OutcomeMoved       Outcome = "moved"        // focus moved within a region
	OutcomeEntered     Outcome = "entered"      // focus crossed into another region
	OutcomeInitial     Outcome = "initial"      // first focus of the session
	OutcomeNoCandidate Outcome = "no_candidate" // nothing in that direction
	OutcomeNoFocusable Outcome = "no_focusable" // registry has no focusable element
)

// Moved reports whether the outcome changed focus.
func (o Outcome) Moved() bool {
	return o == OutcomeMoved || o == OutcomeEntered || o == OutcomeInitial
}

// Recorder receives navigation measurements.
type Recorder interface {
	Navigated(dir Direction, outcome Outcome, elapsed time.Duration)
	CandidatesFound(dir Direction, elements, regions int)
	RegionEntered(policy EnteringPolicy)
	RegistrySize(elements, regions int)
}

type nopRecorder struct{}

func (nopRecorder) Navigated(Direction, Outcome, time.Duration) {}
func (nopRecorder) CandidatesFound(Direction, int, int)         {}
func (nopRecorder) RegionEntered(EnteringPolicy)                {}
func (nopRecorder) RegistrySize(int, int)                       {}
