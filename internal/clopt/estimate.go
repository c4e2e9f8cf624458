package clopt

import (
	"time"

	"github.com/briandowns/spinner"
)

// Estimator drives the -estimate progress display across a long parallel
// region (portal flow, RAD bounce passes): a spinner with a label that
// can be updated as rounds complete, matching the original tool's
// sliding-window ETA banner in spirit without trying to reproduce its
// exact timing model.
type Estimator struct {
	s *spinner.Spinner
}

// NewEstimator starts a spinner with the given title if enabled is true;
// when false it returns an Estimator whose methods are no-ops, so callers
// never need to branch on the -estimate flag themselves.
func NewEstimator(title string, enabled bool) *Estimator {
	if !enabled {
		return &Estimator{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + title
	s.Start()
	return &Estimator{s: s}
}

// Update replaces the spinner's trailing label, used to report
// round/iteration progress ("bounce 3/8").
func (e *Estimator) Update(label string) {
	if e.s == nil {
		return
	}
	e.s.Suffix = " " + label
}

// Stop halts the spinner, if one is running.
func (e *Estimator) Stop() {
	if e.s == nil {
		return
	}
	e.s.Stop()
}
