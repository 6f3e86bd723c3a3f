package ticket

import (
	"errors"
	"sync"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

var (
	ErrAlreadySubmitted     = errors.New("ticket already submitted")
	ErrSubmissionInProgress = errors.New("ticket submission in progress")
	errNotSubmitting        = errors.New("no submission in progress")
)

// Flow is the lifecycle of one submission:
//
//	Idle -> Submitting -> Success
//	                   -> Failed -> Submitting
//
// Success is terminal.
type Flow struct {
	mu    sync.Mutex
	state State
}

// NewFlow resumes a flow at s. The zero Flow is Idle.
func NewFlow(s State) *Flow {
	return &Flow{state: s}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == "" {
		return StateIdle
	}
	return f.state
}

func (f *Flow) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case "", StateIdle, StateFailed:
		f.state = StateSubmitting
		return nil
	case StateSubmitting:
		return ErrSubmissionInProgress
	default:
		return ErrAlreadySubmitted
	}
}

func (f *Flow) Succeed() error { return f.finish(StateSuccess) }

func (f *Flow) Fail() error { return f.finish(StateFailed) }

func (f *Flow) finish(to State) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateSubmitting {
		return errNotSubmitting
	}
	f.state = to
	return nil
}
