package service

import (
	"errors"
	"fmt"
)

type State string

const (
	StateIdle       State = "IDLE"
	StateFetching   State = "FETCHING"
	StateGenerating State = "GENERATING"
	StateRetrying   State = "RETRYING"
	StateReady      State = "READY"
	StateFailed     State = "FAILED"
)

var ErrInvalidTransition = errors.New("invalid task transition")

var transitions = map[State][]State{
	StateIdle:       {StateFetching, StateFailed},
	StateFetching:   {StateGenerating, StateFailed},
	StateGenerating: {StateReady, StateRetrying, StateFailed},
	StateRetrying:   {StateGenerating, StateFailed},
}

type Snapshot struct {
	State   State  `json:"state"`
	Attempt int    `json:"attempt"`
	Reason  string `json:"reason,omitempty"`
}

func (s Snapshot) String() string {
	switch s.State {
	case StateRetrying:
		return fmt.Sprintf("%s(%d)", s.State, s.Attempt)
	case StateFailed:
		return fmt.Sprintf("%s(%s)", s.State, s.Reason)
	default:
		return string(s.State)
	}
}

// Task tracks one generation run. It is not safe for concurrent use.
type Task struct {
	state   State
	attempt int
	reason  string
}

func NewTask() *Task {
	return &Task{state: StateIdle}
}

func (t *Task) Snapshot() Snapshot {
	return Snapshot{State: t.state, Attempt: t.attempt, Reason: t.reason}
}

func (t *Task) Fetch() error {
	return t.move(StateFetching)
}

func (t *Task) Generate() error {
	if err := t.move(StateGenerating); err != nil {
		return err
	}
	t.attempt++
	return nil
}

func (t *Task) Retry() error {
	return t.move(StateRetrying)
}

func (t *Task) Ready() error {
	return t.move(StateReady)
}

func (t *Task) Fail(reason string) error {
	if err := t.move(StateFailed); err != nil {
		return err
	}
	t.reason = reason
	return nil
}

func (t *Task) move(next State) error {
	for _, allowed := range transitions[t.state] {
		if allowed == next {
			t.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.state, next)
}
