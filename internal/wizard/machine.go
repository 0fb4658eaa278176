// Package wizard implements the multi-step booking and onboarding flows as
// explicit state machines.
package wizard

import (
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
)

// Step is one state of a wizard.
type Step string

// Guard validates the data collected so far before leaving a step.
type Guard[D any] func(d *D) error

// Machine is a linear wizard: each step may move forward to the next one
// when its guard passes, or back to the previous one. The last step is
// terminal.
type Machine[D any] struct {
	steps       []Step
	guards      map[Step]Guard[D]
	transitions map[Step][]Step
}

func NewMachine[D any](steps []Step, guards map[Step]Guard[D]) *Machine[D] {
	m := &Machine[D]{
		steps:       steps,
		guards:      guards,
		transitions: make(map[Step][]Step, len(steps)),
	}

	// the terminal step gets no outgoing transitions
	for i, s := range steps {
		if i == len(steps)-1 {
			break
		}
		m.transitions[s] = append(m.transitions[s], steps[i+1])
		if i > 0 {
			m.transitions[s] = append(m.transitions[s], steps[i-1])
		}
	}
	return m
}

func (m *Machine[D]) Initial() Step {
	return m.steps[0]
}

func (m *Machine[D]) IsFinal(s Step) bool {
	return len(m.steps) > 0 && s == m.steps[len(m.steps)-1]
}

func (m *Machine[D]) CanTransition(from, to Step) bool {
	for _, allowed := range m.transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Next runs the guard of cur and returns the following step.
func (m *Machine[D]) Next(cur Step, d *D) (Step, error) {
	next, ok := m.neighbour(cur, 1)
	if !ok || !m.CanTransition(cur, next) {
		return cur, httperr.ErrConflict("invalid_step")
	}

	if guard := m.guards[cur]; guard != nil {
		if err := guard(d); err != nil {
			return cur, err
		}
	}
	return next, nil
}

// Back returns the previous step. Guards are not run going back.
func (m *Machine[D]) Back(cur Step) (Step, error) {
	prev, ok := m.neighbour(cur, -1)
	if !ok || !m.CanTransition(cur, prev) {
		return cur, httperr.ErrConflict("invalid_step")
	}
	return prev, nil
}

// Run walks every step from the initial one, stopping at the first failing
// guard. It returns the step reached.
func (m *Machine[D]) Run(d *D) (Step, error) {
	cur := m.Initial()
	for !m.IsFinal(cur) {
		next, err := m.Next(cur, d)
		if err != nil {
			return cur, err
		}
		cur = next
	}
	return cur, nil
}

func (m *Machine[D]) neighbour(cur Step, delta int) (Step, bool) {
	for i, s := range m.steps {
		if s != cur {
			continue
		}
		j := i + delta
		if j < 0 || j >= len(m.steps) {
			return "", false
		}
		return m.steps[j], true
	}
	return "", false
}
