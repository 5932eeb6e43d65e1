package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"
)

// State is a runtime lifecycle state.
type State int32

const (
	Uninitialized State = iota
	Loading
	Ready
	ShuttingDown
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case ShuttingDown:
		return "shutting_down"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

var allowed = map[State][]State{
	Uninitialized: {Loading, ShuttingDown},
	Loading:       {Ready, ShuttingDown},
	Ready:         {Loading, ShuttingDown},
	ShuttingDown:  {Terminated},
}

// CanTransition reports whether the lifecycle allows moving from one state to
// another.
func CanTransition(from, to State) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// StepFunc runs the work of one state.
type StepFunc func(ctx context.Context) error

// TransitionFunc picks the state following from, given the error its step
// returned.
type TransitionFunc func(from State, err error) State

// Machine runs registered steps until Terminated.
type Machine struct {
	steps      map[State]StepFunc
	transition TransitionFunc
	current    *atomic.Int32

	mu        sync.Mutex
	observers []func(from, to State)
}

// New creates a machine in the Uninitialized state.
func New() *Machine {
	return &Machine{
		steps:   make(map[State]StepFunc),
		current: atomic.NewInt32(int32(Uninitialized)),
	}
}

// Register sets the step run on entering s.
func (m *Machine) Register(s State, fn StepFunc) *Machine {
	m.steps[s] = fn
	return m
}

// OnTransition sets the function deciding the next state.
func (m *Machine) OnTransition(fn TransitionFunc) *Machine {
	m.transition = fn
	return m
}

// Observe adds a callback invoked on every state change.
func (m *Machine) Observe(fn func(from, to State)) *Machine {
	m.mu.Lock()
	m.observers = append(m.observers, fn)
	m.mu.Unlock()
	return m
}

// Current returns the state the machine is in. Safe from any goroutine.
func (m *Machine) Current() State {
	return State(m.current.Load())
}

func (m *Machine) enter(to State) {
	from := State(m.current.Swap(int32(to)))
	m.mu.Lock()
	observers := append([]func(from, to State){}, m.observers...)
	m.mu.Unlock()
	for _, fn := range observers {
		fn(from, to)
	}
}

// Run enters start and keeps running steps until the machine reaches
// Terminated. The step for Terminated, if registered, runs last. The first
// step error is returned.
func (m *Machine) Run(ctx context.Context, start State) error {
	if m.transition == nil {
		return fmt.Errorf("lifecycle: no transition function set")
	}
	if cur := m.Current(); !CanTransition(cur, start) {
		return fmt.Errorf("lifecycle: cannot start at %s from %s", start, cur)
	}

	var first error
	current := start
	for {
		m.enter(current)

		var err error
		if fn, ok := m.steps[current]; ok {
			err = fn(ctx)
			if err != nil && first == nil {
				first = fmt.Errorf("lifecycle: %s: %w", current, err)
			}
		}

		if current == Terminated {
			return first
		}

		next := m.transition(current, err)
		if !CanTransition(current, next) {
			// Never strand the runtime: an illegal target shuts down.
			if first == nil {
				first = fmt.Errorf("lifecycle: illegal transition %s -> %s", current, next)
			}
			next = ShuttingDown
			if current == ShuttingDown {
				next = Terminated
			}
		}
		current = next
	}
}
