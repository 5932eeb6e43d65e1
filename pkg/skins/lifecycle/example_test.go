package lifecycle_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/BrandonKowalski/skinrt/pkg/skins/lifecycle"
)

// Example demonstrates a load, run and teardown sequence.
func Example() {
	m := lifecycle.New()

	m.Register(lifecycle.Loading, func(ctx context.Context) error {
		fmt.Println("Loading: skin ready")
		return nil
	})
	m.Register(lifecycle.Ready, func(ctx context.Context) error {
		fmt.Println("Ready: dispatch loop exited")
		return nil
	})
	m.Register(lifecycle.ShuttingDown, func(ctx context.Context) error {
		fmt.Println("ShuttingDown: releasing")
		return nil
	})

	m.OnTransition(func(from lifecycle.State, err error) lifecycle.State {
		switch {
		case from == lifecycle.Loading && err == nil:
			return lifecycle.Ready
		case from == lifecycle.ShuttingDown:
			return lifecycle.Terminated
		default:
			return lifecycle.ShuttingDown
		}
	})

	if err := m.Run(context.Background(), lifecycle.Loading); err != nil {
		fmt.Println("Error:", err)
	}
	fmt.Println("Final:", m.Current())

	// Output:
	// Loading: skin ready
	// Ready: dispatch loop exited
	// ShuttingDown: releasing
	// Final: terminated
}

// Example_loadFailure shows that teardown still runs when loading fails.
func Example_loadFailure() {
	m := lifecycle.New()

	m.Register(lifecycle.Loading, func(ctx context.Context) error {
		return errors.New("no skin")
	})
	m.Register(lifecycle.Ready, func(ctx context.Context) error {
		fmt.Println("never printed")
		return nil
	})
	m.Register(lifecycle.ShuttingDown, func(ctx context.Context) error {
		fmt.Println("ShuttingDown: nothing to release")
		return nil
	})

	m.Observe(func(from, to lifecycle.State) {
		fmt.Printf("%s -> %s\n", from, to)
	})

	m.OnTransition(func(from lifecycle.State, err error) lifecycle.State {
		if from == lifecycle.Loading && err == nil {
			return lifecycle.Ready
		}
		if from == lifecycle.ShuttingDown {
			return lifecycle.Terminated
		}
		return lifecycle.ShuttingDown
	})

	err := m.Run(context.Background(), lifecycle.Loading)
	fmt.Println("Error:", err)

	// Output:
	// uninitialized -> loading
	// loading -> shutting_down
	// ShuttingDown: nothing to release
	// shutting_down -> terminated
	// Error: lifecycle: loading: no skin
}
