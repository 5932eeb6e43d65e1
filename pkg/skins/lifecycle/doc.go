// Package lifecycle sequences the runtime through its states with explicit
// steps and a single transition function.
//
// Each state has one registered step. After a step returns, the transition
// function picks the next state from the state that just ran and the error it
// returned. The machine rejects transitions the lifecycle does not allow, so
// a Terminated runtime can never be restarted and ShuttingDown always ends in
// Terminated.
//
// # Basic Usage
//
//	m := lifecycle.New()
//
//	m.Register(lifecycle.Loading, func(ctx context.Context) error {
//	    return loadSkin(ctx)
//	})
//	m.Register(lifecycle.Ready, func(ctx context.Context) error {
//	    return dispatch(ctx)
//	})
//	m.Register(lifecycle.ShuttingDown, func(ctx context.Context) error {
//	    release()
//	    return nil
//	})
//
//	m.OnTransition(func(from lifecycle.State, err error) lifecycle.State {
//	    switch {
//	    case from == lifecycle.Loading && err == nil:
//	        return lifecycle.Ready
//	    case from == lifecycle.ShuttingDown:
//	        return lifecycle.Terminated
//	    default:
//	        return lifecycle.ShuttingDown
//	    }
//	})
//
//	err := m.Run(ctx, lifecycle.Loading)
//
// Run returns the first error any step returned; later steps still run so
// teardown happens on every path.
package lifecycle
