package skins

import (
	"context"
	"errors"
	"time"

	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
	"github.com/BrandonKowalski/skinrt/pkg/skins/state"
)

// dispatch is the event loop. It owns every theme mutation while it runs.
func (r *Runtime) dispatch(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go r.tick(ctx, r.config.Get().RefreshInterval())

	for r.state.Status() == state.Running {
		evt, err := r.backend.NextEvent(ctx)
		if err != nil {
			if errors.Is(err, platform.ErrClosed) || ctx.Err() != nil {
				r.state.RequestEnd()
				return nil
			}
			r.state.SetStatus(state.Error)
			return NewInfrastructureError("next_event", err)
		}

		if !r.route(evt) {
			break
		}
	}
	return nil
}

// route handles one event and reports whether the loop should continue.
func (r *Runtime) route(evt platform.Event) bool {
	if platform.IsSemantic(evt.Code) {
		return r.adapter.EventProc(evt)
	}

	if evt.Code == platform.EventQuit {
		r.state.RequestEnd()
		return false
	}

	r.state.Lock()
	defer r.state.Unlock()

	t := r.state.Theme()
	if t == nil {
		return true
	}

	if evt.Code == platform.EventKeyDown {
		if _, matched := t.EventBank().TestShortcut(int(evt.Param1), platform.Modifier(evt.Param2)); matched {
			return true
		}
	}

	t.Route(evt)
	return true
}

// tick posts a timer message at every interval until ctx ends. The refresh
// cycle itself runs on the dispatch goroutine when the message arrives.
func (r *Runtime) tick(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := r.backend.PostMessage(platform.Message(platform.MsgTimer, 0, 0))
			if errors.Is(err, platform.ErrClosed) {
				return
			}
		}
	}
}
