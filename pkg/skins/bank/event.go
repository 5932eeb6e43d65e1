package bank

import (
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

// Target is a widget that renders a ControlEvent's value or text.
type Target interface {
	SetValue(v int)
	SetText(s string)
}

// ControlEvent is one named, bindable UI signal. Values and texts posted to it
// are forwarded to every bound Target; the last posted value and text are
// remembered so widgets bound later (or shown later) start in sync.
//
// A ControlEvent may also carry a semantic message that is posted when the
// event is triggered by a button, a slider drag, or a shortcut.
type ControlEvent struct {
	name    string
	message platform.Event
	action  bool
	poster  platform.Poster
	targets []Target

	value    int
	hasValue bool
	text     string
	hasText  bool
}

// Name returns the identifier the event is registered under.
func (e *ControlEvent) Name() string {
	return e.name
}

// HasAction reports whether triggering the event posts a message.
func (e *ControlEvent) HasAction() bool {
	return e.action
}

// Message returns the semantic message template of the event.
func (e *ControlEvent) Message() platform.Event {
	return e.message
}

// Bind attaches a widget. It immediately receives the last posted state.
func (e *ControlEvent) Bind(t Target) {
	e.targets = append(e.targets, t)
	if e.hasValue {
		t.SetValue(e.value)
	}
	if e.hasText {
		t.SetText(e.text)
	}
}

// PostValue forwards a numeric value to the bound widgets.
func (e *ControlEvent) PostValue(v int) {
	e.value, e.hasValue = v, true
	for _, t := range e.targets {
		t.SetValue(v)
	}
}

// PostText forwards a string to the bound widgets.
func (e *ControlEvent) PostText(s string) {
	e.text, e.hasText = s, true
	for _, t := range e.targets {
		t.SetText(s)
	}
}

// LastValue returns the last posted value.
func (e *ControlEvent) LastValue() (int, bool) {
	return e.value, e.hasValue
}

// LastText returns the last posted text.
func (e *ControlEvent) LastText() (string, bool) {
	return e.text, e.hasText
}

// Trigger posts the event's message unchanged.
func (e *ControlEvent) Trigger() error {
	return e.TriggerWith(e.message.Param2)
}

// TriggerWith posts the event's message with Param2 replaced, used by
// sliders to carry their new position.
func (e *ControlEvent) TriggerWith(param2 int64) error {
	if !e.action || e.poster == nil {
		return nil
	}
	msg := e.message
	msg.Param2 = param2
	return e.poster.PostMessage(msg)
}

func (e *ControlEvent) unbindAll() {
	e.targets = nil
}
