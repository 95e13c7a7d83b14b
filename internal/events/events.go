// Package events holds the audio-event timeline produced by a simulation
// run. The emitter is deliberately single-threaded: it is populated only
// from the simulation step and read wholesale after the run finishes.
package events

import "github.com/san-kum/ringfall/internal/geom"

type Type string

const (
	Note       Type = "note"
	Explosion  Type = "explosion"
	Activation Type = "activation"
	Passage    Type = "passage"
	Victory    Type = "victory"
)

// Event is one immutable timeline entry. Time is seconds from simulation
// start. Pos is nil for events without a world position.
type Event struct {
	Type   Type           `json:"event_type"`
	Time   float64        `json:"time"`
	Pos    *geom.Vec2     `json:"position,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// EmitFunc is the callback handed into entity update methods.
type EmitFunc func(Event)

// Emitter is an append-only, ordered-by-timestamp event list. Subscribers
// observe every event as it is appended; any collaborator that wants to
// react to physics does so here rather than by intercepting entity methods.
type Emitter struct {
	events []Event
	subs   []func(Event)
}

func NewEmitter() *Emitter {
	return &Emitter{events: make([]Event, 0, 256)}
}

func (e *Emitter) Emit(ev Event) {
	e.events = append(e.events, ev)
	for _, fn := range e.subs {
		fn(ev)
	}
}

func (e *Emitter) Subscribe(fn func(Event)) {
	e.subs = append(e.subs, fn)
}

// Events returns the full ordered timeline. The returned slice is owned by
// the emitter; callers read, they do not mutate.
func (e *Emitter) Events() []Event {
	return e.events
}

func (e *Emitter) Len() int { return len(e.events) }

// Count returns how many events of the given type were recorded.
func (e *Emitter) Count(t Type) int {
	n := 0
	for _, ev := range e.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}
