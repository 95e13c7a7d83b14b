package events

import (
	"testing"

	"github.com/san-kum/ringfall/internal/geom"
)

func TestEmitterAppendsInOrder(t *testing.T) {
	e := NewEmitter()
	for i := 0; i < 10; i++ {
		e.Emit(Event{Type: Note, Time: float64(i) * 0.1})
	}

	evs := e.Events()
	if len(evs) != 10 {
		t.Fatalf("expected 10 events, got %d", len(evs))
	}
	for i := 1; i < len(evs); i++ {
		if evs[i].Time < evs[i-1].Time {
			t.Errorf("timestamps decrease at %d: %v < %v", i, evs[i].Time, evs[i-1].Time)
		}
	}
}

func TestEmitterSubscribe(t *testing.T) {
	e := NewEmitter()

	var seen []Type
	e.Subscribe(func(ev Event) { seen = append(seen, ev.Type) })

	pos := geom.V(12, 34)
	e.Emit(Event{Type: Activation, Time: 0})
	e.Emit(Event{Type: Note, Time: 0.5, Pos: &pos, Params: map[string]any{"note": 3}})

	if len(seen) != 2 || seen[0] != Activation || seen[1] != Note {
		t.Errorf("subscriber saw %v", seen)
	}
	if e.Count(Note) != 1 || e.Count(Victory) != 0 {
		t.Errorf("unexpected counts: notes=%d victories=%d", e.Count(Note), e.Count(Victory))
	}
}
