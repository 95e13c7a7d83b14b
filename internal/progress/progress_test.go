package progress

import (
	"strings"
	"testing"

	"github.com/san-kum/ringfall/internal/encoder"
	"github.com/san-kum/ringfall/internal/generator"
)

func TestModelAccumulatesSnapshots(t *testing.T) {
	ch := make(chan generator.Snapshot, 1)
	m := NewModel(ch)

	var model interface{} = m
	for i := 1; i <= 3; i++ {
		next, cmd := model.(Model).Update(snapMsg(generator.Snapshot{
			Frame: i, Total: 10, EventRate: float64(i),
		}))
		if cmd == nil {
			t.Fatal("expected a follow-up wait command")
		}
		model = next
	}

	got := model.(Model)
	if got.last.Frame != 3 {
		t.Errorf("last frame = %d, want 3", got.last.Frame)
	}
	if len(got.rates) != 3 {
		t.Errorf("rate history length = %d, want 3", len(got.rates))
	}
}

func TestModelQuitsWhenChannelCloses(t *testing.T) {
	ch := make(chan generator.Snapshot)
	close(ch)
	m := NewModel(ch)

	msg := m.wait()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("message %T, want doneMsg", msg)
	}
	next, cmd := m.Update(msg)
	if !next.(Model).done {
		t.Error("model should be done")
	}
	if cmd == nil {
		t.Error("expected a quit command")
	}
}

func TestViewRenders(t *testing.T) {
	m := NewModel(nil)
	m.last = generator.Snapshot{
		Frame: 450, Total: 1800, Time: 7.5,
		Stats: encoder.Stats{Produced: 450, Forwarded: 440, Dropped: 10},
	}
	m.rates = []float64{0, 2, 5, 3}

	out := m.View()
	if !strings.Contains(out, "450 / 1800") {
		t.Errorf("view missing frame counter:\n%s", out)
	}
	if !strings.Contains(out, "events/s") {
		t.Errorf("view missing rate chart:\n%s", out)
	}
}

func TestProgressBarBounds(t *testing.T) {
	if got := progressBar(-0.5, 10); got == "" {
		t.Error("empty bar for negative progress")
	}
	if got := progressBar(1.5, 10); got == "" {
		t.Error("empty bar for overflow progress")
	}
}
