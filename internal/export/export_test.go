package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/ringfall/internal/events"
	"github.com/san-kum/ringfall/internal/geom"
)

func TestWriteAndLoadArtifacts(t *testing.T) {
	video := filepath.Join(t.TempDir(), "out.mp4")

	pos := geom.V(100, 200)
	evs := []events.Event{
		{Type: events.Note, Time: 0.5, Pos: &pos, Params: map[string]any{"note": 3, "octave": 1}},
		{Type: events.Victory, Time: 9.1, Params: map[string]any{"ball_name": "Ball"}},
	}
	meta := Metadata{
		Path: video, Width: 1080, Height: 1920, FPS: 60,
		Duration: 30, FrameCount: 1800, Codec: "libx264",
		Events: len(evs), CreatedAt: time.Now(),
	}

	if err := WriteArtifacts(video, meta, evs); err != nil {
		t.Fatalf("write: %v", err)
	}

	gotMeta, err := LoadMetadata(video)
	if err != nil {
		t.Fatalf("load metadata: %v", err)
	}
	if gotMeta.FrameCount != 1800 || gotMeta.Codec != "libx264" {
		t.Errorf("metadata round trip lost fields: %+v", gotMeta)
	}

	gotEvs, err := LoadEvents(video)
	if err != nil {
		t.Fatalf("load events: %v", err)
	}
	if len(gotEvs) != 2 {
		t.Fatalf("events = %d, want 2", len(gotEvs))
	}
	if gotEvs[0].Type != events.Note || gotEvs[0].Pos == nil {
		t.Errorf("first event mangled: %+v", gotEvs[0])
	}
	if gotEvs[1].Time != 9.1 {
		t.Errorf("second event time = %v", gotEvs[1].Time)
	}
}
