package progress

import (
	"log"
	"time"

	"github.com/san-kum/ringfall/internal/generator"
)

// LogReporter is the quiet-mode fallback: one log line per interval instead
// of a live view.
type LogReporter struct {
	interval time.Duration
	last     time.Time
}

func NewLogReporter(interval time.Duration) *LogReporter {
	return &LogReporter{interval: interval}
}

// Observe is wired as the generator's observer callback.
func (r *LogReporter) Observe(s generator.Snapshot) {
	if time.Since(r.last) < r.interval && s.Frame != s.Total {
		return
	}
	r.last = time.Now()
	log.Printf("progress: frame %d/%d (t=%.1fs, forwarded=%d, dropped=%d)",
		s.Frame, s.Total, s.Time, s.Stats.Forwarded, s.Stats.Dropped)
}
