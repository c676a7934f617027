package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)

	load := tm.Begin("load")
	tm.End(load, "3 types")
	render := tm.Begin("render")
	tm.End(render, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %+v", r.Phases)
	}
	if r.Phases[0].DurationMS != 1 || r.Phases[1].DurationMS != 1 || r.TotalMS != 2 {
		t.Fatalf("unexpected durations %+v", r)
	}
	s := tm.Summary()
	if !strings.Contains(s, "load") || !strings.Contains(s, "// 3 types") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}
