package ui

import (
	"fmt"
	"strings"
	"testing"

	"debuggen/internal/driver"
)

func TestProgressModelTracksRecords(t *testing.T) {
	m := NewProgressModel("gen", nil).(*progressModel)
	for i := range 3 {
		m.applyEvent(driver.ProgressEvent{Record: fmt.Sprintf("R%d", i), Status: driver.StatusQueued})
	}
	m.applyEvent(driver.ProgressEvent{Record: "R0", Status: driver.StatusRendering})
	m.applyEvent(driver.ProgressEvent{Record: "R0", Status: driver.StatusDone})
	m.applyEvent(driver.ProgressEvent{Record: "R1", Status: driver.StatusError})
	// Late events for finished records are ignored.
	m.applyEvent(driver.ProgressEvent{Record: "R0", Status: driver.StatusRendering})

	if m.done != 1 || m.failed != 1 || len(m.items) != 3 {
		t.Fatalf("done=%d failed=%d items=%d", m.done, m.failed, len(m.items))
	}
	view := m.View()
	for _, want := range []string{"gen (2/3 records), 1 failed", "R0", "R1"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "R2") {
		t.Fatalf("queued-only record must not be listed:\n%s", view)
	}
}

func TestProgressModelKeepsRecentRows(t *testing.T) {
	m := NewProgressModel("gen", nil).(*progressModel)
	for i := range maxRows + 5 {
		m.applyEvent(driver.ProgressEvent{Record: fmt.Sprintf("R%02d", i), Status: driver.StatusDone})
	}
	if len(m.recent) != maxRows {
		t.Fatalf("recent = %d rows", len(m.recent))
	}
	if m.items[m.recent[len(m.recent)-1]].name != fmt.Sprintf("R%02d", maxRows+4) {
		t.Fatal("latest record must be listed last")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 20); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}
