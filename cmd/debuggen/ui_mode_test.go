package main

import "testing"

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("fancy"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestShouldUseTUI(t *testing.T) {
	if !shouldUseTUI(uiModeOn, settings{}) {
		t.Fatal("on must force the view")
	}
	if shouldUseTUI(uiModeOff, settings{Output: "out.rs"}) {
		t.Fatal("off must disable the view")
	}
	if shouldUseTUI(uiModeAuto, settings{Output: "-"}) {
		t.Fatal("auto must stay off when code goes to stdout")
	}
	if shouldUseTUI(uiModeAuto, settings{Output: "out.rs", Quiet: true}) {
		t.Fatal("auto must stay off in quiet mode")
	}
}
