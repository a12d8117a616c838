package rmilog_test

import (
	"strings"
	"testing"

	"github.com/bitboom/rmi/pkg/rmilog"
)

func TestRingCapturesDispatchedLines(t *testing.T) {
	ring := rmilog.NewRing(8)
	rmilog.AddLogger("test-ring", ring, rmilog.DEBUG, false)
	defer rmilog.DelLogger("test-ring")

	rmilog.Info("reactor started on %s", "@rmi-test")

	found := false
	for _, line := range ring.Dump() {
		if strings.Contains(line, "reactor started on @rmi-test") {
			found = true
		}
	}
	if !found {
		t.Errorf("ring did not capture dispatched line, got %v", ring.Dump())
	}
}

func TestAddFilterSuppressesMatchingLines(t *testing.T) {
	ring := rmilog.NewRing(8)
	rmilog.AddLogger("test-filter", ring, rmilog.DEBUG, false)
	defer rmilog.DelLogger("test-filter")

	rmilog.AddFilter("test-filter", "secret")

	rmilog.Info("token is secret-value")
	rmilog.Info("ordinary message")

	for _, line := range ring.Dump() {
		if strings.Contains(line, "secret") {
			t.Errorf("filtered line leaked through: %q", line)
		}
	}
}

func TestLevelFlagRoundTrip(t *testing.T) {
	lvl, err := rmilog.LevelFlag("warn")
	if err != nil {
		t.Fatalf("LevelFlag: %v", err)
	}
	if lvl != rmilog.WARN {
		t.Errorf("LevelFlag(warn) = %v, want WARN", lvl)
	}

	if _, err := rmilog.LevelFlag("bogus"); err == nil {
		t.Fatal("expected error for unknown level name")
	}
}
