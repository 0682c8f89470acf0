package authz

import "testing"

func TestTrackerLastResolveWins(t *testing.T) {
	tr := NewTracker()

	gen1 := tr.Begin("device-1")
	gen2 := tr.Begin("device-1")

	stale := Snapshot{Capabilities: AllFalse()}
	fresh := Snapshot{Capabilities: AllTrue()}

	if !tr.Complete("device-1", gen2, fresh) {
		t.Fatalf("latest generation must be kept")
	}
	if tr.Complete("device-1", gen1, stale) {
		t.Fatalf("superseded generation must be discarded")
	}

	snap, ok := tr.Current("device-1")
	if !ok {
		t.Fatalf("expected cached snapshot")
	}
	if !snap.Capabilities.Allowed("canViewCoursesPage") {
		t.Fatalf("stale snapshot overwrote the fresh one")
	}
}

func TestTrackerInvalidate(t *testing.T) {
	tr := NewTracker()

	gen := tr.Begin("device-1")
	tr.Complete("device-1", gen, Snapshot{Capabilities: AllTrue()})

	tr.Invalidate("device-1")
	if _, ok := tr.Current("device-1"); ok {
		t.Fatalf("invalidate must discard the snapshot")
	}

	// A resolve begun before the invalidation must not land afterwards.
	if tr.Complete("device-1", gen, Snapshot{Capabilities: AllTrue()}) {
		t.Fatalf("invalidate must supersede in-flight resolves")
	}
}

func TestTrackerInvalidateAll(t *testing.T) {
	tr := NewTracker()
	for _, device := range []string{"a", "b"} {
		gen := tr.Begin(device)
		tr.Complete(device, gen, Snapshot{Capabilities: AllTrue()})
	}

	tr.InvalidateAll()
	for _, device := range []string{"a", "b"} {
		if _, ok := tr.Current(device); ok {
			t.Fatalf("device %s snapshot survived InvalidateAll", device)
		}
	}
}
