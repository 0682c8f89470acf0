package authz

import "sync"

// Tracker caches the latest snapshot per device and enforces last-resolve-wins:
// a resolve that was superseded while in flight is discarded, never merged.
type Tracker struct {
	mu    sync.Mutex
	gens  map[string]uint64
	snaps map[string]Snapshot
}

// NewTracker constructs a Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		gens:  make(map[string]uint64),
		snaps: make(map[string]Snapshot),
	}
}

// Begin marks the start of a resolve for a device and returns its generation.
func (t *Tracker) Begin(deviceID string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gens[deviceID]++
	return t.gens[deviceID]
}

// Complete stores the snapshot if gen is still the latest generation begun for
// the device. It reports whether the snapshot was kept.
func (t *Tracker) Complete(deviceID string, gen uint64, snap Snapshot) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gens[deviceID] != gen {
		return false
	}
	t.snaps[deviceID] = snap
	return true
}

// Current returns the cached snapshot for a device.
func (t *Tracker) Current(deviceID string) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap, ok := t.snaps[deviceID]
	return snap, ok
}

// Invalidate discards the snapshot for one device and supersedes any resolve
// still in flight for it.
func (t *Tracker) Invalidate(deviceID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gens[deviceID]++
	delete(t.snaps, deviceID)
}

// InvalidateAll discards every cached snapshot, forcing recomputation on next
// use. Fired by the refresh signal after role definitions change.
func (t *Tracker) InvalidateAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for device := range t.snaps {
		delete(t.snaps, device)
	}
	for device := range t.gens {
		t.gens[device]++
	}
}
