package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SidebarPrefs is the per-device expand/collapse state of the navigation menu.
// It is ephemeral UI state, kept separate from the filtered menu itself so a
// permissions refresh never discards the user's choices.
type SidebarPrefs struct {
	ExpandedItems []string `json:"expanded_items"`
	Collapsed     bool     `json:"collapsed"`
}

// PrefStore persists sidebar preferences in Redis per device.
type PrefStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPrefStore constructs a PrefStore.
func NewPrefStore(rdb *redis.Client, ttl time.Duration) *PrefStore {
	return &PrefStore{rdb: rdb, ttl: ttl}
}

func prefsKey(deviceID string) string { return "prefs:sidebar:" + deviceID }

// Get loads the preferences for a device. Missing or corrupt state yields the
// zero value, never an error visible to the caller's UI.
func (s *PrefStore) Get(ctx context.Context, deviceID string) (SidebarPrefs, error) {
	raw, err := s.rdb.Get(ctx, prefsKey(deviceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return SidebarPrefs{}, nil
	}
	if err != nil {
		return SidebarPrefs{}, fmt.Errorf("session: load prefs: %w", err)
	}
	var prefs SidebarPrefs
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return SidebarPrefs{}, nil
	}
	return prefs, nil
}

// Put stores the preferences for a device.
func (s *PrefStore) Put(ctx context.Context, deviceID string, prefs SidebarPrefs) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, prefsKey(deviceID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: store prefs: %w", err)
	}
	return nil
}
