// Package session holds the authenticated principal per device and mediates
// login, logout and profile refresh against the upstream authentication service.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plataforma-sst/accessgate/internal/authapi"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

// AuthAPI is the slice of the upstream client the manager needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (authapi.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (authapi.Profile, error)
}

// Session is the hydrated state for one device.
type Session struct {
	DeviceID  string
	Principal *shared.Principal
	Token     string
}

// Manager persists sessions in Redis under fixed per-device keys.
type Manager struct {
	rdb    *redis.Client
	api    AuthAPI
	sealer *Sealer
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewManager constructs a Manager.
func NewManager(rdb *redis.Client, api AuthAPI, sealer *Sealer, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		rdb:    rdb,
		api:    api,
		sealer: sealer,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func tokenKey(deviceID string) string   { return "session:token:" + deviceID }
func profileKey(deviceID string) string { return "session:profile:" + deviceID }

// Initialize hydrates the session for a device from the durable store without
// calling the upstream. Missing, corrupt or incomplete state purges the
// session and yields nil.
func (m *Manager) Initialize(ctx context.Context, deviceID string) (*Session, error) {
	sealed, err := m.rdb.Get(ctx, tokenKey(deviceID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: load token: %w", err)
	}
	raw, err := m.rdb.Get(ctx, profileKey(deviceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, m.Purge(ctx, deviceID)
	}
	if err != nil {
		return nil, fmt.Errorf("session: load profile: %w", err)
	}

	token, err := m.sealer.Open(sealed)
	if err != nil {
		m.logger.Warn("purging session with corrupt credential", slog.String("device", deviceID))
		return nil, m.Purge(ctx, deviceID)
	}
	if tokenExpired(token, m.now()) {
		m.logger.Info("purging session with expired credential", slog.String("device", deviceID))
		return nil, m.Purge(ctx, deviceID)
	}

	var p shared.Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		m.logger.Warn("purging session with corrupt profile", slog.String("device", deviceID))
		return nil, m.Purge(ctx, deviceID)
	}
	if p.ID == 0 || p.Email == "" {
		m.logger.Warn("purging session with incomplete profile", slog.String("device", deviceID))
		return nil, m.Purge(ctx, deviceID)
	}
	p.Role = shared.NormalizeRole(string(p.Role))

	return &Session{DeviceID: deviceID, Principal: &p, Token: token}, nil
}

// Login authenticates against the upstream and persists the new session. On
// rejection the stored state is left untouched.
func (m *Manager) Login(ctx context.Context, deviceID, email, password string) (*Session, error) {
	result, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	principal := result.Profile.Principal()
	if err := m.persist(ctx, deviceID, result.Token, principal); err != nil {
		return nil, err
	}
	return &Session{DeviceID: deviceID, Principal: principal, Token: result.Token}, nil
}

// Logout invalidates the upstream session best-effort and always purges local state.
func (m *Manager) Logout(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	if sess.Token != "" {
		if err := m.api.Logout(ctx, sess.Token); err != nil {
			m.logger.Warn("upstream logout failed", slog.Any("error", err))
		}
	}
	return m.Purge(ctx, sess.DeviceID)
}

// UpdateProfile replaces the persisted profile without a network round trip.
func (m *Manager) UpdateProfile(ctx context.Context, deviceID string, p *shared.Principal) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := m.rdb.Set(ctx, profileKey(deviceID), raw, m.ttl).Err(); err != nil {
		return fmt.Errorf("session: store profile: %w", err)
	}
	return nil
}

// RefreshProfile re-fetches the profile with the stored token. Any failure
// purges the session: an identity that cannot be reconfirmed must not retain
// stale access.
func (m *Manager) RefreshProfile(ctx context.Context, sess *Session) (*Session, error) {
	if sess == nil || sess.Token == "" {
		return nil, shared.ErrSessionInvalid
	}
	profile, err := m.api.Me(ctx, sess.Token)
	if err != nil {
		m.logger.Warn("profile refresh failed, purging session",
			slog.String("device", sess.DeviceID), slog.Any("error", err))
		if purgeErr := m.Purge(ctx, sess.DeviceID); purgeErr != nil {
			return nil, purgeErr
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionInvalid, err)
	}
	principal := profile.Principal()
	if err := m.persist(ctx, sess.DeviceID, sess.Token, principal); err != nil {
		return nil, err
	}
	return &Session{DeviceID: sess.DeviceID, Principal: principal, Token: sess.Token}, nil
}

// Purge removes all persisted state for a device.
func (m *Manager) Purge(ctx context.Context, deviceID string) error {
	if err := m.rdb.Del(ctx, tokenKey(deviceID), profileKey(deviceID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("session: purge: %w", err)
	}
	return nil
}

// TTL exposes the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) persist(ctx context.Context, deviceID, token string, p *shared.Principal) error {
	sealed, err := m.sealer.Seal(token)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := m.rdb.Set(ctx, tokenKey(deviceID), sealed, m.ttl).Err(); err != nil {
		return fmt.Errorf("session: store token: %w", err)
	}
	if err := m.rdb.Set(ctx, profileKey(deviceID), raw, m.ttl).Err(); err != nil {
		return fmt.Errorf("session: store profile: %w", err)
	}
	return nil
}
