package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/plataforma-sst/accessgate/internal/authapi"
	"github.com/plataforma-sst/accessgate/internal/session"
	"github.com/plataforma-sst/accessgate/internal/shared"
	_ "github.com/plataforma-sst/accessgate/testing"
)

type stubAPI struct {
	loginResult authapi.LoginResult
	loginErr    error
	meProfile   authapi.Profile
	meErr       error
	meCalls     int
	logoutErr   error
	logoutCalls int
}

func (s *stubAPI) Login(ctx context.Context, email, password string) (authapi.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAPI) Logout(ctx context.Context, token string) error {
	s.logoutCalls++
	return s.logoutErr
}

func (s *stubAPI) Me(ctx context.Context, token string) (authapi.Profile, error) {
	s.meCalls++
	return s.meProfile, s.meErr
}

func testToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("upstream-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newManager(t *testing.T, api *stubAPI) (*session.Manager, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sealer, err := session.NewSealer("test-secret")
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	return session.NewManager(rdb, api, sealer, time.Hour, slogDiscard()), rdb
}

func TestLoginPersistsSession(t *testing.T) {
	api := &stubAPI{loginResult: authapi.LoginResult{
		Token: testToken(t, time.Now().Add(time.Hour)),
		Profile: authapi.Profile{
			ID: 7, Email: "ana@empresa.co", FirstName: "Ana", LastName: "Mora", Role: "UserRole.supervisor",
		},
	}}
	manager, _ := newManager(t, api)
	ctx := context.Background()

	sess, err := manager.Login(ctx, "device-1", "ana@empresa.co", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Principal.Role != shared.RoleSupervisor {
		t.Fatalf("expected normalized role supervisor, got %q", sess.Principal.Role)
	}

	loaded, err := manager.Initialize(ctx, "device-1")
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if loaded == nil {
		t.Fatalf("expected hydrated session")
	}
	if loaded.Principal.ID != 7 || loaded.Token != api.loginResult.Token {
		t.Fatalf("unexpected hydrated state: %+v", loaded)
	}
}

func TestLoginRejectedLeavesStateUntouched(t *testing.T) {
	api := &stubAPI{loginResult: authapi.LoginResult{
		Token:   testToken(t, time.Now().Add(time.Hour)),
		Profile: authapi.Profile{ID: 7, Email: "ana@empresa.co", Role: "admin"},
	}}
	manager, _ := newManager(t, api)
	ctx := context.Background()

	if _, err := manager.Login(ctx, "device-1", "ana@empresa.co", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	api.loginErr = shared.ErrAuthenticationFailed
	if _, err := manager.Login(ctx, "device-1", "ana@empresa.co", "wrong"); !errors.Is(err, shared.ErrAuthenticationFailed) {
		t.Fatalf("expected authentication failure, got %v", err)
	}

	loaded, err := manager.Initialize(ctx, "device-1")
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if loaded == nil || loaded.Principal.ID != 7 {
		t.Fatalf("rejected login must not destroy the existing session")
	}
}

func TestUpdateProfileReplacesPersistedSnapshot(t *testing.T) {
	api := &stubAPI{loginResult: authapi.LoginResult{
		Token:   testToken(t, time.Now().Add(time.Hour)),
		Profile: authapi.Profile{ID: 7, Email: "ana@empresa.co", FirstName: "Ana", LastName: "Mora", Role: "supervisor"},
	}}
	manager, _ := newManager(t, api)
	ctx := context.Background()

	sess, err := manager.Login(ctx, "device-1", "ana@empresa.co", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	updated := *sess.Principal
	updated.FirstName = "Laura"
	updated.Phone = "3001234567"
	if err := manager.UpdateProfile(ctx, "device-1", &updated); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if api.meCalls != 0 {
		t.Fatalf("local profile replace must not call the upstream, got %d calls", api.meCalls)
	}

	loaded, err := manager.Initialize(ctx, "device-1")
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if loaded == nil {
		t.Fatalf("expected hydrated session after profile update")
	}
	if loaded.Principal.FirstName != "Laura" || loaded.Principal.Phone != "3001234567" {
		t.Fatalf("updated profile must be durable: %+v", loaded.Principal)
	}
	if loaded.Token != api.loginResult.Token {
		t.Fatalf("profile update must not touch the stored credential")
	}
}

func TestInitializeUnknownDevice(t *testing.T) {
	manager, _ := newManager(t, &stubAPI{})
	sess, err := manager.Initialize(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session for unknown device")
	}
}

func TestInitializeCorruptTokenPurges(t *testing.T) {
	manager, rdb := newManager(t, &stubAPI{})
	ctx := context.Background()

	rdb.Set(ctx, "session:token:device-1", "garbage", time.Hour)
	rdb.Set(ctx, "session:profile:device-1", `{"id":7,"email":"ana@empresa.co","role":"admin"}`, time.Hour)

	sess, err := manager.Initialize(ctx, "device-1")
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if sess != nil {
		t.Fatalf("corrupt credential must yield no session")
	}
	if rdb.Exists(ctx, "session:profile:device-1").Val() != 0 {
		t.Fatalf("corrupt credential must purge all session keys")
	}
}

func TestInitializeExpiredTokenPurges(t *testing.T) {
	api := &stubAPI{loginResult: authapi.LoginResult{
		Token:   testToken(t, time.Now().Add(-time.Hour)),
		Profile: authapi.Profile{ID: 7, Email: "ana@empresa.co", Role: "admin"},
	}}
	manager, rdb := newManager(t, api)
	ctx := context.Background()

	if _, err := manager.Login(ctx, "device-1", "ana@empresa.co", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	sess, err := manager.Initialize(ctx, "device-1")
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if sess != nil {
		t.Fatalf("expired credential must yield no session")
	}
	if rdb.Exists(ctx, "session:token:device-1").Val() != 0 {
		t.Fatalf("expired credential must purge the session")
	}
}

func TestInitializeIncompleteProfilePurges(t *testing.T) {
	manager, rdb := newManager(t, &stubAPI{})
	ctx := context.Background()

	sealer, _ := session.NewSealer("test-secret")
	sealed, _ := sealer.Seal(testToken(t, time.Now().Add(time.Hour)))
	rdb.Set(ctx, "session:token:device-1", sealed, time.Hour)
	rdb.Set(ctx, "session:profile:device-1", `{"id":7,"role":"admin"}`, time.Hour)

	sess, err := manager.Initialize(ctx, "device-1")
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if sess != nil {
		t.Fatalf("profile without email must yield no session")
	}
	if rdb.Exists(ctx, "session:token:device-1").Val() != 0 {
		t.Fatalf("incomplete profile must purge the session")
	}
}

func TestRefreshProfileFailurePurges(t *testing.T) {
	api := &stubAPI{
		loginResult: authapi.LoginResult{
			Token:   testToken(t, time.Now().Add(time.Hour)),
			Profile: authapi.Profile{ID: 7, Email: "ana@empresa.co", Role: "admin"},
		},
		meErr: errors.New("upstream 401"),
	}
	manager, rdb := newManager(t, api)
	ctx := context.Background()

	sess, err := manager.Login(ctx, "device-1", "ana@empresa.co", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := manager.RefreshProfile(ctx, sess); !errors.Is(err, shared.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
	if rdb.Exists(ctx, "session:token:device-1").Val() != 0 {
		t.Fatalf("failed refresh must purge the session")
	}
}

func TestLogoutPurgesDespiteUpstreamError(t *testing.T) {
	api := &stubAPI{
		loginResult: authapi.LoginResult{
			Token:   testToken(t, time.Now().Add(time.Hour)),
			Profile: authapi.Profile{ID: 7, Email: "ana@empresa.co", Role: "admin"},
		},
		logoutErr: errors.New("upstream down"),
	}
	manager, rdb := newManager(t, api)
	ctx := context.Background()

	sess, err := manager.Login(ctx, "device-1", "ana@empresa.co", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := manager.Logout(ctx, sess); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if api.logoutCalls != 1 {
		t.Fatalf("expected upstream logout attempt")
	}
	if rdb.Exists(ctx, "session:token:device-1").Val() != 0 {
		t.Fatalf("logout must purge local state even when upstream fails")
	}
}
