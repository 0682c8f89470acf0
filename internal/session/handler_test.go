package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/plataforma-sst/accessgate/internal/authapi"
	"github.com/plataforma-sst/accessgate/internal/session"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

func TestLoginEndpoint(t *testing.T) {
	api := &stubAPI{loginResult: loginResult(t)}
	manager, _ := newManager(t, api)

	invalidated := []string{}
	handler := session.NewHandler(slogDiscard(), manager, nil, nil, func(deviceID string) {
		invalidated = append(invalidated, deviceID)
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@empresa.co","password":"pw"}`))
	req = req.WithContext(shared.ContextWithDeviceID(req.Context(), "device-1"))
	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `"email":"ana@empresa.co"`) {
		t.Fatalf("expected principal in response, got %s", res.Body.String())
	}
	if len(invalidated) != 1 || invalidated[0] != "device-1" {
		t.Fatalf("login must invalidate the device snapshot, got %v", invalidated)
	}
}

func TestLoginEndpointValidation(t *testing.T) {
	manager, _ := newManager(t, &stubAPI{})
	handler := session.NewHandler(slogDiscard(), manager, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email","password":""}`))
	req = req.WithContext(shared.ContextWithDeviceID(req.Context(), "device-1"))
	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestLoginEndpointRejectedCredentials(t *testing.T) {
	api := &stubAPI{loginErr: shared.ErrAuthenticationFailed}
	manager, _ := newManager(t, api)
	handler := session.NewHandler(slogDiscard(), manager, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@empresa.co","password":"wrong"}`))
	req = req.WithContext(shared.ContextWithDeviceID(req.Context(), "device-1"))
	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestMeEndpoint(t *testing.T) {
	manager, _ := newManager(t, &stubAPI{})
	handler := session.NewHandler(slogDiscard(), manager, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	res := httptest.NewRecorder()
	handler.HandleMeForTest(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", res.Code)
	}

	p := &shared.Principal{ID: 7, Email: "ana@empresa.co", Role: shared.RoleAdmin}
	req = req.WithContext(shared.ContextWithPrincipal(context.Background(), p))
	res = httptest.NewRecorder()
	handler.HandleMeForTest(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestUpdateMeEndpoint(t *testing.T) {
	api := &stubAPI{loginResult: loginResult(t)}
	manager, _ := newManager(t, api)
	if _, err := manager.Login(context.Background(), "device-1", "ana@empresa.co", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	invalidated := []string{}
	handler := session.NewHandler(slogDiscard(), manager, nil, nil, func(deviceID string) {
		invalidated = append(invalidated, deviceID)
	})

	req := httptest.NewRequest(http.MethodPut, "/auth/me", strings.NewReader(`{"first_name":"Laura","last_name":"Mora","phone":"3001234567"}`))
	req = req.WithContext(shared.ContextWithDeviceID(req.Context(), "device-1"))
	res := httptest.NewRecorder()
	handler.HandleUpdateMeForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `"first_name":"Laura"`) {
		t.Fatalf("expected updated profile in response, got %s", res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `"email":"ana@empresa.co"`) {
		t.Fatalf("identity fields must survive the update, got %s", res.Body.String())
	}
	if len(invalidated) != 1 || invalidated[0] != "device-1" {
		t.Fatalf("profile update must invalidate the device snapshot, got %v", invalidated)
	}

	loaded, err := manager.Initialize(context.Background(), "device-1")
	if err != nil || loaded == nil {
		t.Fatalf("initialize after update: %v %v", loaded, err)
	}
	if loaded.Principal.FirstName != "Laura" {
		t.Fatalf("persisted profile must carry the edit: %+v", loaded.Principal)
	}
}

func TestUpdateMeEndpointWithoutSession(t *testing.T) {
	manager, _ := newManager(t, &stubAPI{})
	handler := session.NewHandler(slogDiscard(), manager, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/auth/me", strings.NewReader(`{"first_name":"Laura","last_name":"Mora"}`))
	req = req.WithContext(shared.ContextWithDeviceID(req.Context(), "device-2"))
	res := httptest.NewRecorder()
	handler.HandleUpdateMeForTest(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without an active session, got %d", res.Code)
	}
}

func loginResult(t *testing.T) authapi.LoginResult {
	t.Helper()
	return authapi.LoginResult{
		Token:   testToken(t, time.Now().Add(time.Hour)),
		Profile: authapi.Profile{ID: 7, Email: "ana@empresa.co", FirstName: "Ana", LastName: "Mora", Role: "admin"},
	}
}
