// Package authapi wraps the upstream Authentication/Authorization Service REST API.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/plataforma-sst/accessgate/internal/shared"
)

// Profile is the upstream representation of a user profile.
type Profile struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           string `json:"role"`
	CustomRoleID   *int64 `json:"custom_role_id"`
	ProfilePicture string `json:"profile_picture"`
	Phone          string `json:"phone"`
}

// Principal converts the upstream profile into the internal principal shape.
func (p Profile) Principal() *shared.Principal {
	return &shared.Principal{
		ID:             p.ID,
		Email:          p.Email,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Role:           shared.NormalizeRole(p.Role),
		CustomRoleID:   p.CustomRoleID,
		ProfilePicture: p.ProfilePicture,
		Phone:          p.Phone,
	}
}

// PageGrant is an explicit per-route allow record declared for a custom role.
type PageGrant struct {
	ID        int64  `json:"id"`
	RoleID    int64  `json:"role_id"`
	PageRoute string `json:"page_route"`
	PageName  string `json:"page_name"`
	CanAccess bool   `json:"can_access"`
}

// LoginResult bundles the bearer token and profile returned on login.
type LoginResult struct {
	Token   string
	Profile Profile
}

// Client wraps interactions with the upstream service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// loginResponse tolerates the two field spellings the upstream has shipped.
type loginResponse struct {
	Token       string   `json:"token"`
	AccessToken string   `json:"access_token"`
	User        *Profile `json:"user"`
	Profile     *Profile `json:"profile"`
	Detail      string   `json:"detail"`
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return LoginResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/auth/login", c.baseURL), bytes.NewReader(payload))
	if err != nil {
		return LoginResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return LoginResult{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var body loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && resp.StatusCode < 400 {
		return LoginResult{}, err
	}
	if resp.StatusCode >= 400 {
		detail := body.Detail
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		return LoginResult{}, fmt.Errorf("%w: %s", shared.ErrAuthenticationFailed, detail)
	}

	result := LoginResult{Token: body.Token}
	if result.Token == "" {
		result.Token = body.AccessToken
	}
	switch {
	case body.User != nil:
		result.Profile = *body.User
	case body.Profile != nil:
		result.Profile = *body.Profile
	default:
		return LoginResult{}, fmt.Errorf("%w: upstream returned no profile", shared.ErrAuthenticationFailed)
	}
	return result, nil
}

// Logout invalidates the upstream session. Callers treat failure as best-effort.
func (c *Client) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/auth/logout", c.baseURL), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("authapi: logout returned status %d", resp.StatusCode)
	}
	return nil
}

// Me re-fetches the profile for the given token.
func (c *Client) Me(ctx context.Context, token string) (Profile, error) {
	var profile Profile
	if err := c.getJSON(ctx, token, "/auth/me", &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// MyPages lists the page grants declared for the caller's custom role.
func (c *Client) MyPages(ctx context.Context, token string) ([]PageGrant, error) {
	var grants []PageGrant
	if err := c.getJSON(ctx, token, "/permissions/my-pages", &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

type permissionCheckResponse struct {
	HasPermission bool   `json:"has_permission"`
	Reason        string `json:"reason"`
}

// CheckPermission asks the upstream whether the caller holds one resource+action pair.
func (c *Client) CheckPermission(ctx context.Context, token, resourceType, action string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"resource_type": resourceType, "action": action})
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/permissions/check", c.baseURL), bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("authapi: permission check returned status %d", resp.StatusCode)
	}
	var body permissionCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	return body.HasPermission, nil
}

func (c *Client) getJSON(ctx context.Context, token, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("authapi: %s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
