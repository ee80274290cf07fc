package portalclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrSessionExpired is returned when the refresh token is rejected; the
// stored session is cleared and the caller must log in again.
var ErrSessionExpired = errors.New("portalclient: session expired, login required")

// AuthPayload is the wire shape of /api/auth responses.
type AuthPayload struct {
	Success      bool         `json:"success"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	User         *User        `json:"user,omitempty"`
	Roles        []Role       `json:"roles,omitempty"`
	Permissions  []Permission `json:"permissions,omitempty"`
	Message      string       `json:"message,omitempty"`
}

// Client talks to the portal API, attaching the stored access token to
// every request and retrying once after a transparent refresh when the
// server answers 401.
type Client struct {
	baseURL string
	store   *Store
	http    *http.Client
}

func New(baseURL string, store *Store) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
	}
	c.http = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &authTransport{
			base:   http.DefaultTransport,
			client: c,
		},
	}
	return c
}

// HTTPClient exposes the underlying client for callers that build their
// own requests against the portal.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Login authenticates and persists the resulting session.
func (c *Client) Login(username, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, err
	}

	// plain http.Client: no token attachment or retry during login
	resp, err := http.Post(c.baseURL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := decodeAuthPayload(resp)
	if err != nil {
		return nil, err
	}

	session := &Session{
		Token:        payload.Token,
		RefreshToken: payload.RefreshToken,
		User:         payload.User,
		Roles:        payload.Roles,
		Permissions:  payload.Permissions,
	}
	if err := c.store.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout drops the stored session. The server keeps no session state, so
// this is purely client side.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// refresh exchanges the stored refresh token for a new pair and persists
// it. Callers racing here each perform their own refresh.
func (c *Client) refresh(refreshToken string) (*Session, error) {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/auth/refresh", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+refreshToken)

	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("refresh request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := decodeAuthPayload(resp)
	if err != nil {
		return nil, err
	}

	session := &Session{
		Token:        payload.Token,
		RefreshToken: payload.RefreshToken,
		User:         payload.User,
		Roles:        payload.Roles,
		Permissions:  payload.Permissions,
	}
	if err := c.store.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

func decodeAuthPayload(resp *http.Response) (*AuthPayload, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read auth response: %w", err)
	}

	var payload AuthPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !payload.Success {
		if payload.Message != "" {
			return nil, fmt.Errorf("auth failed: %s", payload.Message)
		}
		return nil, fmt.Errorf("auth failed: status %d", resp.StatusCode)
	}
	return &payload, nil
}

// authTransport attaches the stored access token and retries exactly once
// after refreshing when the first attempt is rejected with 401.
type authTransport struct {
	base   http.RoundTripper
	client *Client
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	session, err := t.client.store.Load()
	if err != nil {
		return nil, err
	}

	attempt, err := cloneRequest(req)
	if err != nil {
		return nil, err
	}
	if session != nil && session.Token != "" {
		attempt.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := t.base.RoundTrip(attempt)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || session == nil || session.RefreshToken == "" {
		return resp, nil
	}

	resp.Body.Close()

	refreshed, err := t.client.refresh(session.RefreshToken)
	if err != nil {
		_ = t.client.store.Clear()
		return nil, ErrSessionExpired
	}

	retry, err := cloneRequest(req)
	if err != nil {
		return nil, err
	}
	retry.Header.Set("Authorization", "Bearer "+refreshed.Token)
	return t.base.RoundTrip(retry)
}

// cloneRequest copies a request with a replayable body so it can be sent
// a second time after refresh.
func cloneRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("buffer request body: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(data))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		}
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body
	return clone, nil
}
