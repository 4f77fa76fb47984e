// Package webhook implements profile.Store against the n8n webhook that
// fronts the Qdrant collections. Every call is a single POST carrying an
// action envelope; the shared secret travels in the X-Webhook-Secret header.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/celestio/astromcp/pkg/profile"
	"github.com/celestio/astromcp/pkg/utils"
)

const (
	// DefaultTimeout bounds each webhook call.
	DefaultTimeout = 30 * time.Second

	secretHeader  = "X-Webhook-Secret"
	sessionHeader = "Mcp-Session-Id"

	actionStoreProfile     = "store_profile"
	actionGetProfile       = "get_profile"
	actionSetActiveSession = "set_active_session"

	// maxBodySnippet limits how much upstream response text ends up in
	// error messages.
	maxBodySnippet = 300
)

// Config holds configuration for the webhook store.
type Config struct {
	// URL is the n8n webhook endpoint.
	URL string

	// Secret is the shared secret sent with every call. Optional.
	Secret string

	// Timeout bounds each call. Defaults to DefaultTimeout when zero.
	Timeout time.Duration
}

// Driver implements profile.Store over the n8n webhook.
type Driver struct {
	url        string
	secret     string
	httpClient *http.Client
}

// envelope is the request body for every webhook action.
type envelope struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

// getProfileResponse is the webhook's answer to a get_profile action.
type getProfileResponse struct {
	Profile *profile.Profile `json:"profile"`
}

// NewDriver creates a webhook-backed profile store.
func NewDriver(cfg Config) (*Driver, error) {
	if cfg.URL == "" {
		return nil, errors.New("webhook URL is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Driver{
		url:    cfg.URL,
		secret: cfg.Secret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Save posts the profile as a store_profile action. When the profile carries
// a session ID, the session mapping is updated afterwards; a failure there
// does not fail the save.
func (d *Driver) Save(ctx context.Context, p *profile.Profile) error {
	if p == nil {
		return errors.New("cannot store nil profile")
	}

	if _, err := d.call(ctx, actionStoreProfile, p, p.SessionID); err != nil {
		return err
	}

	if p.SessionID != "" {
		payload := map[string]string{"profile_id": p.ID}
		_, _ = d.call(ctx, actionSetActiveSession, payload, p.SessionID)
	}

	return nil
}

// Load retrieves a profile via the get_profile action.
func (d *Driver) Load(ctx context.Context, id string) (*profile.Profile, error) {
	payload := map[string]string{"profile_id": id}

	body, err := d.call(ctx, actionGetProfile, payload, "")
	if err != nil {
		return nil, err
	}

	var resp getProfileResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding get_profile response: %v", profile.ErrUpstream, err)
	}

	if resp.Profile == nil || resp.Profile.ID == "" {
		return nil, profile.NotFoundError{ID: id}
	}

	return resp.Profile, nil
}

// call posts one action envelope and returns the raw response body.
func (d *Driver) call(ctx context.Context, action string, payload any, sessionID string) ([]byte, error) {
	jsonBody, err := json.Marshal(envelope{Action: action, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling %s request: %v", profile.ErrUpstream, action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: creating %s request: %v", profile.ErrUpstream, action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.secret != "" {
		req.Header.Set(secretHeader, d.secret)
	}
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending %s request: %v", profile.ErrUpstream, action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", profile.ErrUpstream, action, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: webhook returned status %d: %s",
			profile.ErrUpstream, resp.StatusCode, utils.Truncate(string(body), maxBodySnippet))
	}

	return body, nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

var _ profile.Store = (*Driver)(nil)
