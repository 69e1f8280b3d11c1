// Package api is the HTTP client for the hosted Inviter REST service.
// Every authenticated request carries the bearer token; the public
// /respond endpoints never do, even when a token is installed.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"inviter/internal/models"
)

// Client talks to the Inviter API at a single base URL.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	log     zerolog.Logger
}

// New creates a client. The timeout bounds every request end to end;
// there is no per-call cancellation beyond the caller's context.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "api").Logger(),
	}
}

// SetToken installs the bearer token for authenticated requests.
func (c *Client) SetToken(token string) { c.token = token }

// ClearToken removes the bearer token.
func (c *Client) ClearToken() { c.token = "" }

// ResponseURL is the shareable public address for a response link.
func (c *Client) ResponseURL(linkID string) string {
	return fmt.Sprintf("%s/respond/%s", c.baseURL, url.PathEscape(linkID))
}

// Login exchanges credentials for a bearer token and the account.
func (c *Client) Login(ctx context.Context, email, password string) (models.Credentials, error) {
	var creds models.Credentials
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &creds, false); err != nil {
		return models.Credentials{}, err
	}
	return creds, nil
}

// Signup creates an account. The server returns the user fields and
// token flattened into one object.
func (c *Client) Signup(ctx context.Context, name, email, password string) (models.Credentials, error) {
	var out struct {
		models.User
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", body, &out, false); err != nil {
		return models.Credentials{}, err
	}
	return models.Credentials{AccessToken: out.AccessToken, User: out.User}, nil
}

// Me fetches the profile for the installed token. Used on startup to
// verify a restored session; ErrUnauthorized means the token is dead.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user, true); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Invitations lists the user's invitations with their counters.
func (c *Client) Invitations(ctx context.Context) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := c.do(ctx, http.MethodGet, "/invitations", nil, &invitations, true); err != nil {
		return nil, err
	}
	return invitations, nil
}

// CreateInvitation submits a finished draft. The service issues the
// per-recipient response links and delivers the SMS messages.
func (c *Client) CreateInvitation(ctx context.Context, payload models.CreateInvitation) (models.Invitation, error) {
	var created models.Invitation
	if err := c.do(ctx, http.MethodPost, "/invitations", payload, &created, true); err != nil {
		return models.Invitation{}, err
	}
	return created, nil
}

// Invitation fetches the detail view: counters, per-recipient
// responses and attached messages.
func (c *Client) Invitation(ctx context.Context, id int) (models.InvitationDetail, error) {
	var detail models.InvitationDetail
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/invitations/%d", id), nil, &detail, true); err != nil {
		return models.InvitationDetail{}, err
	}
	return detail, nil
}

// Dashboard fetches the aggregate analytics view.
func (c *Client) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/analytics/dashboard", nil, &stats, true); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}

// ResponsePage fetches the public response page for a link. Always
// unauthenticated.
func (c *Client) ResponsePage(ctx context.Context, linkID string) (models.ResponsePage, error) {
	var page models.ResponsePage
	if err := c.do(ctx, http.MethodGet, "/respond/"+url.PathEscape(linkID), nil, &page, false); err != nil {
		return models.ResponsePage{}, err
	}
	return page, nil
}

// SubmitResponse records a recipient's answer. An empty message is
// sent as null. A duplicate submission comes back as *ConflictError
// carrying the previously recorded answer.
func (c *Client) SubmitResponse(ctx context.Context, linkID string, answer models.Answer, message string) error {
	body := map[string]any{"answer": answer, "message": nil}
	if strings.TrimSpace(message) != "" {
		body["message"] = message
	}
	return c.do(ctx, http.MethodPost, "/respond/"+url.PathEscape(linkID), body, nil, false)
}

// do issues one request and decodes a 2xx JSON body into out when out
// is non-nil. authenticated controls the Authorization header.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authenticated bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if authenticated && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(method, path, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorBody is the shape of the service's failure payloads. The 409
// duplicate-response conflict additionally carries status and
// previous_answer.
type errorBody struct {
	Detail         string        `json:"detail"`
	Status         string        `json:"status"`
	PreviousAnswer models.Answer `json:"previous_answer"`
}

// statusError maps a non-2xx response onto the client's error
// taxonomy. Bodies that are not JSON fall through to a generic
// APIError with no detail.
func (c *Client) statusError(method, path string, resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(raw, &body)

	c.log.Warn().
		Int("status", resp.StatusCode).
		Str("method", method).
		Str("path", path).
		Msg("request failed")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode == http.StatusConflict && body.Status == "already_responded":
		return &ConflictError{PreviousAnswer: body.PreviousAnswer}
	case resp.StatusCode == http.StatusGone,
		strings.Contains(strings.ToLower(body.Detail), "expired"):
		return fmt.Errorf("%s %s: %w", method, path, ErrExpired)
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: body.Detail}
}
