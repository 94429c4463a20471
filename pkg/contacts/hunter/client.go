// Package hunter provides a contacts.Provider implementation backed by the
// Hunter.io v2 API. Requests authenticate with an API key in the query string.
package hunter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"domainintel/pkg/contacts"
	"domainintel/pkg/domain"
	"domainintel/pkg/serrors"
)

const (
	baseURL = "https://api.hunter.io/v2"
	// maxLimit is the largest page Hunter serves for a domain search.
	maxLimit = 100
)

// Client talks to the Hunter.io REST API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to Hunter
	apiKey     string       // apiKey is sent as the api_key query parameter
}

// Source implements contacts.Provider.
func (c *Client) Source() domain.ContactSource { return domain.ContactSourceHunter }

// Configured implements contacts.Provider.
func (c *Client) Configured() bool { return c.apiKey != "" }

// SearchDomain returns up to limit emails Hunter knows for host, with the
// confidence Hunter reports for each.
func (c *Client) SearchDomain(ctx context.Context, host string, limit int) ([]domain.Contact, error) {
	if limit <= 0 {
		return nil, nil
	}
	limit = min(limit, maxLimit)

	// https://hunter.io/api-documentation/v2#domain-search
	var rs struct {
		Data struct {
			Emails []struct {
				Value       string `json:"value"`
				Confidence  int    `json:"confidence"`
				FirstName   string `json:"first_name"`
				LastName    string `json:"last_name"`
				Position    string `json:"position"`
				LinkedIn    string `json:"linkedin"`
				Twitter     string `json:"twitter"`
				PhoneNumber string `json:"phone_number"`
			} `json:"emails"`
		} `json:"data"`
	}
	q := url.Values{}
	q.Set("domain", host)
	q.Set("limit", strconv.Itoa(limit))
	if _, err := c.get(ctx, "/domain-search", q, &rs); err != nil {
		return nil, fmt.Errorf("could not search domain: %w", err)
	}

	out := make([]domain.Contact, 0, len(rs.Data.Emails))
	for _, e := range rs.Data.Emails {
		if e.Value == "" {
			continue
		}
		out = append(out, domain.Contact{
			Email:      e.Value,
			FirstName:  e.FirstName,
			LastName:   e.LastName,
			Position:   e.Position,
			Phone:      e.PhoneNumber,
			LinkedIn:   e.LinkedIn,
			Twitter:    e.Twitter,
			Source:     domain.ContactSourceHunter,
			Confidence: max(0, min(100, e.Confidence)),
		})
		if len(out) == limit {
			break
		}
	}

	return out, nil
}

// VerifyEmail asks Hunter's verifier for a verdict. An "unknown" status, or a
// verification still running upstream, yields no verdict.
func (c *Client) VerifyEmail(ctx context.Context, email string) (*contacts.Verification, error) {
	// https://hunter.io/api-documentation/v2#email-verifier
	var rs struct {
		Data struct {
			Status string `json:"status"`
			Result string `json:"result"`
			Score  *int   `json:"score"`
		} `json:"data"`
	}
	q := url.Values{}
	q.Set("email", email)
	status, err := c.get(ctx, "/email-verifier", q, &rs)
	if err != nil {
		return nil, fmt.Errorf("could not verify email: %w", err)
	}
	if status == http.StatusAccepted || rs.Data.Status == "" || rs.Data.Status == "unknown" {
		return nil, nil
	}

	return &contacts.Verification{
		Valid: rs.Data.Status == "valid" || rs.Data.Result == "deliverable",
		Score: rs.Data.Score,
	}, nil
}

// Credits reports the remaining domain-search requests of the account.
func (c *Client) Credits(ctx context.Context) (*contacts.Balance, error) {
	// https://hunter.io/api-documentation/v2#account
	var rs struct {
		Data struct {
			Requests struct {
				Searches struct {
					Used      int `json:"used"`
					Available int `json:"available"`
				} `json:"searches"`
			} `json:"requests"`
		} `json:"data"`
	}
	if _, err := c.get(ctx, "/account", url.Values{}, &rs); err != nil {
		return nil, fmt.Errorf("could not get account: %w", err)
	}
	s := rs.Data.Requests.Searches

	return &contacts.Balance{Remaining: max(0, s.Available-s.Used), Used: s.Used, Limit: s.Available}, nil
}

// get performs an authenticated GET and decodes a successful body into out.
// It returns the HTTP status of successful responses.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) (int, error) {
	if !c.Configured() {
		return 0, serrors.With(serrors.ErrNotConfigured, "hunter api key is not configured")
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		msg := strings.ReplaceAll(err.Error(), c.apiKey, "REDACTED")
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, serrors.With(serrors.ErrTimeout, "could not send request: %s", msg)
		}

		return 0, serrors.With(serrors.ErrUnavailable, "could not send request: %s", msg)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, statusError(resp.StatusCode, b)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return 0, serrors.Wrap(serrors.ErrUpstream, err, "could not decode response")
	}

	return resp.StatusCode, nil
}

// statusError maps a non-2xx response to a semantic error, using the details
// of Hunter's error envelope when present.
func statusError(status int, body []byte) error {
	var envelope struct {
		Errors []struct {
			ID      string `json:"id"`
			Details string `json:"details"`
		} `json:"errors"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		msg = envelope.Errors[0].ID + ": " + envelope.Errors[0].Details
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return serrors.With(serrors.ErrUnauthorized, "hunter rejected credentials: %s", msg)
	case http.StatusTooManyRequests:
		return serrors.With(serrors.ErrRateLimited, "hunter rate limited: %s", msg)
	default:
		return serrors.With(serrors.ErrUpstream, "hunter request failed with status %d: %s", status, msg)
	}
}

// Ensure Client conforms to the contacts.Provider interface at compile time.
var _ contacts.Provider = (*Client)(nil)

// New constructs a Client that uses the provided http.Client and API key. An
// empty key yields an unconfigured provider.
func New(httpClient *http.Client, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
	}
}
