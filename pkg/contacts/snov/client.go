// Package snov provides a contacts.Provider implementation backed by the
// Snov.io API. Requests carry an OAuth2 bearer token obtained through the
// client-credentials grant.
package snov

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
	"time"

	"domainintel/pkg/contacts"
	"domainintel/pkg/domain"
	"domainintel/pkg/serrors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	baseURL  = "https://api.snov.io"
	tokenURL = baseURL + "/v1/oauth/access_token"

	// TokenRefreshMargin is how long before its reported expiry a token is
	// replaced.
	TokenRefreshMargin = 60 * time.Second

	// Snov reports no per-email confidence; verified emails get a fixed high one.
	verifiedConfidence   = 90
	unverifiedConfidence = 50
)

// Credentials identify a Snov.io API user.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// ResolveCredentials fills a missing half of the id/secret pair with the
// combined key, when one is given.
func ResolveCredentials(clientID, clientSecret, combinedKey string) Credentials {
	if clientID == "" {
		clientID = combinedKey
	}
	if clientSecret == "" {
		clientSecret = combinedKey
	}

	return Credentials{ClientID: clientID, ClientSecret: clientSecret}
}

// Client talks to the Snov.io REST API. It is safe for concurrent use; the
// token cache is shared by all calls of one Client.
type Client struct {
	httpClient  *http.Client
	credentials Credentials
	tokens      oauth2.TokenSource
}

// Source implements contacts.Provider.
func (c *Client) Source() domain.ContactSource { return domain.ContactSourceSnov }

// Configured implements contacts.Provider.
func (c *Client) Configured() bool {
	return c.credentials.ClientID != "" && c.credentials.ClientSecret != ""
}

// SearchDomain returns up to limit emails Snov knows for host.
func (c *Client) SearchDomain(ctx context.Context, host string, limit int) ([]domain.Contact, error) {
	if limit <= 0 {
		return nil, nil
	}

	var rs struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
		Emails  []struct {
			Email     string `json:"email"`
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			Position  string `json:"position"`
			Status    string `json:"status"`
		} `json:"emails"`
	}
	q := url.Values{}
	q.Set("domain", host)
	q.Set("type", "all")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("lastId", "0")
	if err := c.do(ctx, http.MethodGet, "/v2/domain-emails-with-info", q, &rs); err != nil {
		return nil, fmt.Errorf("could not search domain: %w", err)
	}
	if rs.Success != nil && !*rs.Success {
		return nil, serrors.With(serrors.ErrUpstream, "snov domain search reported failure: %s", rs.Message)
	}

	out := make([]domain.Contact, 0, len(rs.Emails))
	for _, e := range rs.Emails {
		if e.Email == "" {
			continue
		}
		confidence := unverifiedConfidence
		if e.Status == "verified" {
			confidence = verifiedConfidence
		}
		out = append(out, domain.Contact{
			Email:      e.Email,
			FirstName:  e.FirstName,
			LastName:   e.LastName,
			Position:   e.Position,
			Source:     domain.ContactSourceSnov,
			Confidence: confidence,
		})
		if len(out) == limit {
			break
		}
	}

	return out, nil
}

// verification is one entry of the verification status response, keyed by
// email address.
type verification struct {
	Result struct {
		SMTPStatus string `json:"smtpStatus"`
	} `json:"result"`
	Status struct {
		Identifier string `json:"identifier"`
	} `json:"status"`
}

// VerifyEmail queues email for Snov's SMTP check, then reads its status. A
// pending check or an "unknown" SMTP status yields no verdict.
func (c *Client) VerifyEmail(ctx context.Context, email string) (*contacts.Verification, error) {
	q := url.Values{}
	q.Add("emails[]", email)

	var queued map[string]json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/v1/add-emails-to-verification", q, &queued); err != nil {
		return nil, fmt.Errorf("could not queue email verification: %w", err)
	}

	var rs map[string]verification
	if err := c.do(ctx, http.MethodPost, "/v1/get-emails-verification-status", q, &rs); err != nil {
		return nil, fmt.Errorf("could not verify email: %w", err)
	}

	var entry *verification
	for k, v := range rs {
		if strings.EqualFold(k, email) {
			entry = &v

			break
		}
	}
	if entry == nil || entry.Status.Identifier != "complete" {
		return nil, nil
	}
	switch entry.Result.SMTPStatus {
	case "valid":
		return &contacts.Verification{Valid: true}, nil
	case "not_valid":
		return &contacts.Verification{Valid: false}, nil
	default:
		return nil, nil
	}
}

// Credits reports the account's remaining credit balance.
func (c *Client) Credits(ctx context.Context) (*contacts.Balance, error) {
	var rs struct {
		Success bool `json:"success"`
		Data    struct {
			Balance json.Number `json:"balance"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/get-balance", url.Values{}, &rs); err != nil {
		return nil, fmt.Errorf("could not get balance: %w", err)
	}
	if !rs.Success {
		return nil, serrors.With(serrors.ErrUpstream, "snov balance request reported failure")
	}
	balance, err := strconv.ParseFloat(rs.Data.Balance.String(), 64)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUpstream, err, "could not parse balance")
	}

	return &contacts.Balance{Remaining: int(balance)}, nil
}

// do performs an authenticated request. GET parameters travel in the query
// string, POST parameters as a form body.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, out any) error {
	if !c.Configured() {
		return serrors.With(serrors.ErrNotConfigured, "snov credentials are not configured")
	}

	tok, err := c.tokens.Token()
	if err != nil {
		return tokenError(err)
	}

	var (
		target = baseURL + path
		body   io.Reader
	)
	if method == http.MethodGet {
		target += "?" + params.Encode()
	} else {
		body = strings.NewReader(params.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	tok.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return serrors.Wrap(serrors.ErrTimeout, err, "could not send request")
		}

		return serrors.Wrap(serrors.ErrUnavailable, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}
	msg := strings.TrimSpace(string(b))
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return serrors.With(serrors.ErrUnauthorized, "snov rejected token: %s", msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		return serrors.With(serrors.ErrRateLimited, "snov rate limited: %s", msg)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return serrors.With(serrors.ErrUpstream, "snov request failed with status %d: %s", resp.StatusCode, msg)
	}

	if err := json.Unmarshal(b, out); err != nil {
		return serrors.Wrap(serrors.ErrUpstream, err, "could not decode response")
	}

	return nil
}

func tokenError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		switch re.Response.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return serrors.Wrap(serrors.ErrUnauthorized, err, "could not obtain access token")
		case http.StatusTooManyRequests:
			return serrors.Wrap(serrors.ErrRateLimited, err, "could not obtain access token")
		}

		return serrors.Wrap(serrors.ErrUpstream, err, "could not obtain access token")
	}

	return serrors.Wrap(serrors.ErrUnavailable, err, "could not obtain access token")
}

// Ensure Client conforms to the contacts.Provider interface at compile time.
var _ contacts.Provider = (*Client)(nil)

// New constructs a Client that uses the provided http.Client for both token
// exchange and API calls. Incomplete credentials yield an unconfigured
// provider.
func New(httpClient *http.Client, credentials Credentials) *Client {
	cfg := &clientcredentials.Config{
		ClientID:     credentials.ClientID,
		ClientSecret: credentials.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	return &Client{
		httpClient:  httpClient,
		credentials: credentials,
		tokens: oauth2.ReuseTokenSourceWithExpiry(nil, exchanger{
			ctx: context.WithValue(context.Background(), oauth2.HTTPClient, httpClient),
			cfg: cfg,
		}, TokenRefreshMargin),
	}
}

// exchanger performs a fresh client-credentials exchange on every call;
// caching is left to the ReuseTokenSource wrapping it.
type exchanger struct {
	ctx context.Context //nolint: containedctx
	cfg *clientcredentials.Config
}

func (e exchanger) Token() (*oauth2.Token, error) {
	return e.cfg.Token(e.ctx)
}
