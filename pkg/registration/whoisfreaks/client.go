// Package whoisfreaks provides a registration.Lookup implementation backed by
// the WhoisFreaks live WHOIS API.
package whoisfreaks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"domainintel/pkg/domain"
	"domainintel/pkg/registration"
	"domainintel/pkg/serrors"
)

const baseURL = "https://api.whoisfreaks.com/v1.0/whois"

// dateLayouts are tried in order when parsing registry dates.
var dateLayouts = []string{ //nolint: gochecknoglobals
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006-01-02",
	"02-Jan-2006",
}

// Client talks to the WhoisFreaks REST API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to WhoisFreaks
	apiKey     string       // apiKey is sent as a query parameter
}

// response is the subset of the live WHOIS payload we normalize.
type response struct {
	Status     *bool  `json:"status"`
	Message    string `json:"message"`
	CreateDate string `json:"create_date"`
	ExpiryDate string `json:"expiry_date"`
	Registrar  *struct {
		Name string `json:"registrar_name"`
	} `json:"domain_registrar"`
	Registrant *struct {
		Name        string `json:"name"`
		Company     string `json:"company"`
		Email       string `json:"email_address"`
		CountryName string `json:"country_name"`
		CountryCode string `json:"country_code"`
	} `json:"registrant_contact"`
	NameServers []string `json:"name_servers"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Lookup fetches live WHOIS data for host. The payload carries its own status
// flag which is checked in addition to the HTTP status.
func (c *Client) Lookup(ctx context.Context, host string) (*domain.Registration, error) {
	if c.apiKey == "" {
		return nil, serrors.With(serrors.ErrNotConfigured, "whoisfreaks api key is not configured")
	}

	// https://whoisfreaks.com/documentation/api/whois-lookup.html
	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("whois", "live")
	q.Set("domainName", host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, err, c.apiKey)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, serrors.With(serrors.ErrUnauthorized, "whois lookup unauthorized: %s", strings.TrimSpace(string(b)))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, serrors.With(serrors.ErrRateLimited, "whois lookup rate limited: %s", strings.TrimSpace(string(b)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, serrors.With(serrors.ErrUpstream, "whois lookup failed with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var rs response
	if err := json.Unmarshal(b, &rs); err != nil {
		return nil, serrors.Wrap(serrors.ErrUpstream, err, "could not decode response")
	}
	if rs.Status == nil || !*rs.Status {
		msg := rs.Message
		if rs.Error != nil && rs.Error.Message != "" {
			msg = rs.Error.Message
		}
		if msg == "" {
			msg = "no details"
		}

		return nil, serrors.With(serrors.ErrUpstream, "whois lookup reported failure: %s", msg)
	}

	return normalize(rs), nil
}

func normalize(rs response) *domain.Registration {
	out := &domain.Registration{
		Registrar: domain.UnknownRegistrar,
		CreatedAt: parseDate(rs.CreateDate),
		ExpiresAt: parseDate(rs.ExpiryDate),
	}
	if rs.Registrar != nil {
		if name := strings.TrimSpace(rs.Registrar.Name); name != "" {
			out.Registrar = name
		}
	}
	if r := rs.Registrant; r != nil {
		out.RegistrantName = strings.TrimSpace(r.Name)
		out.RegistrantOrg = strings.TrimSpace(r.Company)
		out.RegistrantEmail = strings.TrimSpace(r.Email)
		out.RegistrantCountry = strings.ToUpper(strings.TrimSpace(r.CountryCode))
		if out.RegistrantCountry == "" {
			out.RegistrantCountry = strings.TrimSpace(r.CountryName)
		}
	}
	for _, ns := range rs.NameServers {
		ns = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(ns)), ".")
		if ns != "" {
			out.NameServers = append(out.NameServers, ns)
		}
	}

	return out
}

// parseDate returns nil for empty or unparseable dates.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()

			return &t
		}
	}

	return nil
}

// transportError classifies a failed request. Transport errors embed the
// request URL, so the API key is stripped from the message.
func transportError(ctx context.Context, err error, apiKey string) error {
	msg := strings.ReplaceAll(err.Error(), apiKey, "REDACTED")
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return serrors.With(serrors.ErrTimeout, "could not send request: %s", msg)
	}

	return serrors.With(serrors.ErrUnavailable, "could not send request: %s", msg)
}

// Ensure Client conforms to the registration.Lookup interface at compile time.
var _ registration.Lookup = (*Client)(nil)

// New constructs a Client that uses the provided http.Client and API key. An
// empty key yields a client whose lookups fail with serrors.ErrNotConfigured.
func New(httpClient *http.Client, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
	}
}
