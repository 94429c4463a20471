package whoisfreaks_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"domainintel/pkg/domain"
	"domainintel/pkg/registration/whoisfreaks"
	"domainintel/pkg/serrors"

	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) *whoisfreaks.Client {
	return whoisfreaks.New(&http.Client{Transport: fn}, "test-key")
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClient_Lookup_success(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "api.whoisfreaks.com", r.URL.Host)
		require.Equal(t, "/v1.0/whois", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		require.Equal(t, "live", r.URL.Query().Get("whois"))
		require.Equal(t, "example.com", r.URL.Query().Get("domainName"))

		return jsonResponse(http.StatusOK, `{
			"status": true,
			"domain_name": "example.com",
			"create_date": "2024-03-05",
			"expiry_date": "2026-03-05T10:11:12Z",
			"domain_registrar": {"iana_id": "146", "registrar_name": "GoDaddy.com, LLC"},
			"registrant_contact": {
				"name": "Jane Doe",
				"company": "Acme Inc",
				"email_address": "jane@acme.example",
				"country_name": "United States",
				"country_code": "us"
			},
			"name_servers": ["NS1.EXAMPLE.COM.", "ns2.example.com", ""]
		}`), nil
	})

	rec, err := c.Lookup(context.Background(), "example.com")
	require.NoError(t, err)
	require.Equal(t, "GoDaddy.com, LLC", rec.Registrar)
	require.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *rec.CreatedAt)
	require.Equal(t, time.Date(2026, 3, 5, 10, 11, 12, 0, time.UTC), *rec.ExpiresAt)
	require.Equal(t, "Jane Doe", rec.RegistrantName)
	require.Equal(t, "Acme Inc", rec.RegistrantOrg)
	require.Equal(t, "jane@acme.example", rec.RegistrantEmail)
	require.Equal(t, "US", rec.RegistrantCountry)
	require.Equal(t, []string{"ns1.example.com", "ns2.example.com"}, rec.NameServers)
}

func TestClient_Lookup_missingNestedFields(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"status": true, "create_date": "not a date"}`), nil
	})

	rec, err := c.Lookup(context.Background(), "example.com")
	require.NoError(t, err)
	require.Equal(t, domain.UnknownRegistrar, rec.Registrar)
	require.False(t, rec.HasRegistrar())
	require.Nil(t, rec.CreatedAt)
	require.Nil(t, rec.ExpiresAt)
	require.Empty(t, rec.RegistrantEmail)
	require.Empty(t, rec.NameServers)
}

func TestClient_Lookup_countryNameFallback(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK,
			`{"status": true, "registrant_contact": {"country_name": "Germany"}}`), nil
	})

	rec, err := c.Lookup(context.Background(), "example.de")
	require.NoError(t, err)
	require.Equal(t, "Germany", rec.RegistrantCountry)
}

func TestClient_Lookup_payloadFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "status false", body: `{"status": false, "message": "domain not found"}`, want: "domain not found"},
		{name: "nested error", body: `{"status": false, "error": {"message": "unsupported tld"}}`, want: "unsupported tld"},
		{name: "status missing", body: `{"domain_name": "example.com"}`, want: "no details"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, tt.body), nil
			})

			rec, err := c.Lookup(context.Background(), "example.com")
			require.Nil(t, rec)
			require.ErrorIs(t, err, serrors.ErrUpstream)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClient_Lookup_httpStatus(t *testing.T) {
	tests := []struct {
		status int
		kind   serrors.Kind
	}{
		{status: http.StatusUnauthorized, kind: serrors.ErrUnauthorized},
		{status: http.StatusTooManyRequests, kind: serrors.ErrRateLimited},
		{status: http.StatusBadGateway, kind: serrors.ErrUpstream},
		{status: http.StatusNotFound, kind: serrors.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(func(*http.Request) (*http.Response, error) {
				return jsonResponse(tt.status, `{"status": true}`), nil
			})

			rec, err := c.Lookup(context.Background(), "example.com")
			require.Nil(t, rec)
			require.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestClient_Lookup_transportErrorRedactsKey(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})

	rec, err := c.Lookup(context.Background(), "example.com")
	require.Nil(t, rec)
	require.ErrorIs(t, err, serrors.ErrUnavailable)
	require.NotContains(t, err.Error(), "test-key")
}

func TestClient_Lookup_notConfigured(t *testing.T) {
	called := false
	c := whoisfreaks.New(&http.Client{Transport: rtFunc(func(*http.Request) (*http.Response, error) {
		called = true

		return nil, errors.New("unexpected call")
	})}, "")

	rec, err := c.Lookup(context.Background(), "example.com")
	require.Nil(t, rec)
	require.ErrorIs(t, err, serrors.ErrNotConfigured)
	require.False(t, called)
}
