package snov_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"domainintel/pkg/contacts"
	"domainintel/pkg/contacts/snov"
	"domainintel/pkg/domain"
	"domainintel/pkg/serrors"

	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// fakeSnov serves the token endpoint and delegates API calls to api.
type fakeSnov struct {
	t          *testing.T
	expiresIn  string
	exchanges  atomic.Int32
	tokenValue string
	api        func(r *http.Request) (*http.Response, error)
}

func (f *fakeSnov) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.URL.Path == "/v1/oauth/access_token" {
		f.exchanges.Add(1)
		require.NoError(f.t, r.ParseForm())
		require.Equal(f.t, "client_credentials", r.PostForm.Get("grant_type"))
		require.Equal(f.t, "id", r.PostForm.Get("client_id"))
		require.Equal(f.t, "secret", r.PostForm.Get("client_secret"))

		return jsonResponse(http.StatusOK,
			`{"access_token":"`+f.tokenValue+`","token_type":"Bearer","expires_in":`+f.expiresIn+`}`), nil
	}
	require.Equal(f.t, "Bearer "+f.tokenValue, r.Header.Get("Authorization"))

	return f.api(r)
}

func newTestClient(t *testing.T, api rtFunc) (*snov.Client, *fakeSnov) {
	t.Helper()

	f := &fakeSnov{t: t, expiresIn: "3600", tokenValue: "tok-1", api: api}

	return snov.New(&http.Client{Transport: f}, snov.Credentials{ClientID: "id", ClientSecret: "secret"}), f
}

func TestResolveCredentials(t *testing.T) {
	require.Equal(t, snov.Credentials{ClientID: "id", ClientSecret: "secret"},
		snov.ResolveCredentials("id", "secret", "combined"))
	require.Equal(t, snov.Credentials{ClientID: "combined", ClientSecret: "combined"},
		snov.ResolveCredentials("", "", "combined"))
	require.Equal(t, snov.Credentials{ClientID: "id", ClientSecret: "combined"},
		snov.ResolveCredentials("id", "", "combined"))
	require.Equal(t, snov.Credentials{ClientID: "id"}, snov.ResolveCredentials("id", "", ""))
}

func TestClient_SearchDomain_success(t *testing.T) {
	c, f := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v2/domain-emails-with-info", r.URL.Path)
		require.Equal(t, "acme.example", r.URL.Query().Get("domain"))
		require.Equal(t, "2", r.URL.Query().Get("limit"))

		return jsonResponse(http.StatusOK, `{"success": true, "domain": "acme.example", "result": 3, "emails": [
			{"email": "jane@acme.example", "firstName": "Jane", "lastName": "Doe", "position": "CTO", "status": "verified"},
			{"email": "bob@acme.example", "status": "notVerified"},
			{"email": "eve@acme.example", "status": "verified"}
		]}`), nil
	})

	got, err := c.SearchDomain(context.Background(), "acme.example", 2)
	require.NoError(t, err)
	require.Equal(t, []domain.Contact{
		{Email: "jane@acme.example", FirstName: "Jane", LastName: "Doe", Position: "CTO",
			Source: domain.ContactSourceSnov, Confidence: 90},
		{Email: "bob@acme.example", Source: domain.ContactSourceSnov, Confidence: 50},
	}, got)
	require.EqualValues(t, 1, f.exchanges.Load())
}

func TestClient_SearchDomain_payloadFailure(t *testing.T) {
	c, _ := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"success": false, "message": "domain is invalid"}`), nil
	})

	got, err := c.SearchDomain(context.Background(), "acme.example", 5)
	require.Nil(t, got)
	require.ErrorIs(t, err, serrors.ErrUpstream)
	require.Contains(t, err.Error(), "domain is invalid")
}

func TestClient_tokenIsReused(t *testing.T) {
	c, f := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"success": true, "emails": []}`), nil
	})

	for range 3 {
		_, err := c.SearchDomain(context.Background(), "acme.example", 5)
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, f.exchanges.Load())
}

func TestClient_tokenRefreshedWithinMargin(t *testing.T) {
	c, f := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"success": true, "emails": []}`), nil
	})
	// a token expiring in 30s is already inside the 60s refresh margin
	f.expiresIn = "30"

	for range 2 {
		_, err := c.SearchDomain(context.Background(), "acme.example", 5)
		require.NoError(t, err)
	}
	require.EqualValues(t, 2, f.exchanges.Load())
}

func TestClient_tokenRejected(t *testing.T) {
	c := snov.New(&http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/v1/oauth/access_token", r.URL.Path)

		return jsonResponse(http.StatusBadRequest, `{"error":"invalid_client"}`), nil
	})}, snov.Credentials{ClientID: "id", ClientSecret: "wrong"})

	_, err := c.SearchDomain(context.Background(), "acme.example", 5)
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
}

func TestClient_notConfigured(t *testing.T) {
	c := snov.New(&http.Client{Transport: rtFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("unexpected call")
	})}, snov.ResolveCredentials("id", "", ""))

	require.False(t, c.Configured())
	_, err := c.SearchDomain(context.Background(), "acme.example", 5)
	require.ErrorIs(t, err, serrors.ErrNotConfigured)
}

func TestClient_VerifyEmail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *contacts.Verification
	}{
		{
			name: "valid",
			body: `{"jane@acme.example": {"data": {"email": "jane@acme.example"},
				"result": {"isValidFormat": true, "smtpStatus": "valid"}, "status": {"identifier": "complete"}}}`,
			want: &contacts.Verification{Valid: true},
		},
		{
			name: "not valid",
			body: `{"jane@acme.example": {"result": {"smtpStatus": "not_valid"}, "status": {"identifier": "complete"}}}`,
			want: &contacts.Verification{Valid: false},
		},
		{
			name: "unknown smtp status",
			body: `{"jane@acme.example": {"result": {"smtpStatus": "unknown"}, "status": {"identifier": "complete"}}}`,
		},
		{
			name: "still processing",
			body: `{"jane@acme.example": {"status": {"identifier": "in_progress"}}}`,
		},
		{
			name: "email missing from response",
			body: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var paths []string
			c, _ := newTestClient(t, func(r *http.Request) (*http.Response, error) {
				require.Equal(t, http.MethodPost, r.Method)
				require.NoError(t, r.ParseForm())
				require.Equal(t, []string{"Jane@acme.example"}, r.PostForm["emails[]"])
				paths = append(paths, r.URL.Path)

				if r.URL.Path == "/v1/add-emails-to-verification" {
					return jsonResponse(http.StatusOK, `{"Jane@acme.example": {"sent": true}}`), nil
				}

				return jsonResponse(http.StatusOK, tt.body), nil
			})

			got, err := c.VerifyEmail(context.Background(), "Jane@acme.example")
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, []string{"/v1/add-emails-to-verification", "/v1/get-emails-verification-status"}, paths)
		})
	}
}

func TestClient_VerifyEmail_queueFails(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		require.Equal(t, "/v1/add-emails-to-verification", r.URL.Path)

		return jsonResponse(http.StatusTooManyRequests, `{"message":"slow down"}`), nil
	})

	got, err := c.VerifyEmail(context.Background(), "jane@acme.example")
	require.Nil(t, got)
	require.ErrorIs(t, err, serrors.ErrRateLimited)
	require.Equal(t, 1, calls)
}

func TestClient_Credits(t *testing.T) {
	c, _ := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/v1/get-balance", r.URL.Path)

		return jsonResponse(http.StatusOK, `{"success": true, "data": {"balance": "2500.00", "teamwork": false}}`), nil
	})

	got, err := c.Credits(context.Background())
	require.NoError(t, err)
	require.Equal(t, &contacts.Balance{Remaining: 2500}, got)
}

func TestClient_apiStatus(t *testing.T) {
	c, _ := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, "slow down"), nil
	})

	_, err := c.Credits(context.Background())
	require.ErrorIs(t, err, serrors.ErrRateLimited)
}
