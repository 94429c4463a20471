package v1handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"domainintel/internal/api/handler/v1handler"
	"domainintel/internal/enricher"
	mockenricher "domainintel/internal/enricher/mock"
	"domainintel/pkg/contacts"
	"domainintel/pkg/domain"
	"domainintel/pkg/filter"
	"domainintel/pkg/scoring"
	"domainintel/pkg/serrors"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) //nolint: gochecknoglobals

func newTestServer(t *testing.T) (*mockenricher.MockEnricher, *http.ServeMux) {
	t.Helper()

	ctrl := gomock.NewController(t)
	e := mockenricher.NewMockEnricher(ctrl)
	h, err := v1handler.New(v1handler.Deps{
		Enricher: e,
		Filter:   filter.NewEvaluator(scoring.DefaultConfig(), func() time.Time { return now }),
	}, noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	h.Register(mux)

	return e, mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	return rec
}

func record() *domain.Enrichment {
	return &domain.Enrichment{
		Domain:        "acme.example",
		TechStack:     &domain.TechStack{CMS: "Shopify", Frameworks: []string{}, Analytics: []string{}, Marketing: []string{}, Features: []string{}},
		Contacts:      []domain.Contact{},
		ContactSource: domain.ContactSourceNone,
		Score:         &domain.ScoreBreakdown{Total: 42, Factors: []string{"Valuable CMS: Shopify"}},
		Errors:        []string{"registration lookup failed: boom"},
		EnrichedAt:    now,
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "bad request",
			err:     serrors.With(serrors.ErrBadRequest, "invalid payload: missing domain"),
			status:  http.StatusBadRequest,
			code:    "BAD_REQUEST",
			message: "invalid payload: missing domain",
		},
		{
			name:    "upstream",
			err:     fmt.Errorf("could not enrich: %w", serrors.With(serrors.ErrUpstream, "provider returned 500")),
			status:  http.StatusBadGateway,
			code:    "UPSTREAM",
			message: "could not enrich: provider returned 500",
		},
		{
			name:    "rate limited",
			err:     serrors.With(serrors.ErrRateLimited, "slow down"),
			status:  http.StatusBadGateway,
			code:    "RATE_LIMITED",
			message: "slow down",
		},
		{
			name:    "timeout",
			err:     serrors.Wrap(serrors.ErrTimeout, context.DeadlineExceeded, "fetch"),
			status:  http.StatusGatewayTimeout,
			code:    "TIMEOUT",
			message: "fetch: context deadline exceeded",
		},
		{
			name:    "plain error is internal",
			err:     errors.New("db password is hunter2"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL",
			message: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, message := v1handler.StatusOf(tt.err)
			require.Equal(t, tt.status, status)
			require.Equal(t, tt.code, code)
			require.Equal(t, tt.message, message)
		})
	}
}

func TestDecodeEnrichRequest(t *testing.T) {
	req, err := v1handler.DecodeEnrichRequest([]byte(`{
		"domain": "acme.example",
		"maxEmails": 3,
		"source": "snov",
		"skipContacts": true,
		"unknown": {"nested": [1, 2]},
		"filter": {"includeTech": ["shopify"], "minScore": 40, "registeredAfter": "2026-01-01T00:00:00Z"},
		"scoring": {"targetCountries": ["FR"], "spamPenaltyOnly": true}
	}`))
	require.NoError(t, err)
	require.Equal(t, "acme.example", req.Domain)
	require.Equal(t, 3, req.MaxEmails)
	require.Equal(t, "snov", req.Source)
	require.True(t, req.SkipContacts)
	require.Equal(t, []string{"shopify"}, req.Filter.IncludeTech)
	require.Equal(t, 40, *req.Filter.MinScore)
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), req.Filter.RegisteredAfter.UTC())

	opts, err := req.Options()
	require.NoError(t, err)
	require.Equal(t, contacts.Preference("snov"), opts.Preference)
	require.Equal(t, []string{"FR"}, opts.Scoring.TargetCountries)
	require.True(t, *opts.Scoring.SpamPenaltyOnly)
}

func TestDecodeEnrichRequest_invalid(t *testing.T) {
	for _, body := range []string{
		``,
		`[]`,
		`{"domain": 42}`,
		`{"maxEmails": 3}`,
		`{"domain": "acme.example", "maxEmails": -1}`,
		`{"domain": "acme.example", "filter": {"minScore": "high"}}`,
	} {
		_, err := v1handler.DecodeEnrichRequest([]byte(body))
		require.ErrorIs(t, err, serrors.ErrBadRequest, body)
	}
}

func TestEnrich_withoutFilter(t *testing.T) {
	e, mux := newTestServer(t)
	e.EXPECT().Enrich(gomock.Any(), "acme.example", enricher.Options{MaxEmails: 5}).Return(record(), nil)

	rec := do(mux, http.MethodPost, "/v1/enrich", `{"domain": "acme.example", "maxEmails": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NotContains(t, rec.Body.String(), `"matches"`)
	require.Contains(t, rec.Body.String(), `"result":{"domain":"acme.example"`)
	require.Contains(t, rec.Body.String(), `"errors":["registration lookup failed: boom"]`)
}

func TestEnrich_withFilter(t *testing.T) {
	e, mux := newTestServer(t)
	e.EXPECT().Enrich(gomock.Any(), "acme.example", gomock.Any()).Return(record(), nil).Times(2)

	rec := do(mux, http.MethodPost, "/v1/enrich", `{"domain": "acme.example", "filter": {"includeTech": ["shop"]}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"matches":true`)

	rec = do(mux, http.MethodPost, "/v1/enrich", `{"domain": "acme.example", "filter": {"minScore": 43}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"matches":false`)
}

func TestEnrich_errors(t *testing.T) {
	e, mux := newTestServer(t)

	rec := do(mux, http.MethodPost, "/v1/enrich", `{"domain": `)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"BAD_REQUEST"`)

	e.EXPECT().Enrich(gomock.Any(), "not a domain", gomock.Any()).
		Return(nil, serrors.Wrap(serrors.ErrBadRequest, errors.New("no top-level domain"), "invalid domain"))
	rec = do(mux, http.MethodPost, "/v1/enrich", `{"domain": "not a domain"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":{"code":"BAD_REQUEST","message":"invalid domain: no top-level domain"}}`, rec.Body.String())

	rec = do(mux, http.MethodGet, "/v1/enrich", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(mux, http.MethodPost, "/v1/enrich", `{"domain":"`+strings.Repeat("a", v1handler.MaxBodyBytes)+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerify(t *testing.T) {
	e, mux := newTestServer(t)
	score := 91
	e.EXPECT().VerifyEmail(gomock.Any(), "jane@acme.example").
		Return(&contacts.Verdict{Valid: true, Score: &score, Source: domain.ContactSourceHunter}, nil)

	rec := do(mux, http.MethodPost, "/v1/verify", `{"email": "jane@acme.example"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"valid": true, "score": 91, "source": "hunter"}`, rec.Body.String())

	rec = do(mux, http.MethodPost, "/v1/verify", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":{"code":"BAD_REQUEST","message":"email is required"}}`, rec.Body.String())
}

func TestCredits(t *testing.T) {
	e, mux := newTestServer(t)
	e.EXPECT().Credits(gomock.Any()).Return([]contacts.CreditReport{
		{Source: domain.ContactSourceHunter, Configured: true, Balance: &contacts.Balance{Remaining: 40, Used: 10, Limit: 50}},
		{Source: domain.ContactSourceSnov, Configured: true, Error: "UNAUTHORIZED"},
	})

	rec := do(mux, http.MethodGet, "/v1/credits", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[
		{"source": "hunter", "configured": true, "balance": {"remaining": 40, "used": 10, "limit": 50}},
		{"source": "snov", "configured": true, "error": "UNAUTHORIZED"}
	]`, rec.Body.String())
}

func TestDecodeEnrichRequest_scoringZeroAndEmpty(t *testing.T) {
	req, err := v1handler.DecodeEnrichRequest([]byte(`{
		"domain": "casino.example",
		"scoring": {"spamPenalty": 0, "spamKeywords": [], "tech": {"noStack": 0}}
	}`))
	require.NoError(t, err)

	opts, err := req.Options()
	require.NoError(t, err)
	require.NotNil(t, opts.Scoring.SpamPenalty)
	require.Equal(t, 0, *opts.Scoring.SpamPenalty)
	require.NotNil(t, opts.Scoring.SpamKeywords)
	require.Empty(t, opts.Scoring.SpamKeywords)
	require.Nil(t, opts.Scoring.TargetCountries)

	cfg := opts.Scoring.Apply(scoring.DefaultConfig())
	require.Equal(t, 0, cfg.Tech.NoStack)
	require.Empty(t, cfg.SpamKeywords)
	require.Equal(t, scoring.DefaultConfig().TargetCountries, cfg.TargetCountries)
}
