package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"domainintel/internal/api"
	"domainintel/internal/api/handler/v1handler"
	mockenricher "domainintel/internal/enricher/mock"
	"domainintel/pkg/contacts"
	"domainintel/pkg/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"
)

func newTestHandler(t *testing.T) (*mockenricher.MockEnricher, http.Handler) {
	t.Helper()

	e := mockenricher.NewMockEnricher(gomock.NewController(t))
	h, err := api.NewHandler(api.Deps{Deps: v1handler.Deps{Enricher: e}}, api.Options{
		MetricsPath: "/metrics",
		Registry:    prometheus.NewRegistry(),
	})
	require.NoError(t, err)

	return e, h
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestHandler_health(t *testing.T) {
	_, h := newTestHandler(t)

	rec := get(h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_specs(t *testing.T) {
	_, h := newTestHandler(t)

	rec := get(h, "/specs/v1.yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/yaml; charset=utf-8", rec.Header().Get("Content-Type"))

	var doc struct {
		OpenAPI string         `yaml:"openapi"`
		Paths   map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &doc))
	require.Equal(t, "3.0.3", doc.OpenAPI)
	for _, path := range []string{"/v1/enrich", "/v1/verify", "/v1/credits", "/healthz"} {
		require.Contains(t, doc.Paths, path)
	}

	rec = get(h, "/v1/docs/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Domain Intelligence Service")
}

func TestHandler_metricsIncludeAPICounters(t *testing.T) {
	e, h := newTestHandler(t)
	e.EXPECT().Credits(gomock.Any()).Return([]contacts.CreditReport{{Source: domain.ContactSourceHunter}})

	require.Equal(t, http.StatusOK, get(h, "/v1/credits").Code)

	rec := get(h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "domainintel_api_requests")
}

func TestHandler_pprof(t *testing.T) {
	_, h := newTestHandler(t)

	require.Equal(t, http.StatusOK, get(h, "/debug/pprof/cmdline").Code)
}

func TestNewServer_requestTimeout(t *testing.T) {
	e := mockenricher.NewMockEnricher(gomock.NewController(t))
	e.EXPECT().VerifyEmail(gomock.Any(), "jane@acme.example").DoAndReturn(
		func(ctx context.Context, _ string) (*contacts.Verdict, error) {
			<-ctx.Done()

			return &contacts.Verdict{Source: domain.ContactSourceNone}, nil
		})

	srv, err := api.NewServer(api.Deps{Deps: v1handler.Deps{Enricher: e}}, api.Options{
		Timeouts: api.Timeouts{Request: 50 * time.Millisecond},
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/verify",
		strings.NewReader(`{"email":"jane@acme.example"}`)))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.JSONEq(t, `{"error":{"code":"TIMEOUT","message":"request timed out"}}`, rec.Body.String())
}
