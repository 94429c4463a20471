package controller_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"domainintel/pkg/controller"

	"github.com/stretchr/testify/require"
)

func preflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/v1/enrich", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	return req
}

func TestWithCORS_Preflight(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	controller.WithCORS()(next).ServeHTTP(rec, preflight("https://app.example"))

	require.False(t, called, "next handler should not be called for OPTIONS preflight")
	res := rec.Result()
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, res.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
	require.Contains(t, res.Header.Get("Access-Control-Allow-Headers"), "Content-Type")
	require.Equal(t, "X-Request-Id", res.Header.Get("Access-Control-Expose-Headers"))
}

func TestWithCORS_NormalRequest(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	controller.WithCORS("*")(next).ServeHTTP(rec, req)

	require.True(t, called, "next handler should be called for non-preflight request")
	res := rec.Result()
	require.Equal(t, http.StatusTeapot, res.StatusCode)
	require.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestWithCORS_AllowList(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	mw := controller.WithCORS("https://app.example")

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, preflight("https://APP.example"))
	res := rec.Result()
	require.Equal(t, "https://APP.example", res.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Origin", res.Header.Get("Vary"))

	rec = httptest.NewRecorder()
	mw(next).ServeHTTP(rec, preflight("https://evil.example"))
	res = rec.Result()
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}
