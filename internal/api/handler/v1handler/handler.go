// Package v1handler implements the version 1 HTTP API.
package v1handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"domainintel/internal/enricher"
	"domainintel/pkg/controller"
	"domainintel/pkg/filter"
	"domainintel/pkg/logger"
	"domainintel/pkg/serrors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// Deps are the collaborators the handlers serve.
type Deps struct {
	Enricher enricher.Enricher
	Filter   *filter.Evaluator
}

type Handler struct {
	deps     Deps
	requests metric.Int64Counter
	matches  metric.Int64Counter
}

// New creates the v1 handler. Counters are created on meter.
func New(deps Deps, meter metric.Meter) (*Handler, error) {
	requests, err := meter.Int64Counter("domainintel.api.requests",
		metric.WithDescription("API requests by operation and outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create requests counter: %w", err)
	}
	matches, err := meter.Int64Counter("domainintel.api.filter_matches",
		metric.WithDescription("Enrichments evaluated against a request filter, by result."))
	if err != nil {
		return nil, fmt.Errorf("could not create filter counter: %w", err)
	}

	return &Handler{deps: deps, requests: requests, matches: matches}, nil
}

// Register mounts the v1 routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/enrich", h.Enrich)
	mux.HandleFunc("POST /v1/verify", h.Verify)
	mux.HandleFunc("GET /v1/credits", h.Credits)
}

func (h *Handler) count(ctx context.Context, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	h.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// readBody reads a size-limited request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, serrors.With(serrors.ErrBadRequest, "request body exceeds %d bytes", tooLarge.Limit)
		}

		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body")
	}

	return body, nil
}

// StatusOf maps an error to its HTTP status, error code and client message.
// Errors without a semantic kind are internal and their details are not exposed.
func StatusOf(err error) (int, string, string) {
	kind := serrors.KindOf(err)
	switch kind {
	case serrors.ErrBadRequest:
		return http.StatusBadRequest, kind.Error(), err.Error()
	case serrors.ErrUpstream, serrors.ErrUnauthorized, serrors.ErrRateLimited, serrors.ErrUnavailable:
		return http.StatusBadGateway, kind.Error(), err.Error()
	case serrors.ErrTimeout:
		return http.StatusGatewayTimeout, kind.Error(), err.Error()
	default:
		return http.StatusInternalServerError, serrors.ErrInternal.Error(), "internal error"
	}
}

// WriteError logs err and writes its error envelope.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	status, code, message := StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
	} else {
		logger.Debug(ctx, "request rejected", zap.Error(err))
	}
	controller.WriteError(w, status, code, message)
}
