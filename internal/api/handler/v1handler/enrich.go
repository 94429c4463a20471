package v1handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"domainintel/internal/enricher"
	"domainintel/pkg/contacts"
	"domainintel/pkg/controller"
	"domainintel/pkg/domain"
	"domainintel/pkg/filter"
	"domainintel/pkg/serrors"

	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EnrichRequest is the body of POST /v1/enrich.
type EnrichRequest struct {
	Domain       string
	MaxEmails    int
	Source       string
	SkipContacts bool
	// Filter, when present, is evaluated against the result.
	Filter *filter.Spec
	// Scoring holds partial scoring overrides, in the JSON form of scoring.Overrides.
	Scoring json.RawMessage
}

// DecodeEnrichRequest decodes and validates an enrich request body.
func DecodeEnrichRequest(data []byte) (*EnrichRequest, error) {
	var req EnrichRequest
	if err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "domain":
			req.Domain, err = d.Str()
		case "maxEmails":
			req.MaxEmails, err = d.Int()
		case "source":
			req.Source, err = d.Str()
		case "skipContacts":
			req.SkipContacts, err = d.Bool()
		case "filter":
			var raw jx.Raw
			if raw, err = d.Raw(); err == nil && raw.Type() != jx.Null {
				req.Filter = &filter.Spec{}
				err = json.Unmarshal(raw, req.Filter)
			}
		case "scoring":
			var raw jx.Raw
			if raw, err = d.Raw(); err == nil && raw.Type() != jx.Null {
				req.Scoring = json.RawMessage(raw)
			}
		default:
			return d.Skip() //nolint: wrapcheck
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}

		return nil
	}); err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}

	if req.Domain == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "domain is required")
	}
	if req.MaxEmails < 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "maxEmails must not be negative")
	}

	return &req, nil
}

// Options converts the request into enrichment options.
func (r *EnrichRequest) Options() (enricher.Options, error) {
	opts := enricher.Options{
		MaxEmails:    r.MaxEmails,
		Preference:   contacts.Preference(r.Source),
		SkipContacts: r.SkipContacts,
	}
	if len(r.Scoring) > 0 {
		if err := json.Unmarshal(r.Scoring, &opts.Scoring); err != nil {
			return enricher.Options{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid scoring overrides")
		}
	}

	return opts, nil
}

// EncodeEnrichResponse encodes {"result": record} plus "matches" when a
// filter was evaluated.
func EncodeEnrichResponse(record *domain.Enrichment, matches *bool) ([]byte, error) {
	result, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("could not encode enrichment: %w", err)
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.Obj(func(e *jx.Encoder) {
		e.Field("result", func(e *jx.Encoder) { e.Raw(result) })
		if matches != nil {
			e.Field("matches", func(e *jx.Encoder) { e.Bool(*matches) })
		}
	})

	return append([]byte(nil), e.Bytes()...), nil
}

// Enrich handles POST /v1/enrich.
func (h *Handler) Enrich(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := h.enrich(w, r)
	h.count(ctx, "enrich", err)
	if err != nil {
		WriteError(ctx, w, err)

		return
	}
	controller.WriteJSON(w, http.StatusOK, body)
}

func (h *Handler) enrich(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	ctx := r.Context()
	data, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	req, err := DecodeEnrichRequest(data)
	if err != nil {
		return nil, err
	}
	opts, err := req.Options()
	if err != nil {
		return nil, err
	}

	record, err := h.deps.Enricher.Enrich(ctx, req.Domain, opts)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	var matches *bool
	if req.Filter != nil && h.deps.Filter != nil {
		ok := h.deps.Filter.Evaluate(record, *req.Filter)
		matches = &ok
		h.matches.Add(ctx, 1, metric.WithAttributes(attribute.Bool("matches", ok)))
	}

	return EncodeEnrichResponse(record, matches)
}
