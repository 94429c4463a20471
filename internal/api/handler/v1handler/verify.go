package v1handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"domainintel/pkg/controller"
	"domainintel/pkg/serrors"

	"github.com/go-faster/jx"
)

// DecodeVerifyRequest extracts the address from a {"email": ...} body.
func DecodeVerifyRequest(data []byte) (string, error) {
	var email string
	if err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "email" {
			return d.Skip() //nolint: wrapcheck
		}
		var err error
		email, err = d.Str()

		return err //nolint: wrapcheck
	}); err != nil {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}
	if email == "" {
		return "", serrors.With(serrors.ErrBadRequest, "email is required")
	}

	return email, nil
}

// Verify handles POST /v1/verify.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := h.verify(w, r)
	h.count(ctx, "verify", err)
	if err != nil {
		WriteError(ctx, w, err)

		return
	}
	controller.WriteJSON(w, http.StatusOK, body)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	email, err := DecodeVerifyRequest(data)
	if err != nil {
		return nil, err
	}
	verdict, err := h.deps.Enricher.VerifyEmail(r.Context(), email)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	body, err := json.Marshal(verdict)
	if err != nil {
		return nil, fmt.Errorf("could not encode verdict: %w", err)
	}

	return body, nil
}

// Credits handles GET /v1/credits.
func (h *Handler) Credits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := json.Marshal(h.deps.Enricher.Credits(ctx))
	if err != nil {
		err = fmt.Errorf("could not encode credits: %w", err)
	}
	h.count(ctx, "credits", err)
	if err != nil {
		WriteError(ctx, w, err)

		return
	}
	controller.WriteJSON(w, http.StatusOK, body)
}
