package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/query"
)

// listEnvelope wraps list responses with their pagination metadata.
type listEnvelope struct {
	Data any            `json:"data"`
	Meta query.PageMeta `json:"meta"`
}

// dataEnvelope wraps single-object and mutation responses.
type dataEnvelope struct {
	Data any `json:"data"`
}

func renderJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) renderData(w http.ResponseWriter, status int, data any) {
	renderJSON(w, status, dataEnvelope{Data: data})
}

func (s *Server) renderList(w http.ResponseWriter, data any, meta query.PageMeta) {
	renderJSON(w, http.StatusOK, listEnvelope{Data: data, Meta: meta})
}

// renderError maps domain errors to their HTTP status and hides everything
// else behind a logged 500.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if domainErr, ok := domain.AsError(err); ok {
		renderJSON(w, domainErr.Status, map[string]string{"error": domainErr.Message})
		return
	}

	s.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	renderJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// decodeBody decodes a JSON request body into dst and runs payload
// validation. Validation failures render as bad requests naming the first
// offending field.
func (s *Server) decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewBadRequest("request body is required")
		}
		return domain.NewBadRequest("request body is not valid json")
	}

	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return domain.NewBadRequest(fmt.Sprintf("field %q failed validation rule %q", first.Field(), first.Tag()))
		}
		return domain.NewBadRequest(err.Error())
	}
	return nil
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewBadRequest("id must be a positive integer")
	}
	return id, nil
}

// idsPayload is the body of bulk delete requests.
type idsPayload struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

func (s *Server) decodeIDs(r *http.Request) ([]int64, error) {
	var payload idsPayload
	if err := s.decodeBody(r, &payload); err != nil {
		return nil, err
	}
	return payload.IDs, nil
}

// listOptions parses filter, order, limit, offset, and page from the query
// string.
func listOptions(r *http.Request) (query.Options, error) {
	opts, err := query.ParseOptions(r.URL.Query())
	if err != nil {
		return query.Options{}, domain.NewBadRequest(err.Error())
	}
	return opts, nil
}
