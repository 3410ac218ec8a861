// Package handlers exposes the marketplace query operations over HTTP. Each
// handler translates between the JSON wire format and the application
// services, which carry the actual semantics.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

// parsePagination extracts page and page_size from query parameters.
func parsePagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = 20

	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}
	return page, pageSize
}

// parseLimit extracts a positive limit query parameter, falling back to def.
func parseLimit(r *http.Request, def int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.InvalidParam("invalid request body").WithCause(err)
	}
	return nil
}

// invalidPrice builds the rejection for a malformed price query parameter.
func invalidPrice(param, value string) error {
	return errors.InvalidParam(param + " must be a non-negative decimal").
		WithDetailf("%s=%s", param, value)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError maps a typed application error onto its HTTP status. Errors
// that resolve to a 5xx status are masked so internals never reach callers.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatus(code)

	resp := ErrorResponse{Code: string(code)}
	if status >= http.StatusInternalServerError {
		resp.Message = "internal server error"
	} else {
		resp.Message = err.Error()
		var appErr *errors.AppError
		if errors.As(err, &appErr) {
			resp.Message = appErr.Message
			resp.Detail = appErr.Detail
		}
	}
	writeJSON(w, status, resp)
}
