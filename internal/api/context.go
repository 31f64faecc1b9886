package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"go.lumeweb.com/portal-plugin-payments/internal/api/messages"
	"go.lumeweb.com/portal-plugin-payments/service"
	"go.uber.org/zap"
	"net/http"
)

// requestContext bundles the request, its writer and a logger carrying the request id.
type requestContext struct {
	r      *http.Request
	w      http.ResponseWriter
	logger *zap.Logger
}

func newContext(w http.ResponseWriter, r *http.Request, logger *zap.Logger) *requestContext {
	if id := RequestID(r.Context()); id != "" {
		logger = logger.With(zap.String("request_id", id))
	}

	return &requestContext{r: r, w: w, logger: logger}
}

func (c *requestContext) Decode(v any) error {
	if err := json.NewDecoder(c.r.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}

	return nil
}

func (c *requestContext) Encode(v any) {
	c.EncodeStatus(http.StatusOK, v)
}

func (c *requestContext) EncodeStatus(status int, v any) {
	c.w.Header().Set("Content-Type", "application/json")
	c.w.WriteHeader(status)

	if err := json.NewEncoder(c.w).Encode(v); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

// Error writes err as a JSON error body. A zero status is derived from the error kind.
func (c *requestContext) Error(err error, status int) {
	if status == 0 {
		status = statusForError(err)
	}

	resp := &messages.ErrorResponse{
		Error: err.Error(),
		Kind:  string(service.KindOf(err)),
	}

	var serviceErr *service.Error
	if errors.As(err, &serviceErr) {
		resp.Code = serviceErr.Code
	}

	if status >= http.StatusInternalServerError {
		c.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		c.logger.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}

	c.EncodeStatus(status, resp)
}

func statusForError(err error) int {
	switch service.KindOf(err) {
	case service.KindValidation, service.KindSignature:
		return http.StatusBadRequest
	case service.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
