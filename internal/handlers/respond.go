package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vidfriends/mediayoutube/internal/logging"
	"github.com/vidfriends/mediayoutube/internal/repositories"
	"github.com/vidfriends/mediayoutube/internal/youtube"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// respondError maps domain errors onto HTTP status codes.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		validation *youtube.ValidationError
		fetchErr   *youtube.FetchError
	)

	switch {
	case errors.As(err, &validation):
		respondJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{Error: validation.Error(), Field: validation.Field})
	case errors.Is(err, repositories.ErrNotFound):
		respondJSON(ctx, w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, repositories.ErrConflict):
		respondJSON(ctx, w, http.StatusConflict, errorResponse{Error: "already exists"})
	case errors.Is(err, youtube.ErrUnsupportedField):
		respondJSON(ctx, w, http.StatusNotFound, errorResponse{Error: err.Error(), Reason: youtube.UnavailableReason(err)})
	case errors.Is(err, youtube.ErrFieldUnavailable) && errors.As(err, &fetchErr) && upstreamFailure(fetchErr):
		respondJSON(ctx, w, http.StatusBadGateway, errorResponse{Error: "upstream unavailable", Reason: youtube.UnavailableReason(err)})
	case errors.Is(err, youtube.ErrFieldUnavailable):
		respondJSON(ctx, w, http.StatusNotFound, errorResponse{Error: "field unavailable", Reason: youtube.UnavailableReason(err)})
	default:
		logging.FromContext(ctx).Error("unhandled error", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func upstreamFailure(err *youtube.FetchError) bool {
	switch err.Kind {
	case youtube.FetchNetwork:
		return true
	case youtube.FetchStatus:
		return err.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}
