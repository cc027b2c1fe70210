package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vidfriends/mediayoutube/internal/logging"
	"github.com/vidfriends/mediayoutube/internal/youtube"
)

// ResolveHandler derives fields from a reference that is not stored anywhere.
type ResolveHandler struct {
	Resolver FieldResolver
	Limiter  RateLimiter
}

type resolveRequest struct {
	Reference string   `json:"reference"`
	Fields    []string `json:"fields"`
}

// Resolve handles POST /api/v1/resolve.
func (h ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "resolve") {
		logger.Warn("resolve rate limited", "client", clientIP(r))
		respondJSON(ctx, w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
		return
	}

	if h.Resolver == nil {
		logger.Error("resolver unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "resolver unavailable"})
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid resolve payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	req.Reference = strings.TrimSpace(req.Reference)
	if req.Reference == "" {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "reference is required"})
		return
	}

	if err := h.Resolver.ValidateSource(req.Reference, "reference"); err != nil {
		respondError(ctx, w, err)
		return
	}

	fields, unsupported := parseFields(req.Fields)
	res := h.Resolver.ResolveAll(ctx, req.Reference, fields)
	for _, name := range unsupported {
		if res.Unavailable == nil {
			res.Unavailable = make(map[string]string)
		}
		res.Unavailable[name] = "unsupported"
	}

	respondJSON(ctx, w, http.StatusOK, res)
}

// parseFields maps requested names onto fields. With no names, every field
// without side effects is returned.
func parseFields(names []string) ([]youtube.Field, []string) {
	if len(names) == 0 {
		fields := make([]youtube.Field, 0, len(youtube.AllFields))
		for _, f := range youtube.AllFields {
			if f != youtube.FieldLocalThumbnail {
				fields = append(fields, f)
			}
		}
		return fields, nil
	}

	var (
		fields      []youtube.Field
		unsupported []string
	)
	for _, name := range names {
		f, err := youtube.ParseField(name)
		if err != nil {
			unsupported = append(unsupported, name)
			continue
		}
		fields = append(fields, f)
	}
	return fields, unsupported
}
