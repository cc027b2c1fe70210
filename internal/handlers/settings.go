package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vidfriends/mediayoutube/internal/logging"
	"github.com/vidfriends/mediayoutube/internal/youtube"
)

// SettingsHandler serves the media type settings form of a bundle.
type SettingsHandler struct {
	Bundles BundleStore
}

type updateSettingsRequest struct {
	SourceField string `json:"sourceField"`
}

// Handle serves GET and PUT /api/v1/bundles/{bundle}/settings.
func (h SettingsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Bundles == nil {
		logger.Error("bundle store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "bundle services unavailable"})
		return
	}

	bundleID := r.PathValue("bundle")
	bundle, err := h.Bundles.Get(ctx, bundleID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	fields, err := h.Bundles.ListFields(ctx, bundle.ID)
	if err != nil {
		logger.Error("list bundle fields failed", "bundle", bundle.ID, "error", err)
		respondError(ctx, w, err)
		return
	}

	form := youtube.SettingsForm(fields, bundle.SourceField)
	if r.Method == http.MethodGet {
		respondJSON(ctx, w, http.StatusOK, form)
		return
	}

	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid settings payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	req.SourceField = strings.TrimSpace(req.SourceField)
	if !form.Allows(req.SourceField) {
		respondJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Error: "field cannot hold a YouTube URL or embed code",
			Field: req.SourceField,
		})
		return
	}

	if err := h.Bundles.UpdateSourceField(ctx, bundle.ID, req.SourceField); err != nil {
		logger.Error("update source field failed", "bundle", bundle.ID, "error", err)
		respondError(ctx, w, err)
		return
	}

	logger.Info("bundle source field updated", "bundle", bundle.ID, "sourceField", req.SourceField)
	respondJSON(ctx, w, http.StatusOK, youtube.SettingsForm(fields, req.SourceField))
}
