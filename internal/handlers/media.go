package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidfriends/mediayoutube/internal/logging"
	"github.com/vidfriends/mediayoutube/internal/models"
	"github.com/vidfriends/mediayoutube/internal/youtube"
)

// MediaHandler provides endpoints for stored YouTube media items.
type MediaHandler struct {
	Media              MediaStore
	Bundles            BundleStore
	Resolver           FieldResolver
	Warmer             ThumbnailScheduler
	DefaultSourceField string
	NowFunc            func() time.Time
}

type createMediaRequest struct {
	Bundle string            `json:"bundle"`
	Fields map[string]string `json:"fields"`
}

type mediaItemResponse struct {
	ID              string            `json:"id"`
	Bundle          string            `json:"bundle"`
	Fields          map[string]string `json:"fields"`
	VideoID         string            `json:"videoId"`
	Thumbnail       string            `json:"thumbnail,omitempty"`
	ThumbnailStatus string            `json:"thumbnailStatus"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type fieldResponse struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type thumbnailResponse struct {
	Thumbnail string `json:"thumbnail"`
}

func newMediaItemResponse(item models.MediaItem) mediaItemResponse {
	return mediaItemResponse{
		ID:              item.ID,
		Bundle:          item.BundleID,
		Fields:          item.Fields,
		VideoID:         item.VideoID,
		Thumbnail:       item.Thumbnail,
		ThumbnailStatus: item.ThumbnailStatus,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

// Create handles POST /api/v1/media.
func (h MediaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !h.ready() {
		logger.Error("media dependencies unavailable", "hasMedia", h.Media != nil, "hasBundles", h.Bundles != nil, "hasResolver", h.Resolver != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "media services unavailable"})
		return
	}

	var req createMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid media payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	req.Bundle = strings.TrimSpace(req.Bundle)
	if req.Bundle == "" {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "bundle is required"})
		return
	}

	bundle, err := h.Bundles.Get(ctx, req.Bundle)
	if err != nil {
		logger.Warn("media bundle lookup failed", "bundle", req.Bundle, "error", err)
		respondError(ctx, w, err)
		return
	}

	sourceField := h.sourceField(bundle)
	reference := strings.TrimSpace(req.Fields[sourceField])
	if err := h.Resolver.ValidateSource(reference, sourceField); err != nil {
		respondError(ctx, w, err)
		return
	}
	videoID, _ := h.Resolver.ExtractVideoID(reference)

	now := time.Now().UTC()
	if h.NowFunc != nil {
		now = h.NowFunc().UTC()
	}

	item := models.MediaItem{
		ID:              uuid.NewString(),
		BundleID:        bundle.ID,
		Fields:          req.Fields,
		VideoID:         videoID,
		ThumbnailStatus: models.ThumbnailStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.Media.Create(ctx, item); err != nil {
		logger.Error("create media item failed", "bundle", bundle.ID, "error", err)
		respondError(ctx, w, err)
		return
	}

	if h.Warmer != nil {
		if err := h.Warmer.Enqueue(ctx, item.ID, reference); err != nil {
			logger.Warn("schedule thumbnail warm-up failed", "itemId", item.ID, "error", err)
		}
	}

	logger.Info("media item created", "itemId", item.ID, "videoId", videoID)
	respondJSON(ctx, w, http.StatusCreated, newMediaItemResponse(item))
}

// Get handles GET /api/v1/media/{id}.
func (h MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if h.Media == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "media services unavailable"})
		return
	}

	item, err := h.Media.Get(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newMediaItemResponse(item))
}

// Field handles GET /api/v1/media/{id}/fields/{field}.
func (h MediaHandler) Field(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if !h.ready() {
		respondJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "media services unavailable"})
		return
	}

	field, err := youtube.ParseField(r.PathValue("field"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	_, reference, err := h.reference(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	value, err := h.Resolver.ResolveField(ctx, reference, field)
	if err != nil {
		logging.FromContext(ctx).Debug("field unavailable", "field", field.String(), "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, fieldResponse{Field: field.String(), Value: value})
}

// Thumbnail handles GET /api/v1/media/{id}/thumbnail. It never fails for an
// existing item: without a usable thumbnail the generic icon is returned.
func (h MediaHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if !h.ready() {
		respondJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "media services unavailable"})
		return
	}

	item, reference, err := h.reference(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if item.ThumbnailStatus == models.ThumbnailStatusReady && item.Thumbnail != "" {
		respondJSON(ctx, w, http.StatusOK, thumbnailResponse{Thumbnail: item.Thumbnail})
		return
	}

	respondJSON(ctx, w, http.StatusOK, thumbnailResponse{Thumbnail: h.Resolver.Thumbnail(ctx, reference)})
}

func (h MediaHandler) ready() bool {
	return h.Media != nil && h.Bundles != nil && h.Resolver != nil
}

func (h MediaHandler) sourceField(bundle models.Bundle) string {
	if field := strings.TrimSpace(bundle.SourceField); field != "" {
		return field
	}
	return h.DefaultSourceField
}

// reference loads an item and returns the raw value of its bundle's source field.
func (h MediaHandler) reference(ctx context.Context, itemID string) (models.MediaItem, string, error) {
	item, err := h.Media.Get(ctx, itemID)
	if err != nil {
		return models.MediaItem{}, "", err
	}
	bundle, err := h.Bundles.Get(ctx, item.BundleID)
	if err != nil {
		return models.MediaItem{}, "", err
	}
	return item, item.Reference(h.sourceField(bundle)), nil
}
