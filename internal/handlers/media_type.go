package handlers

import (
	"net/http"

	"github.com/vidfriends/mediayoutube/internal/youtube"
)

// MediaTypeHandler describes the YouTube media source.
type MediaTypeHandler struct{}

type mediaTypeResponse struct {
	ID       string                     `json:"id"`
	Label    string                     `json:"label"`
	Fields   []youtube.FieldDescription `json:"fields"`
	Patterns []string                   `json:"patterns"`
}

// Describe handles GET /api/v1/media-type.
func (MediaTypeHandler) Describe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	patterns := make([]string, 0, len(youtube.Patterns))
	for _, p := range youtube.Patterns {
		patterns = append(patterns, p.Name)
	}

	respondJSON(r.Context(), w, http.StatusOK, mediaTypeResponse{
		ID:       "youtube",
		Label:    "YouTube",
		Fields:   youtube.ProvidedFields(),
		Patterns: patterns,
	})
}
