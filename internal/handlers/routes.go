package handlers

import (
	"net/http"
	"time"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	mediaType := MediaTypeHandler{}
	resolve := ResolveHandler{Resolver: deps.Resolver, Limiter: deps.ResolveLimiter}
	media := MediaHandler{
		Media:              deps.Media,
		Bundles:            deps.Bundles,
		Resolver:           deps.Resolver,
		Warmer:             deps.Warmer,
		DefaultSourceField: deps.DefaultSourceField,
		NowFunc:            deps.NowFunc,
	}
	settings := SettingsHandler{Bundles: deps.Bundles}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/media-type", mediaType.Describe)
	mux.HandleFunc("/api/v1/resolve", resolve.Resolve)
	mux.HandleFunc("/api/v1/media", media.Create)
	mux.HandleFunc("/api/v1/media/{id}", media.Get)
	mux.HandleFunc("/api/v1/media/{id}/fields/{field}", media.Field)
	mux.HandleFunc("/api/v1/media/{id}/thumbnail", media.Thumbnail)
	mux.HandleFunc("/api/v1/bundles/{bundle}/settings", settings.Handle)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Resolver           FieldResolver
	Media              MediaStore
	Bundles            BundleStore
	Warmer             ThumbnailScheduler
	ResolveLimiter     RateLimiter
	DefaultSourceField string
	NowFunc            func() time.Time
}
