package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/wordlookup/internal/config"
	"github.com/heartmarshall/wordlookup/internal/metrics"
	"github.com/heartmarshall/wordlookup/internal/transport/middleware"
)

// NewRouter wires the API, health probes and metrics behind the shared
// middleware stack.
func NewRouter(lookup *LookupHandler, health *HealthHandler, cors config.CORSConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cors),
		metrics.InstrumentHandler,
	)

	r.Get("/live", health.Live)
	r.Get("/ready", health.Ready)
	r.Get("/health", health.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/languages", lookup.Languages)
		r.Post("/search", lookup.Search)
		r.Get("/history", lookup.History)
		r.Post("/clear-history", lookup.ClearHistory)
		r.Post("/pronounce", lookup.Pronounce)
		r.Post("/speech-to-text", lookup.SpeechToText)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
