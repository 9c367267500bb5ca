package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// NewRouter registers the API routes behind access logging and CORS. allowedOrigins
// is a comma separated list, "*" allows any origin.
func NewRouter(h *Handler, logger zerolog.Logger, allowedOrigins string) http.Handler {
	r := mux.NewRouter()

	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/youtube", h.SummarizeVideo).Methods(http.MethodPost)
	api.HandleFunc("/pdf/vectorize", h.VectorizePDF).Methods(http.MethodPost)
	api.HandleFunc("/ask", h.Ask).Methods(http.MethodPost)
	api.HandleFunc("/web/scrape", h.ScrapeWeb).Methods(http.MethodPost)
	api.HandleFunc("/web/vision", h.AnalyzeVision).Methods(http.MethodPost)
	api.HandleFunc("/web/extract", h.ExtractTable).Methods(http.MethodPost)
	api.HandleFunc("/web/screenshot", h.Screenshot).Methods(http.MethodGet)

	return corsMiddleware(r, allowedOrigins)
}

func corsMiddleware(next http.Handler, allowedOrigins string) http.Handler {
	allowAll := false
	allowed := make(map[string]bool)
	for _, o := range strings.Split(allowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		if o != "" {
			allowed[o] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Google-Api-Key, X-Groq-Api-Key")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
