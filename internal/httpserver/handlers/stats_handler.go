package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"usersvc/internal/store"
)

func Stats(st *store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := st.Stats(r.Context())
		if err != nil {
			lg.Errorw("stats failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, stats)
	}
}

func Health(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			respondJSON(w, map[string]any{"status": "unhealthy"})
			return
		}
		respondJSON(w, map[string]any{"status": "healthy"})
	}
}
