package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"shangrila/internal/models"
)

// RegisterRoutes — liveness и публичный статус API.
// В fallback-режиме /api/status честно помечает ответ.
func RegisterRoutes(r *mux.Router, degraded bool) {
	r.HandleFunc("/healthz", liveness).Methods(http.MethodGet)
	r.HandleFunc("/api/status", func(w http.ResponseWriter, _ *http.Request) {
		data := map[string]any{
			"status":  "ok",
			"message": "Shangri-La API is running",
			"time":    time.Now().UTC().Format(time.RFC3339),
		}
		if degraded {
			models.WriteFallback(w, http.StatusOK, data)
			return
		}
		models.WriteSuccess(w, http.StatusOK, data)
	}).Methods(http.MethodGet)
}

// RegisterRoutesWithDB — то же плюс readiness (проверка БД).
func RegisterRoutesWithDB(r *mux.Router, db *gorm.DB, degraded bool) {
	RegisterRoutes(r, degraded)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if db == nil {
			http.Error(w, "db not configured", http.StatusServiceUnavailable)
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			http.Error(w, "db handle error", http.StatusServiceUnavailable)
			return
		}
		if err := sqlDB.Ping(); err != nil {
			http.Error(w, "db unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)
}

func liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
