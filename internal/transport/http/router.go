package http

import (
	"encoding/json"
	"net/http"

	"college-exam-system/internal/app"
	"college-exam-system/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ScoreReader exposes recorded scores.
type ScoreReader interface {
	ScoresFor(studentID string) []domain.ScoreRecord
}

// NewRouter wires the health check, the exam websocket and the score listing.
func NewRouter(service *app.ExamService, scores ScoreReader) http.Handler {
	ws := NewWSHandler(service)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", ws.ServeWS)
	r.Get("/students/{id}/scores", func(w http.ResponseWriter, r *http.Request) {
		records := scores.ScoresFor(chi.URLParam(r, "id"))
		if records == nil {
			records = []domain.ScoreRecord{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(records)
	})
	return r
}
