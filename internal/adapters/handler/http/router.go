package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewHandler(log *slog.Logger, meetingHandler *MeetingHandler, processHandler *ProcessHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", googleAccessTokenHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/process", processHandler.Process)
		r.Post("/groq/process", processHandler.Process)

		r.Route("/meetings", func(r chi.Router) {
			r.Post("/", meetingHandler.CreateMeeting)
			r.Get("/", meetingHandler.ListMeetings)
			r.Put("/", meetingHandler.UpdateMeeting)
			r.Delete("/", meetingHandler.DeleteMeeting)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", meetingHandler.GetMeeting)
				r.Put("/", meetingHandler.UpdateMeeting)
				r.Delete("/", meetingHandler.DeleteMeeting)
				r.Post("/presentation", meetingHandler.UploadPresentation)
				r.Post("/recording", meetingHandler.UploadRecording)
				r.Post("/share", meetingHandler.ShareMeeting)
			})
		})
	})

	return r
}
