package delivery

import (
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, h *AgentHandler) {
	r.Route("/agent", func(ar chi.Router) {
		ar.Use(httputil.RecoverMiddleware)

		ar.With(httprate.LimitByIP(30, time.Minute)).
			Post("/chat/{session_id}", h.Chat)

		ar.Get("/history/{session_id}", h.History)
		ar.Post("/clear/{session_id}", h.Clear)
	})

	r.With(httputil.RecoverMiddleware).Get("/audio/{filename}", h.Audio)
}
