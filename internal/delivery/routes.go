package delivery

import (
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/Vovarama1992/whisper_relay/internal/ports"
)

func RegisterRoutes(
	r chi.Router,
	api *ApiHandler,
	admin *AdminHandler,
	hAuth *AuthHandler,
	authSvc ports.AuthService,
) {
	// --- auth ---
	r.With(httputil.RecoverMiddleware).
		Post("/auth/login", hAuth.Login)

	// --- chat relay ---
	r.Route("/api", func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			httprate.LimitByIP(60, time.Minute),
		)

		pr.Get("/history", api.History)
		pr.Post("/transcribe", api.Transcribe)
		pr.Post("/reply", api.Reply)
		pr.Post("/reply-voice", api.ReplyVoice)
	})

	// --- admin ---
	r.Route("/admin", func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			AuthMiddleware(authSvc),
		)

		pr.Post("/users", admin.EnsureUser)
		pr.Post("/users/{user_id}/role", admin.AssignRole)
	})
}
