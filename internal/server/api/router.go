package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the public and authenticated routes.
func NewRouter(users UserService, snaps SnapService) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	h := NewHandler(users, snaps)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Get("/email/{email}", h.emailExists)
			r.Get("/username/{username}", h.usernameExists)
			r.Post("/otp/request", h.otpRequest)
			r.Post("/otp/reset", h.otpReset)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth(users))
				r.Post("/logout", h.logout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(users))
			r.Get("/users/me/friends", h.friends)
			r.Get("/users/{id}", h.getUser)
			r.Post("/snaps", h.uploadSnap)
		})
	})

	return r
}
