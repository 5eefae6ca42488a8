package handlers

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		// public routes here
		r.Get("/health", h.HealthHandler)
		r.Get("/top_players", h.TopPlayers)
		r.Post("/auth/registration", h.Register)
		r.Post("/auth/login", h.Login)

		// public, but aware of the caller when a token is sent
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))

			r.Get("/category", h.ListCategories)
			r.Get("/category/{id}", h.GetCategory)
		})

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Get("/auth/info", h.Info)
			r.Post("/auth/change_password", h.ChangePassword)
			r.Get("/auth/liked_category", h.LikedCategories)

			r.Post("/category/{id}/set_like", h.SetLike)

			r.Get("/game", h.ListGames)
			r.Post("/game/start_game", h.StartGame)
			r.Get("/game/{id}", h.GetGame)
			r.Post("/game/{id}/next_round", h.NextRound)
			r.Post("/game/{id}/end_game", h.EndGame)

			r.Get("/round/{id}", h.GetRound)
			r.Patch("/round/{id}/set_user_point", h.SetUserPoint)
		})
	})
}

// InitAuth configures HS256 tokens signed with secret and valid for ttl.
func (h *Handler) InitAuth(secret string, ttl time.Duration) {
	h.tokenAuth = jwtauth.New("HS256", []byte(secret), nil)
	h.tokenTTL = ttl
}

func (h *Handler) issueToken(userID int64, login string) (string, error) {
	now := time.Now()
	claims := map[string]interface{}{
		"user_id": userID,
		"login":   login,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(h.tokenTTL).Unix(),
	}

	_, tokenString, err := h.tokenAuth.Encode(claims)
	return tokenString, err
}
