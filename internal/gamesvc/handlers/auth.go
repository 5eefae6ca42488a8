package handlers

import (
	"net/http"
	"time"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
)

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type passwordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	info, err := h.users.Register(r.Context(), req.Login, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.signIn(w, r, http.StatusCreated, info)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	info, err := h.users.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.signIn(w, r, http.StatusOK, info)
}

// signIn issues a token, sets it as the jwt cookie and returns it in the body.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, code int, info *models.UserInfo) {
	token, err := h.issueToken(info.ID, info.Login)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.ok(w, code, authResult{Token: token, User: info})
}

func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.users.Info(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, info)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordChange
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.users.ChangePassword(r.Context(), userID(r), req.OldPassword, req.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *Handler) LikedCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.Liked(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, categories)
}
