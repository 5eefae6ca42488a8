package handlers

import (
	"net/http"
)

type startGameRequest struct {
	Category string `json:"category"` // codename
}

func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	started, err := h.games.StartGame(r.Context(), userID(r), req.Category)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rd, err := toRound(started.Round)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, startedGame{round: *rd, Category: started.Category})
}

func (h *Handler) NextRound(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	next, err := h.games.NextRound(r.Context(), userID(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rd, err := toRound(next)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, rd)
}

func (h *Handler) EndGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	game, err := h.games.EndGame(r.Context(), userID(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, game)
}

// ListGames returns the caller's games.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.ListGames(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, games)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	game, err := h.games.GetGame(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, game)
}
