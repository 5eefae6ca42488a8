package handlers

import (
	"net/http"
	"strconv"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/service"
)

// TopPlayers serves the leaderboard. ?limit=N picks how many players to return.
func (h *Handler) TopPlayers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			h.fail(w, r, &service.ValidationError{Field: "limit", Message: "must be an integer"})
			return
		}
		limit = n
	}

	players, err := h.leaderboard.TopPlayers(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, players)
}
