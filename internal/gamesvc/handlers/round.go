package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/service"
	"github.com/avvvet/geoquiz-services/internal/geo"
)

type setUserPointRequest struct {
	UserPoint json.RawMessage `json:"user_point"` // GeoJSON Point
}

func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rnd, err := h.games.GetRound(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rd, err := toRound(rnd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, rd)
}

// SetUserPoint scores the caller's guess for the round.
func (h *Handler) SetUserPoint(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req setUserPointRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if len(req.UserPoint) == 0 || string(req.UserPoint) == "null" {
		h.fail(w, r, &service.ValidationError{Field: "user_point", Message: "this field is required"})
		return
	}

	point, err := geo.ParseGeoJSON(req.UserPoint)
	if err != nil {
		h.fail(w, r, &service.ValidationError{Field: "user_point", Message: err.Error()})
		return
	}

	res, err := h.games.SetUserPoint(r.Context(), userID(r), id, point)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, roundResult{Score: res.Round.Score, Distance: res.Distance})
}
