package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/service"
	"github.com/avvvet/geoquiz-services/internal/geo"
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

type GameAPI interface {
	StartGame(ctx context.Context, userID int64, codename string) (*models.StartedGame, error)
	NextRound(ctx context.Context, userID, gameID int64) (*models.Round, error)
	EndGame(ctx context.Context, userID, gameID int64) (*models.Game, error)
	SetUserPoint(ctx context.Context, userID, roundID int64, point geo.Coord) (*models.RoundResult, error)
	GetGame(ctx context.Context, gameID int64) (*models.Game, error)
	ListGames(ctx context.Context, userID int64) ([]*models.Game, error)
	GetRound(ctx context.Context, roundID int64) (*models.Round, error)
}

type CategoryAPI interface {
	List(ctx context.Context, userID int64) ([]*models.CategoryDetail, error)
	Get(ctx context.Context, categoryID, userID int64) (*models.CategoryDetail, error)
	Liked(ctx context.Context, userID int64) ([]*models.CategoryDetail, error)
	SetLike(ctx context.Context, userID, categoryID int64) (*models.CategoryDetail, error)
}

type UserAPI interface {
	Register(ctx context.Context, login, password string) (*models.UserInfo, error)
	Authenticate(ctx context.Context, login, password string) (*models.UserInfo, error)
	Info(ctx context.Context, userID int64) (*models.UserInfo, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

type LeaderboardAPI interface {
	TopPlayers(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type Handler struct {
	tokenAuth   *jwtauth.JWTAuth
	tokenTTL    time.Duration
	games       GameAPI
	categories  CategoryAPI
	users       UserAPI
	leaderboard LeaderboardAPI
}

func NewHandler(games GameAPI, categories CategoryAPI, users UserAPI, leaderboard LeaderboardAPI) *Handler {
	return &Handler{
		games:       games,
		categories:  categories,
		users:       users,
		leaderboard: leaderboard,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("[Handler.CreateResponse] encode response: %s", err)
	}
}

func (h *Handler) ok(w http.ResponseWriter, code int, data interface{}) {
	h.CreateResponse(w, Response{
		Message: http.StatusText(code),
		Code:    code,
		Data:    data,
	})
}

// fail maps service errors onto HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	rsp := Response{Error: err.Error()}

	switch {
	case errors.As(err, &verr):
		rsp.Code = http.StatusBadRequest
		rsp.Data = map[string][]string{verr.Field: {verr.Message}}
	case errors.Is(err, service.ErrNotFound):
		rsp.Code = http.StatusNotFound
		rsp.Error = "not found"
	case errors.Is(err, service.ErrInvalidCredentials):
		rsp.Code = http.StatusUnauthorized
	case errors.Is(err, service.ErrPermission):
		rsp.Code = http.StatusForbidden
	case errors.Is(err, service.ErrState), errors.Is(err, service.ErrExhausted):
		rsp.Code = http.StatusConflict
	default:
		log.Errorf("%s %s failed: %s", r.Method, r.URL.Path, err)
		rsp.Code = http.StatusInternalServerError
		rsp.Error = "internal server error"
	}

	rsp.Message = http.StatusText(rsp.Code)
	h.CreateResponse(w, rsp)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, map[string]string{"status": "game service is running"})
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &service.ValidationError{Field: "body", Message: "malformed JSON"}
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &service.ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}

// userID returns the authenticated user, 0 for anonymous requests.
func userID(r *http.Request) int64 {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return 0
	}
	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		id, _ := v.Int64()
		return id
	case string:
		id, _ := strconv.ParseInt(v, 10, 64)
		return id
	}
	return 0
}
