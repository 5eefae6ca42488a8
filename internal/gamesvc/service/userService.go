package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/store"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const maxLoginLength = 150

// UserService registers and authenticates players.
type UserService struct {
	tx    Transactor
	users UserRepo
	cost  int
}

func NewUserService(tx Transactor, st Stores) *UserService {
	return &UserService{
		tx:    tx,
		users: st.Users,
		cost:  bcrypt.DefaultCost,
	}
}

// Register creates a user and returns its info.
func (s *UserService) Register(ctx context.Context, login, password string) (*models.UserInfo, error) {
	login = strings.TrimSpace(login)
	if err := validateLogin(login); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, invalid("password", "this field is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	q := s.tx.Conn()
	u, err := s.users.CreateUser(ctx, q, login, string(hash))
	if errors.Is(err, store.ErrDuplicate) {
		return nil, invalid("login", "user with this login already exists")
	}
	if err != nil {
		return nil, err
	}

	log.Infof("[UserService.Register] new user %d %s", u.ID, u.Login)
	return s.users.GetInfo(ctx, q, u.ID)
}

// Authenticate checks the credentials and returns the user's info.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*models.UserInfo, error) {
	q := s.tx.Conn()
	u, err := s.users.GetByLogin(ctx, q, strings.TrimSpace(login))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.users.GetInfo(ctx, q, u.ID)
}

func (s *UserService) Info(ctx context.Context, userID int64) (*models.UserInfo, error) {
	return s.users.GetInfo(ctx, s.tx.Conn(), userID)
}

// ChangePassword replaces the password after checking the old one.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if oldPassword == "" {
		return invalid("old_password", "this field is required")
	}
	if newPassword == "" {
		return invalid("new_password", "this field is required")
	}

	return s.tx.InTx(ctx, func(q store.DBTX) error {
		u, err := s.users.GetByID(ctx, q, userID)
		if err != nil {
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
			return invalid("old_password", "wrong password")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		return s.users.UpdatePassword(ctx, q, userID, string(hash))
	})
}

func validateLogin(login string) error {
	if login == "" {
		return invalid("login", "this field is required")
	}
	if len(login) > maxLoginLength {
		return invalid("login", fmt.Sprintf("ensure this field has no more than %d characters", maxLoginLength))
	}
	return nil
}
