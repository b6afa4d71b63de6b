package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/internal/config"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

type RegisterParams struct {
	Username string
	Password string
}

type LoginParams struct {
	Username string
	Password string
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        model.User
}

type AuthService interface {
	Register(ctx context.Context, params RegisterParams) (model.User, error)
	// SetPassword creates the user or resets the password of an existing one.
	SetPassword(ctx context.Context, params RegisterParams) error
	Login(ctx context.Context, params LoginParams) (LoginResult, error)
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

type authService struct {
	cfg      config.Auth
	userRepo repository.UserRepository
	now      Clock
}

func NewAuthService(cfg config.Auth, userRepo repository.UserRepository, now Clock) AuthService {
	return &authService{
		cfg:      cfg,
		userRepo: userRepo,
		now:      now,
	}
}

func (s *authService) Register(ctx context.Context, params RegisterParams) (model.User, error) {
	user, err := s.newUser(params)
	if err != nil {
		return model.User{}, err
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return model.User{}, apperr.UsernameTakenErr.WrapParent(err)
		}
		return model.User{}, fmt.Errorf("user repository create user: %w", err)
	}

	return user, nil
}

func (s *authService) SetPassword(ctx context.Context, params RegisterParams) error {
	user, err := s.newUser(params)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("user repository upsert user: %w", err)
	}

	return nil
}

func (s *authService) newUser(params RegisterParams) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.User{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	return model.User{
		ID:           id,
		Username:     params.Username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}, nil
}

func (s *authService) Login(ctx context.Context, params LoginParams) (LoginResult, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, params.Username)
	if err != nil {
		if db.IsNotFound(err) {
			return LoginResult{}, apperr.InvalidCredentialsErr
		}
		return LoginResult{}, fmt.Errorf("user repository get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(params.Password)); err != nil {
		return LoginResult{}, apperr.InvalidCredentialsErr
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.TokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}

	return LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return []byte(s.cfg.JWTSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, apperr.UnauthorizedErr.WrapParent(err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperr.UnauthorizedErr.WrapParent(errors.New("malformed subject"))
	}

	return userID, nil
}
