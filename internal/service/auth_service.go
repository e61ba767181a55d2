package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go-task-manager/internal/model"
	"go-task-manager/internal/repository"
	"go-task-manager/pkg/apierror"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 50

	bearerPrefix = "bearer "
)

// AuthService composes the credential hasher, the token service and the
// user directory into the registration, login and bearer-resolution
// operations the transport layer calls.
type AuthService struct {
	users     repository.UserDirectory
	hasher    *PasswordHasher
	tokens    *TokenService
	accessTTL time.Duration
}

func NewAuthService(users repository.UserDirectory, hasher *PasswordHasher, tokens *TokenService, accessTTL time.Duration) (*AuthService, error) {
	if accessTTL <= 0 {
		return nil, fmt.Errorf("access token TTL must be positive")
	}

	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		accessTTL: accessTTL,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, username string, password string) (model.Principal, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < usernameMinLen || n > usernameMaxLen {
		return model.Principal{}, errValidation(
			fmt.Sprintf("username must be between %d and %d characters", usernameMinLen, usernameMaxLen),
			"username")
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, model.ErrWeakPassword) {
		return model.Principal{}, apierror.Wrap(err, "WEAK_PASSWORD",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
			"password", http.StatusBadRequest)
	}
	if err != nil {
		return model.Principal{}, err
	}

	user, err := s.users.Create(ctx, username, hash)
	if errors.Is(err, model.ErrDuplicateUsername) {
		return model.Principal{}, apierror.Wrap(err, "ALREADY_EXISTS", "username already exists", username, http.StatusConflict)
	}
	if err != nil {
		return model.Principal{}, err
	}

	return user.Principal(), nil
}

// Login verifies credentials and issues an access token. Wrong
// username, wrong password and a deactivated account all produce the
// same error so the response does not reveal which check failed.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.TokenResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.TokenResult{}, errUnauthenticated("invalid credentials")
	}
	if err != nil {
		return model.TokenResult{}, err
	}

	if !user.Active || !s.hasher.Verify(password, user.PasswordHash) {
		return model.TokenResult{}, errUnauthenticated("invalid credentials")
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username, s.accessTTL)
	if err != nil {
		return model.TokenResult{}, err
	}

	return model.TokenResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
		ExpiresAt:   expiresAt,
		User:        user.Principal(),
	}, nil
}

// Resolve turns a raw Authorization value into an authenticated
// principal. It is read-only and safe for concurrent use.
func (s *AuthService) Resolve(ctx context.Context, bearer string) (model.Principal, error) {
	bearer = strings.TrimSpace(bearer)
	if bearer == "" || !strings.HasPrefix(strings.ToLower(bearer), bearerPrefix) {
		return model.Principal{}, errUnauthenticated("missing or invalid authorization header")
	}

	claims, err := s.tokens.Verify(strings.TrimSpace(bearer[len(bearerPrefix):]))
	if err != nil {
		return model.Principal{}, apierror.Wrap(err, "UNAUTHORIZED", "invalid or expired token", "", http.StatusUnauthorized)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Principal{}, errUnauthenticated("invalid or expired token")
	}
	if err != nil {
		return model.Principal{}, err
	}

	if !user.Active {
		return model.Principal{}, errUnauthenticated("invalid or expired token")
	}

	return user.Principal(), nil
}

// Deactivate flips a user's active flag off. Every token already issued
// for that user stops resolving on its next use; the administrative
// trigger for this lives outside the HTTP surface.
func (s *AuthService) Deactivate(ctx context.Context, userID int64) error {
	return s.users.SetActive(ctx, userID, false)
}
