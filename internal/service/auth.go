package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medbill/healthcare-billing/internal/models"
	"github.com/medbill/healthcare-billing/internal/repo"
	pkghash "github.com/medbill/healthcare-billing/pkg/hash"
	"github.com/medbill/healthcare-billing/pkg/logging"
	"github.com/medbill/healthcare-billing/pkg/tokens"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

type AuthResult struct {
	ID           uint
	Username     string
	Email        string
	Role         string
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// dummy hash/salt pair checked on unknown usernames so a login miss costs
// the same as a wrong password.
var (
	dummyHash = make([]byte, 32)
	dummySalt = make([]byte, 16)
)

func (s *AuthService) Register(ctx context.Context, username, email, password, role string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}
	if role == "" {
		role = "user"
	}

	if _, err := s.Repo.GetActiveUserByUsername(ctx, username); err == nil {
		l.Warn("register_conflict", "status", 409)
		return nil, fmt.Errorf("%w: username already exists", ErrConflict)
	} else if !errors.Is(err, repo.ErrNotFound) {
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	hash, salt, err := pkghash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
		Role:         role,
	}

	// The credential must exist durably before a refresh token is issued
	// against its id. A duplicate insert means we lost a race with another
	// register for the same username after our existence check; that is a
	// conflict, not a server fault.
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_conflict", "status", 409)
			return nil, fmt.Errorf("%w: username already exists", ErrConflict)
		}
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	res, err := s.issueTokens(ctx, &user)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "token issue", "error", err)
		return nil, err
	}

	l.Info("register_success", "user_id", user.ID)
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	user, err := s.Repo.GetActiveUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			pkghash.CheckPassword(password, dummyHash, dummySalt)
			l.Warn("login_failed", "status", 401)
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !pkghash.CheckPassword(password, user.PasswordHash, user.PasswordSalt) {
		l.Warn("login_failed", "status", 401)
		return nil, ErrInvalidCredentials
	}

	res, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "token issue", "error", err)
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	return res, nil
}

// Refresh exchanges an expired access token plus a live refresh token for a
// new pair. The resolved owner must match the access token's claimed
// identity: a second gate, independent of the store lookup, against token
// substitution across accounts.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if accessToken == "" || refreshToken == "" {
		return nil, fmt.Errorf("%w: token and refresh_token required", ErrValidation)
	}

	claims, err := tokens.ExpiredAccessClaims(accessToken, s.JWTSecret)
	if err != nil || claims.Subject == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "bad access token")
		return nil, ErrInvalidToken
	}

	user, err := s.Repo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "no active refresh token")
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	if user.Username != claims.Subject {
		l.Warn("refresh_failed", "status", 401, "reason", "identity mismatch")
		return nil, ErrInvalidRefreshToken
	}

	res, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "token issue", "error", err)
		return nil, err
	}

	l.Info("refresh_success", "user_id", user.ID)
	return res, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

// issueTokens builds the access/refresh pair and rotates the stored refresh
// token. A rotation failure fails the whole flow: a response with an access
// token but no refresh token is not an acceptable partial success.
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessExp := time.Now().UTC().Add(accessTokenTTL)
	accessToken, err := tokens.NewAccessToken(user.Username, user.Role, accessExp, s.JWTSecret)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().UTC().Add(refreshTokenTTL)
	refreshToken, err := tokens.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RotateRefreshToken(ctx, user.ID, refreshToken, refreshExp); err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	return &AuthResult{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}
