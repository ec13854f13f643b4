package service

import (
	"context"
	"errors"
	"strings"

	"vidstream/internal/apierror"
	"vidstream/internal/media"
	"vidstream/internal/models"
	"vidstream/internal/repository"

	"go.uber.org/zap"
)

var ( // Define custom errors
	ErrUserAlreadyExists  = apierror.Conflict("user already exists")
	ErrUserNotFound       = apierror.NotFound("user not found")
	ErrInvalidCredentials = apierror.Unauthorized("invalid credentials")
	ErrMissingCredential  = apierror.Validation("username or email is required")
	ErrMissingToken       = apierror.Unauthorized("refresh token is required")
	ErrTokenReused        = apierror.Unauthorized("refresh token is no longer valid")
	ErrWrongOldPassword   = apierror.Validation("invalid old password")
)

type RegisterInput struct {
	FullName       string
	Username       string
	Email          string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResult struct {
	User   *models.PublicUser
	Tokens TokenPair
}

// AuthService owns the session lifecycle: registration, login, refresh-token
// rotation, logout, and password changes. At most one refresh token is valid
// per user; the stored copy on the user record is the source of truth.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Refresh(ctx context.Context, presented string) (*TokenPair, error)
	Logout(ctx context.Context, userID int64) error
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

type authService struct {
	users    repository.UserRepository
	tokens   *TokenService
	uploader media.Uploader
	logger   *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, uploader media.Uploader, logger *zap.Logger) AuthService {
	return &authService{
		users:    users,
		tokens:   tokens,
		uploader: uploader,
		logger:   logger,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.FullName == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apierror.Validation("all fields are required")
	}
	if in.AvatarPath == "" {
		return nil, apierror.Validation("avatar is required")
	}

	_, err := s.users.GetByUsernameOrEmail(ctx, in.Username, in.Email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Failed to check existing users", zap.Error(err))
		return nil, apierror.Internal(err, "failed to check existing users")
	}

	avatarURL, err := s.uploader.Upload(ctx, in.AvatarPath)
	if err != nil {
		s.logger.Error("Failed to upload avatar", zap.Error(err))
		return nil, apierror.Internal(err, "failed to upload avatar")
	}

	coverImageURL := ""
	if in.CoverImagePath != "" {
		coverImageURL, err = s.uploader.Upload(ctx, in.CoverImagePath)
		if err != nil {
			s.logger.Error("Failed to upload cover image", zap.Error(err))
			return nil, apierror.Internal(err, "failed to upload cover image")
		}
	}

	passwordHash, err := hashPassword(in.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, apierror.Internal(err, "failed to hash password")
	}

	user := &models.User{
		Username:      in.Username,
		Email:         in.Email,
		FullName:      in.FullName,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
		PasswordHash:  passwordHash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, apierror.Internal(err, "failed to create user")
	}

	s.logger.Info("User registered", zap.String("username", user.Username))
	return user.Public(), nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Username == "" && in.Email == "" {
		return nil, ErrMissingCredential
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to get user by username or email", zap.Error(err))
		return nil, apierror.Internal(err, "failed to retrieve user")
	}

	if !verifyPassword(user.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	// Persisting the new refresh token invalidates whatever token a previous
	// session was holding.
	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		s.logger.Error("Failed to persist refresh token", zap.Error(err))
		return nil, apierror.Internal(err, "failed to persist session")
	}

	s.logger.Info("User logged in", zap.String("username", user.Username))
	return &LoginResult{User: user.Public(), Tokens: *pair}, nil
}

func (s *authService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.tokens.VerifyRefreshToken(presented)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to get user for refresh", zap.Error(err))
		return nil, apierror.Internal(err, "failed to retrieve user")
	}

	// The presented token must match the single stored copy exactly. A
	// mismatch means the token was already rotated, or the user logged out.
	if !user.RefreshToken.Valid || user.RefreshToken.String != presented {
		return nil, ErrTokenReused
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	swapped, err := s.users.RotateRefreshToken(ctx, user.ID, presented, pair.RefreshToken)
	if err != nil {
		s.logger.Error("Failed to rotate refresh token", zap.Error(err))
		return nil, apierror.Internal(err, "failed to persist session")
	}
	if !swapped {
		// A concurrent refresh won the conditional update.
		s.logger.Warn("Refresh token rotation lost a race", zap.Int64("user_id", user.ID))
		return nil, ErrTokenReused
	}

	return pair, nil
}

func (s *authService) Logout(ctx context.Context, userID int64) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		s.logger.Error("Failed to clear refresh token", zap.Error(err))
		return apierror.Internal(err, "failed to logout")
	}
	s.logger.Info("User logged out", zap.Int64("user_id", userID))
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apierror.Validation("old and new password are required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("Failed to get user for password change", zap.Error(err))
		return apierror.Internal(err, "failed to retrieve user")
	}

	if !verifyPassword(user.PasswordHash, oldPassword) {
		return ErrWrongOldPassword
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return apierror.Internal(err, "failed to hash password")
	}

	if err := s.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return apierror.Internal(err, "failed to update password")
	}

	s.logger.Info("User changed password", zap.Int64("user_id", userID))
	return nil
}

func (s *authService) issuePair(user *models.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		s.logger.Error("Failed to issue access token", zap.Error(err))
		return nil, apierror.Internal(err, "failed to issue tokens")
	}
	refresh, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		s.logger.Error("Failed to issue refresh token", zap.Error(err))
		return nil, apierror.Internal(err, "failed to issue tokens")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
