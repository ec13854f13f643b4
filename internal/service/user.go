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

var ErrChannelNotFound = apierror.NotFound("channel does not exist")

// UserService covers the profile read and update paths. Session concerns
// live in AuthService.
type UserService interface {
	GetByID(ctx context.Context, userID int64) (*models.PublicUser, error)
	UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*models.PublicUser, error)
	UpdateAvatar(ctx context.Context, userID int64, localPath string) (*models.PublicUser, error)
	UpdateCoverImage(ctx context.Context, userID int64, localPath string) (*models.PublicUser, error)
	GetChannelProfile(ctx context.Context, username string, viewerID int64) (*models.ChannelProfile, error)
}

type userService struct {
	users    repository.UserRepository
	uploader media.Uploader
	logger   *zap.Logger
}

func NewUserService(users repository.UserRepository, uploader media.Uploader, logger *zap.Logger) UserService {
	return &userService{users: users, uploader: uploader, logger: logger}
}

func (s *userService) GetByID(ctx context.Context, userID int64) (*models.PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to get user", zap.Error(err))
		return nil, apierror.Internal(err, "failed to retrieve user")
	}
	return user.Public(), nil
}

func (s *userService) UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*models.PublicUser, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, apierror.Validation("all fields are required")
	}

	user, err := s.users.UpdateAccount(ctx, userID, fullName, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apierror.Conflict("email already in use")
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to update account details", zap.Error(err))
		return nil, apierror.Internal(err, "failed to update account details")
	}
	return user.Public(), nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID int64, localPath string) (*models.PublicUser, error) {
	if localPath == "" {
		return nil, apierror.Validation("avatar file is required")
	}

	avatarURL, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		s.logger.Error("Failed to upload avatar", zap.Error(err))
		return nil, apierror.Internal(err, "failed to upload avatar")
	}

	user, err := s.users.UpdateAvatar(ctx, userID, avatarURL)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to update avatar", zap.Error(err))
		return nil, apierror.Internal(err, "failed to update avatar")
	}
	return user.Public(), nil
}

func (s *userService) UpdateCoverImage(ctx context.Context, userID int64, localPath string) (*models.PublicUser, error) {
	if localPath == "" {
		return nil, apierror.Validation("cover image file is required")
	}

	coverImageURL, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		s.logger.Error("Failed to upload cover image", zap.Error(err))
		return nil, apierror.Internal(err, "failed to upload cover image")
	}

	user, err := s.users.UpdateCoverImage(ctx, userID, coverImageURL)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to update cover image", zap.Error(err))
		return nil, apierror.Internal(err, "failed to update cover image")
	}
	return user.Public(), nil
}

func (s *userService) GetChannelProfile(ctx context.Context, username string, viewerID int64) (*models.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apierror.Validation("username is required")
	}

	profile, err := s.users.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChannelNotFound
		}
		s.logger.Error("Failed to aggregate channel profile", zap.Error(err))
		return nil, apierror.Internal(err, "failed to retrieve channel profile")
	}
	return profile, nil
}
