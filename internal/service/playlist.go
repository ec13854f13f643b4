package service

import (
	"context"
	"errors"
	"strings"

	"vidstream/internal/apierror"
	"vidstream/internal/models"
	"vidstream/internal/repository"

	"go.uber.org/zap"
)

var ErrPlaylistNotFound = apierror.NotFound("playlist not found")

type PlaylistService interface {
	Create(ctx context.Context, ownerID int64, name, description string) (*models.Playlist, error)
	GetByID(ctx context.Context, id int64) (*models.Playlist, error)
	ListOwn(ctx context.Context, ownerID int64) ([]models.Playlist, error)
	Update(ctx context.Context, id, ownerID int64, name, description string) (*models.Playlist, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

type playlistService struct {
	playlists repository.PlaylistRepository
	logger    *zap.Logger
}

func NewPlaylistService(playlists repository.PlaylistRepository, logger *zap.Logger) PlaylistService {
	return &playlistService{playlists: playlists, logger: logger}
}

func (s *playlistService) Create(ctx context.Context, ownerID int64, name, description string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, apierror.Validation("name and description are required")
	}

	playlist := &models.Playlist{Name: name, Description: description, OwnerID: ownerID}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		s.logger.Error("Failed to create playlist", zap.Error(err))
		return nil, apierror.Internal(err, "failed to create playlist")
	}
	return playlist, nil
}

func (s *playlistService) GetByID(ctx context.Context, id int64) (*models.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlaylistNotFound
		}
		s.logger.Error("Failed to get playlist", zap.Error(err))
		return nil, apierror.Internal(err, "failed to retrieve playlist")
	}
	return playlist, nil
}

func (s *playlistService) ListOwn(ctx context.Context, ownerID int64) ([]models.Playlist, error) {
	playlists, err := s.playlists.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to list playlists", zap.Error(err))
		return nil, apierror.Internal(err, "failed to list playlists")
	}
	return playlists, nil
}

func (s *playlistService) Update(ctx context.Context, id, ownerID int64, name, description string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, apierror.Validation("name and description are required")
	}

	playlist, err := s.playlists.Update(ctx, id, ownerID, name, description)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlaylistNotFound
		}
		s.logger.Error("Failed to update playlist", zap.Error(err))
		return nil, apierror.Internal(err, "failed to update playlist")
	}
	return playlist, nil
}

func (s *playlistService) Delete(ctx context.Context, id, ownerID int64) error {
	if err := s.playlists.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlaylistNotFound
		}
		s.logger.Error("Failed to delete playlist", zap.Error(err))
		return apierror.Internal(err, "failed to delete playlist")
	}
	return nil
}
