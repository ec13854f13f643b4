package repository

import (
	"context"

	"vidstream/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id int64) (*models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Playlist, error)
	Update(ctx context.Context, id, ownerID int64, name, description string) (*models.Playlist, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

type playlistRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewPlaylistRepository(db *sqlx.DB, log *zap.Logger) PlaylistRepository {
	return &playlistRepository{db: db, log: log}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	query := `INSERT INTO playlists (name, description, owner_id) VALUES ($1, $2, $3)
	          RETURNING id, created_at, updated_at`
	return r.db.QueryRowxContext(ctx, query, playlist.Name, playlist.Description, playlist.OwnerID).
		Scan(&playlist.ID, &playlist.CreatedAt, &playlist.UpdatedAt)
}

func (r *playlistRepository) GetByID(ctx context.Context, id int64) (*models.Playlist, error) {
	var playlist models.Playlist
	query := `SELECT id, name, description, owner_id, created_at, updated_at FROM playlists WHERE id = $1`
	if err := r.db.GetContext(ctx, &playlist, query, id); err != nil {
		return nil, mapNoRows(err)
	}
	return &playlist, nil
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Playlist, error) {
	playlists := make([]models.Playlist, 0)
	query := `SELECT id, name, description, owner_id, created_at, updated_at FROM playlists
	          WHERE owner_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &playlists, query, ownerID); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (r *playlistRepository) Update(ctx context.Context, id, ownerID int64, name, description string) (*models.Playlist, error) {
	var playlist models.Playlist
	query := `UPDATE playlists SET name = $1, description = $2, updated_at = now()
	          WHERE id = $3 AND owner_id = $4
	          RETURNING id, name, description, owner_id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query, name, description, id, ownerID).StructScan(&playlist); err != nil {
		return nil, mapNoRows(err)
	}
	return &playlist, nil
}

func (r *playlistRepository) Delete(ctx context.Context, id, ownerID int64) error {
	query := `DELETE FROM playlists WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
