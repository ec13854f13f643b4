package repository

import (
	"context"
	"database/sql"
	"errors"

	"vidstream/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	SetRefreshToken(ctx context.Context, userID int64, token string) error
	RotateRefreshToken(ctx context.Context, userID int64, current, next string) (bool, error)
	ClearRefreshToken(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID int64, coverImageURL string) (*models.User, error)
	GetChannelProfile(ctx context.Context, username string, viewerID int64) (*models.ChannelProfile, error)
}

type userRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewUserRepository(db *sqlx.DB, log *zap.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

const userColumns = `id, username, email, full_name, avatar_url, cover_image_url, password_hash, refresh_token, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (username, email, full_name, avatar_url, cover_image_url, password_hash)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		user.Username, user.Email, user.FullName, user.AvatarURL, user.CoverImageURL, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, mapNoRows(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, mapNoRows(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2 LIMIT 1`
	if err := r.db.GetContext(ctx, &user, query, username, email); err != nil {
		return nil, mapNoRows(err)
	}
	return &user, nil
}

func (r *userRepository) SetRefreshToken(ctx context.Context, userID int64, token string) error {
	query := `UPDATE users SET refresh_token = $1, updated_at = now() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, token, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// RotateRefreshToken swaps the stored refresh token only if the current value
// still matches. The conditional write is what serializes concurrent refresh
// attempts: one of two racing calls sees zero rows affected.
func (r *userRepository) RotateRefreshToken(ctx context.Context, userID int64, current, next string) (bool, error) {
	query := `UPDATE users SET refresh_token = $1, updated_at = now() WHERE id = $2 AND refresh_token = $3`
	res, err := r.db.ExecContext(ctx, query, next, userID, current)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *userRepository) ClearRefreshToken(ctx context.Context, userID int64) error {
	query := `UPDATE users SET refresh_token = NULL, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, passwordHash, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *userRepository) UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*models.User, error) {
	var user models.User
	query := `UPDATE users SET full_name = $1, email = $2, updated_at = now() WHERE id = $3
	          RETURNING ` + userColumns
	err := r.db.QueryRowxContext(ctx, query, fullName, email, userID).StructScan(&user)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &user, nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (*models.User, error) {
	var user models.User
	query := `UPDATE users SET avatar_url = $1, updated_at = now() WHERE id = $2
	          RETURNING ` + userColumns
	if err := r.db.QueryRowxContext(ctx, query, avatarURL, userID).StructScan(&user); err != nil {
		return nil, mapNoRows(err)
	}
	return &user, nil
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, userID int64, coverImageURL string) (*models.User, error) {
	var user models.User
	query := `UPDATE users SET cover_image_url = $1, updated_at = now() WHERE id = $2
	          RETURNING ` + userColumns
	if err := r.db.QueryRowxContext(ctx, query, coverImageURL, userID).StructScan(&user); err != nil {
		return nil, mapNoRows(err)
	}
	return &user, nil
}

// GetChannelProfile aggregates subscriber counts and the viewer's
// subscription flag in a single query.
func (r *userRepository) GetChannelProfile(ctx context.Context, username string, viewerID int64) (*models.ChannelProfile, error) {
	var profile models.ChannelProfile
	query := `SELECT u.id, u.username, u.email, u.full_name, u.avatar_url, u.cover_image_url,
	                 (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id)    AS subscriber_count,
	                 (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to_count,
	                 EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2) AS is_subscribed
	          FROM users u
	          WHERE u.username = $1`
	if err := r.db.GetContext(ctx, &profile, query, username, viewerID); err != nil {
		return nil, mapNoRows(err)
	}
	return &profile, nil
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
