package repository

import (
	"context"

	"vidstream/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type SubscriptionRepository interface {
	Subscribe(ctx context.Context, subscriberID, channelID int64) (bool, error)
	Unsubscribe(ctx context.Context, subscriberID, channelID int64) (bool, error)
	ListSubscribers(ctx context.Context, channelID int64) ([]models.PublicUser, error)
	ListSubscriptions(ctx context.Context, subscriberID int64) ([]models.PublicUser, error)
}

type subscriptionRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewSubscriptionRepository(db *sqlx.DB, log *zap.Logger) SubscriptionRepository {
	return &subscriptionRepository{db: db, log: log}
}

// Subscribe reports false when the subscription already existed.
func (r *subscriptionRepository) Subscribe(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	query := `INSERT INTO subscriptions (subscriber_id, channel_id) VALUES ($1, $2)
	          ON CONFLICT (subscriber_id, channel_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, subscriberID, channelID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Unsubscribe reports false when there was nothing to remove.
func (r *subscriptionRepository) Unsubscribe(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`
	res, err := r.db.ExecContext(ctx, query, subscriberID, channelID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

const publicUserColumns = `u.id, u.username, u.email, u.full_name, u.avatar_url, u.cover_image_url, u.created_at`

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID int64) ([]models.PublicUser, error) {
	users := make([]models.PublicUser, 0)
	query := `SELECT ` + publicUserColumns + `
	          FROM subscriptions s JOIN users u ON u.id = s.subscriber_id
	          WHERE s.channel_id = $1
	          ORDER BY s.created_at DESC`
	if err := r.selectUsers(ctx, &users, query, channelID); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *subscriptionRepository) ListSubscriptions(ctx context.Context, subscriberID int64) ([]models.PublicUser, error) {
	users := make([]models.PublicUser, 0)
	query := `SELECT ` + publicUserColumns + `
	          FROM subscriptions s JOIN users u ON u.id = s.channel_id
	          WHERE s.subscriber_id = $1
	          ORDER BY s.created_at DESC`
	if err := r.selectUsers(ctx, &users, query, subscriberID); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *subscriptionRepository) selectUsers(ctx context.Context, dest *[]models.PublicUser, query string, arg int64) error {
	rows, err := r.db.QueryxContext(ctx, query, arg)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.AvatarURL, &u.CoverImageURL, &u.CreatedAt); err != nil {
			return err
		}
		*dest = append(*dest, *u.Public())
	}
	return rows.Err()
}
