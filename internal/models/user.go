package models

import (
	"database/sql"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID            int64          `db:"id"`
	Username      string         `db:"username"`
	Email         string         `db:"email"`
	FullName      string         `db:"full_name"`
	AvatarURL     string         `db:"avatar_url"`
	CoverImageURL string         `db:"cover_image_url"`
	PasswordHash  string         `db:"password_hash"`
	RefreshToken  sql.NullString `db:"refresh_token"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// PublicUser is the user view returned to clients. It never carries the
// password hash or the stored refresh token.
type PublicUser struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Public strips the credential fields from a stored user record.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
	}
}

// AccessClaims defines the structure of the access token JWT claims.
type AccessClaims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// RefreshClaims defines the structure of the refresh token JWT claims.
// Refresh tokens identify the user and carry nothing else.
type RefreshClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// ChannelProfile is the aggregated public view of a user's channel.
type ChannelProfile struct {
	ID                int64  `json:"id" db:"id"`
	Username          string `json:"username" db:"username"`
	Email             string `json:"email" db:"email"`
	FullName          string `json:"fullName" db:"full_name"`
	AvatarURL         string `json:"avatar" db:"avatar_url"`
	CoverImageURL     string `json:"coverImage,omitempty" db:"cover_image_url"`
	SubscriberCount   int64  `json:"subscriberCount" db:"subscriber_count"`
	SubscribedToCount int64  `json:"subscribedToCount" db:"subscribed_to_count"`
	IsSubscribed      bool   `json:"isSubscribed" db:"is_subscribed"`
}
