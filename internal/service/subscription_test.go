package service

import (
	"context"
	"testing"
	"time"

	"vidstream/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSubscriptionRepo struct {
	pairs map[[2]int64]bool
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{pairs: make(map[[2]int64]bool)}
}

func (f *fakeSubscriptionRepo) Subscribe(_ context.Context, subscriberID, channelID int64) (bool, error) {
	key := [2]int64{subscriberID, channelID}
	if f.pairs[key] {
		return false, nil
	}
	f.pairs[key] = true
	return true, nil
}

func (f *fakeSubscriptionRepo) Unsubscribe(_ context.Context, subscriberID, channelID int64) (bool, error) {
	key := [2]int64{subscriberID, channelID}
	if !f.pairs[key] {
		return false, nil
	}
	delete(f.pairs, key)
	return true, nil
}

func (f *fakeSubscriptionRepo) ListSubscribers(context.Context, int64) ([]models.PublicUser, error) {
	return []models.PublicUser{}, nil
}

func (f *fakeSubscriptionRepo) ListSubscriptions(context.Context, int64) ([]models.PublicUser, error) {
	return []models.PublicUser{}, nil
}

func newSubscriptionFixture(t *testing.T) (SubscriptionService, AuthService) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := NewTokenService("a", "r", time.Minute, time.Hour)
	auth := NewAuthService(users, tokens, &fakeUploader{}, zap.NewNop())
	subs := NewSubscriptionService(users, newFakeSubscriptionRepo(), zap.NewNop())
	return subs, auth
}

func registerUser(t *testing.T, auth AuthService, username string) *models.PublicUser {
	t.Helper()
	user, err := auth.Register(context.Background(), RegisterInput{
		FullName:   username,
		Username:   username,
		Email:      username + "@example.com",
		Password:   "pw",
		AvatarPath: "avatar.png",
	})
	require.NoError(t, err)
	return user
}

func TestToggle_SubscribeThenUnsubscribe(t *testing.T) {
	subs, auth := newSubscriptionFixture(t)
	viewer := registerUser(t, auth, "alice")
	registerUser(t, auth, "bob")

	subscribed, err := subs.Toggle(context.Background(), viewer.ID, "bob")
	require.NoError(t, err)
	assert.True(t, subscribed)

	subscribed, err = subs.Toggle(context.Background(), viewer.ID, "bob")
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestToggle_OwnChannelRejected(t *testing.T) {
	subs, auth := newSubscriptionFixture(t)
	viewer := registerUser(t, auth, "alice")

	_, err := subs.Toggle(context.Background(), viewer.ID, "alice")
	assert.Error(t, err)
}

func TestToggle_UnknownChannel(t *testing.T) {
	subs, auth := newSubscriptionFixture(t)
	viewer := registerUser(t, auth, "alice")

	_, err := subs.Toggle(context.Background(), viewer.ID, "ghost")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}
