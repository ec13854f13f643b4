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

type SubscriptionService interface {
	// Toggle subscribes the viewer to the channel, or unsubscribes when a
	// subscription already exists. Reports the resulting state.
	Toggle(ctx context.Context, subscriberID int64, channelUsername string) (bool, error)
	Subscribers(ctx context.Context, channelUsername string) ([]models.PublicUser, error)
	SubscribedChannels(ctx context.Context, subscriberID int64) ([]models.PublicUser, error)
}

type subscriptionService struct {
	users  repository.UserRepository
	subs   repository.SubscriptionRepository
	logger *zap.Logger
}

func NewSubscriptionService(users repository.UserRepository, subs repository.SubscriptionRepository, logger *zap.Logger) SubscriptionService {
	return &subscriptionService{users: users, subs: subs, logger: logger}
}

func (s *subscriptionService) Toggle(ctx context.Context, subscriberID int64, channelUsername string) (bool, error) {
	channel, err := s.channelByUsername(ctx, channelUsername)
	if err != nil {
		return false, err
	}
	if channel.ID == subscriberID {
		return false, apierror.Validation("cannot subscribe to your own channel")
	}

	created, err := s.subs.Subscribe(ctx, subscriberID, channel.ID)
	if err != nil {
		s.logger.Error("Failed to subscribe", zap.Error(err))
		return false, apierror.Internal(err, "failed to update subscription")
	}
	if created {
		return true, nil
	}

	if _, err := s.subs.Unsubscribe(ctx, subscriberID, channel.ID); err != nil {
		s.logger.Error("Failed to unsubscribe", zap.Error(err))
		return false, apierror.Internal(err, "failed to update subscription")
	}
	return false, nil
}

func (s *subscriptionService) Subscribers(ctx context.Context, channelUsername string) ([]models.PublicUser, error) {
	channel, err := s.channelByUsername(ctx, channelUsername)
	if err != nil {
		return nil, err
	}

	subscribers, err := s.subs.ListSubscribers(ctx, channel.ID)
	if err != nil {
		s.logger.Error("Failed to list subscribers", zap.Error(err))
		return nil, apierror.Internal(err, "failed to list subscribers")
	}
	return subscribers, nil
}

func (s *subscriptionService) SubscribedChannels(ctx context.Context, subscriberID int64) ([]models.PublicUser, error) {
	channels, err := s.subs.ListSubscriptions(ctx, subscriberID)
	if err != nil {
		s.logger.Error("Failed to list subscriptions", zap.Error(err))
		return nil, apierror.Internal(err, "failed to list subscriptions")
	}
	return channels, nil
}

func (s *subscriptionService) channelByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apierror.Validation("username is required")
	}

	channel, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChannelNotFound
		}
		s.logger.Error("Failed to get channel", zap.Error(err))
		return nil, apierror.Internal(err, "failed to retrieve channel")
	}
	return channel, nil
}
