package models

import "time"

type Subscription struct {
	ID           int64     `db:"id"`
	SubscriberID int64     `db:"subscriber_id"`
	ChannelID    int64     `db:"channel_id"`
	CreatedAt    time.Time `db:"created_at"`
}
