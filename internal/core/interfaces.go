package core

import (
	"context"

	"github.com/bluesky-social/jetstream/pkg/models"
	"github.com/zhulik/pips"
)

// UserLookup resolves a user id to a cached User. A nil result means the id
// could not be resolved; the caller degrades the reference to nil.
type UserLookup func(id string) *User

// StatusLookup resolves a status id to a cached Status.
type StatusLookup func(id string) *Status

// FirehoseSubscriber streams raw jetstream events.
type FirehoseSubscriber interface {
	Consume(ctx context.Context, cursor *int64) (<-chan pips.D[*models.Event], error)
}

// FeedSource supplies raw heterogeneous platform records. It never shapes
// them; that is the adapter's job.
type FeedSource interface {
	GetProfiles(ctx context.Context, actors ...string) ([]map[string]any, error)
	GetAuthorFeed(ctx context.Context, actor string, limit int) ([]map[string]any, error)
	ListNotifications(ctx context.Context, limit int) ([]map[string]any, error)
}

type UserRepository interface {
	Upsert(ctx context.Context, users ...*User) error
	Get(ctx context.Context, id string) (*User, error)
}

type StatusRepository interface {
	Upsert(ctx context.Context, statuses ...*Status) error
	Get(ctx context.Context, id string) (*Status, error)
	Recent(ctx context.Context, limit int) ([]*Status, error)
	Delete(ctx context.Context, id string) error
}

type NotificationRepository interface {
	Upsert(ctx context.Context, notifications ...*Notification) error
	Get(ctx context.Context, id string) (*Notification, error)
	Recent(ctx context.Context, limit int) ([]*Notification, error)
}
