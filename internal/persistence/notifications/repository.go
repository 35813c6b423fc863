package notifications

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"unifeed/internal/core"
	"unifeed/internal/persistence"
)

type Repository struct {
	Logger   *slog.Logger
	DB       *persistence.DB
	Users    core.UserRepository
	Statuses core.StatusRepository
}

func (r *Repository) Init(_ context.Context) error {
	r.Logger = r.Logger.With("component", "notifications.Repository")
	return nil
}

func (r *Repository) Upsert(ctx context.Context, notifications ...*core.Notification) error {
	rows := lo.FilterMap(notifications, func(n *core.Notification, _ int) (*persistence.NotificationRow, bool) {
		row := persistence.NotificationToRow(n)
		return row, row != nil && row.ID != ""
	})
	if len(rows) == 0 {
		return nil
	}

	return r.DB.Model(&persistence.NotificationRow{}).
		WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

func (r *Repository) Get(ctx context.Context, id string) (*core.Notification, error) {
	var row persistence.NotificationRow
	err := r.DB.Model(&persistence.NotificationRow{}).
		WithContext(ctx).
		First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return persistence.RowToNotification(&row, r.userLookup(ctx), r.statusLookup(ctx)), nil
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]*core.Notification, error) {
	var rows []*persistence.NotificationRow
	err := r.DB.Model(&persistence.NotificationRow{}).
		WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	users := r.userLookup(ctx)
	statuses := r.statusLookup(ctx)
	return lo.Map(rows, func(row *persistence.NotificationRow, _ int) *core.Notification {
		return persistence.RowToNotification(row, users, statuses)
	}), nil
}

func (r *Repository) userLookup(ctx context.Context) core.UserLookup {
	return func(id string) *core.User {
		u, err := r.Users.Get(ctx, id)
		if err != nil {
			r.Logger.Warn("user lookup failed", "id", id, "error", err)
			return nil
		}
		return u
	}
}

func (r *Repository) statusLookup(ctx context.Context) core.StatusLookup {
	return func(id string) *core.Status {
		s, err := r.Statuses.Get(ctx, id)
		if err != nil {
			r.Logger.Warn("status lookup failed", "id", id, "error", err)
			return nil
		}
		return s
	}
}
