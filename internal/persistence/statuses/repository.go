package statuses

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
	Logger *slog.Logger
	DB     *persistence.DB
	Users  core.UserRepository
}

func (r *Repository) Init(_ context.Context) error {
	r.Logger = r.Logger.With("component", "statuses.Repository")
	return nil
}

// Upsert stores statuses together with their embedded reblog and quote, one
// level deep. The rows reference each other by id only; the serializer never
// expands references on write.
func (r *Repository) Upsert(ctx context.Context, statuses ...*core.Status) error {
	var rows []*persistence.StatusRow
	for _, s := range statuses {
		for _, embedded := range []*core.Status{s, deref(s).Reblog, deref(s).Quote} {
			if row := persistence.StatusToRow(embedded); row != nil && row.ID != "" {
				rows = append(rows, row)
			}
		}
	}
	if len(rows) == 0 {
		return nil
	}

	return r.DB.Model(&persistence.StatusRow{}).
		WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

// Get decodes a cached status, resolving the account and one level of
// reblog/quote references. Deeper chains stay id-only; callers wanting more
// depth follow InReplyToID or re-fetch by id.
func (r *Repository) Get(ctx context.Context, id string) (*core.Status, error) {
	row, err := r.row(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	return persistence.RowToStatus(row, r.userLookup(ctx), r.shallowLookup(ctx)), nil
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]*core.Status, error) {
	var rows []*persistence.StatusRow
	err := r.DB.Model(&persistence.StatusRow{}).
		WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	users := r.userLookup(ctx)
	shallow := r.shallowLookup(ctx)
	return lo.Map(rows, func(row *persistence.StatusRow, _ int) *core.Status {
		return persistence.RowToStatus(row, users, shallow)
	}), nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.DB.Model(&persistence.StatusRow{}).
		WithContext(ctx).
		Delete(&persistence.StatusRow{}, "id = ?", id).Error
}

func (r *Repository) row(ctx context.Context, id string) (*persistence.StatusRow, error) {
	var row persistence.StatusRow
	err := r.DB.Model(&persistence.StatusRow{}).
		WithContext(ctx).
		First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
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

// shallowLookup resolves a referenced status without following its own
// references, bounding recursion to one level.
func (r *Repository) shallowLookup(ctx context.Context) core.StatusLookup {
	return func(id string) *core.Status {
		row, err := r.row(ctx, id)
		if err != nil {
			r.Logger.Warn("status lookup failed", "id", id, "error", err)
			return nil
		}
		return persistence.RowToStatus(row, r.userLookup(ctx), nil)
	}
}

func deref(s *core.Status) *core.Status {
	if s == nil {
		return &core.Status{}
	}
	return s
}
