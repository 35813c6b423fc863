package users

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
}

func (r *Repository) Init(_ context.Context) error {
	r.Logger = r.Logger.With("component", "users.Repository")
	return nil
}

func (r *Repository) Upsert(ctx context.Context, users ...*core.User) error {
	rows := lo.FilterMap(users, func(u *core.User, _ int) (*persistence.UserRow, bool) {
		row := persistence.UserToRow(u)
		return row, row != nil && row.ID != ""
	})
	if len(rows) == 0 {
		return nil
	}

	return r.DB.Model(&persistence.UserRow{}).
		WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

func (r *Repository) Get(ctx context.Context, id string) (*core.User, error) {
	var row persistence.UserRow
	err := r.DB.Model(&persistence.UserRow{}).
		WithContext(ctx).
		First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return persistence.RowToUser(&row), nil
}
