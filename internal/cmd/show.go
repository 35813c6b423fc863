package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"unifeed/internal/cmd/flags"
	"unifeed/internal/core"
	"unifeed/internal/persistence"
	"unifeed/internal/persistence/statuses"
	"unifeed/internal/persistence/users"
)

var ErrNoStatusID = errors.New("no status id given")

var showCmd = &cli.Command{
	Name:      "show",
	Usage:     "Dump a cached status with its resolved references",
	ArgsUsage: "<status-id>",
	Flags: []cli.Flag{
		flags.DatabaseURL,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		id := c.Args().First()
		if id == "" {
			return ErrNoStatusID
		}

		return run(ctx, c,
			pal.Provide(&persistence.DB{}),
			pal.Provide[core.UserRepository](&users.Repository{}),
			pal.Provide[core.StatusRepository](&statuses.Repository{}),
			pal.Provide(&shower{id: id}),
		)
	},
}

type shower struct {
	Logger   *slog.Logger
	Statuses core.StatusRepository

	id string
}

func (s *shower) Run(ctx context.Context) error {
	status, err := s.Statuses.Get(ctx, s.id)
	if err != nil {
		return err
	}
	if status == nil {
		s.Logger.Warn("status not cached", "id", s.id)
		return nil
	}

	pp.Println(status)
	return nil
}
