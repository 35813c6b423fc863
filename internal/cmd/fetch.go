package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"unifeed/internal/appview"
	"unifeed/internal/atproto"
	"unifeed/internal/cmd/flags"
	"unifeed/internal/core"
	"unifeed/internal/persistence"
	"unifeed/internal/persistence/notifications"
	"unifeed/internal/persistence/statuses"
	"unifeed/internal/persistence/users"
)

var ErrNoActor = errors.New("no actor given")

var fetchCmd = &cli.Command{
	Name:      "fetch",
	Usage:     "Fetch an author's feed and notifications, normalize and cache them",
	ArgsUsage: "<actor>",
	Flags: []cli.Flag{
		flags.DatabaseURL,
		flags.AppViewURL,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		actor := c.Args().First()
		if actor == "" {
			return ErrNoActor
		}

		return run(ctx, c,
			pal.Provide(&persistence.DB{}),
			pal.Provide[core.FeedSource](&appview.Client{}),
			pal.Provide[core.UserRepository](&users.Repository{}),
			pal.Provide[core.StatusRepository](&statuses.Repository{}),
			pal.Provide[core.NotificationRepository](&notifications.Repository{}),
			pal.Provide(&fetcher{actor: actor}),
		)
	},
}

type fetcher struct {
	Logger        *slog.Logger
	AppView       core.FeedSource
	Users         core.UserRepository
	Statuses      core.StatusRepository
	Notifications core.NotificationRepository

	actor string
}

func (f *fetcher) Init(_ context.Context) error {
	f.Logger = f.Logger.With("component", "cmd.fetcher")
	return nil
}

func (f *fetcher) Run(ctx context.Context) error {
	if err := f.fetchFeed(ctx); err != nil {
		return err
	}
	return f.fetchNotifications(ctx)
}

func (f *fetcher) fetchFeed(ctx context.Context) error {
	items, err := f.AppView.GetAuthorFeed(ctx, f.actor, 50)
	if err != nil {
		return err
	}

	converted := lo.FilterMap(items, func(item map[string]any, _ int) (*core.Status, bool) {
		status := atproto.ToStatus(item)
		return status, status != nil
	})

	accounts := lo.FilterMap(converted, func(s *core.Status, _ int) (*core.User, bool) {
		return s.Account, s.Account != nil
	})
	if err := f.Users.Upsert(ctx, accounts...); err != nil {
		return err
	}
	if err := f.Statuses.Upsert(ctx, converted...); err != nil {
		return err
	}

	f.Logger.Info("cached author feed", "actor", f.actor, "statuses", len(converted))
	return nil
}

func (f *fetcher) fetchNotifications(ctx context.Context) error {
	items, err := f.AppView.ListNotifications(ctx, 50)
	if err != nil {
		return err
	}

	converted := lo.FilterMap(items, func(item map[string]any, _ int) (*core.Notification, bool) {
		n := atproto.ToNotification(item)
		return n, n != nil
	})

	accounts := lo.FilterMap(converted, func(n *core.Notification, _ int) (*core.User, bool) {
		return n.Account, n.Account != nil
	})
	if err := f.Users.Upsert(ctx, accounts...); err != nil {
		return err
	}

	associated := lo.FilterMap(converted, func(n *core.Notification, _ int) (*core.Status, bool) {
		return n.Status, n.Status != nil
	})
	if err := f.Statuses.Upsert(ctx, associated...); err != nil {
		return err
	}
	if err := f.Notifications.Upsert(ctx, converted...); err != nil {
		return err
	}

	f.Logger.Info("cached notifications", "count", len(converted))
	return nil
}
