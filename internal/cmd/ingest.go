package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"unifeed/internal/appview"
	"unifeed/internal/cmd/flags"
	"unifeed/internal/core"
	"unifeed/internal/ingester"
	"unifeed/internal/metrics"
	"unifeed/internal/nats"
	"unifeed/internal/persistence"
	"unifeed/internal/persistence/statuses"
	"unifeed/internal/persistence/users"
)

var ingestCmd = &cli.Command{
	Name:  "ingest",
	Usage: "Consume buffered firehose events, normalize post records and cache them",
	Flags: []cli.Flag{
		flags.NATSUrl,
		flags.DatabaseURL,
		flags.AppViewURL,
		flags.MetricsAddr,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			pal.Provide(&nats.NATS{}),
			pal.Provide(&persistence.DB{}),
			pal.Provide[core.FeedSource](&appview.Client{}),
			pal.Provide[core.UserRepository](&users.Repository{}),
			pal.Provide[core.StatusRepository](&statuses.Repository{}),
			pal.Provide(&ingester.Ingester{}),
			pal.Provide(&metrics.Server{}),
		)
	},
}
