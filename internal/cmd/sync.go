package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"unifeed/internal/bluesky"
	"unifeed/internal/cmd/flags"
	"unifeed/internal/core"
	"unifeed/internal/forwarder"
	"unifeed/internal/metrics"
	"unifeed/internal/nats"
)

var syncCmd = &cli.Command{
	Name:  "sync",
	Usage: "Subscribe to the Bluesky firehose, forward raw events to NATS JetStream",
	Flags: []cli.Flag{
		flags.NATSUrl,
		flags.InitNATS,
		flags.FirehoseURL,
		flags.MetricsAddr,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			pal.Provide(&nats.NATS{}),
			pal.Provide[core.FirehoseSubscriber](&bluesky.Subscriber{}),
			pal.Provide(&forwarder.Forwarder{}),
			pal.Provide(&metrics.Server{}),
		)
	},
}
