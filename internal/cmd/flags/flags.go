package flags

import (
	"fmt"
	"slices"

	libnats "github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var LogLevel = &cli.StringFlag{
	Name:    "log-level",
	Aliases: []string{"l"},
	Usage:   "The level of the logs",
	Value:   "info",
	Validator: func(value string) error {
		if !slices.Contains(validLogLevels, value) {
			return fmt.Errorf("invalid log level: %s, allowed values are: %s", value, validLogLevels)
		}
		return nil
	},
	Sources: cli.EnvVars("LOG_LEVEL"),
}

var DatabaseURL = &cli.StringFlag{
	Name:    "database-url",
	Aliases: []string{"d"},
	Usage:   "The postgres DSN of the cache store",
	Sources: cli.EnvVars("DATABASE_URL"),
}

var NATSUrl = &cli.StringFlag{
	Name:    "nats-url",
	Aliases: []string{"n"},
	Usage:   "The URL of the NATS server",
	Value:   libnats.DefaultURL,
	Sources: cli.EnvVars("NATS_URL"),
}

var InitNATS = &cli.BoolFlag{
	Name:    "nats-init",
	Aliases: []string{"i"},
	Usage:   "Initialize the NATS server: create streams, consumers, etc.",
	Value:   false,
	Sources: cli.EnvVars("NATS_INIT"),
}

var FirehoseURL = &cli.StringFlag{
	Name:    "firehose-url",
	Usage:   "The websocket URL of the Bluesky jetstream firehose",
	Sources: cli.EnvVars("FIREHOSE_URL"),
}

var AppViewURL = &cli.StringFlag{
	Name:    "appview-url",
	Usage:   "The base URL of the Bluesky AppView API",
	Sources: cli.EnvVars("APPVIEW_URL"),
}

var MetricsAddr = &cli.StringFlag{
	Name:    "metrics-addr",
	Usage:   "The listen address of the metrics server",
	Value:   ":8080",
	Sources: cli.EnvVars("METRICS_ADDR"),
}
