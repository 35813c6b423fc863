package config

type Config struct {
	LogLevel    string `flag:"log-level"`
	DatabaseURL string `flag:"database-url"`
	NATSURL     string `flag:"nats-url"`
	NATSInit    bool   `flag:"nats-init"`
	FirehoseURL string `flag:"firehose-url"`
	AppViewURL  string `flag:"appview-url"`
	MetricsAddr string `flag:"metrics-addr"`
}
