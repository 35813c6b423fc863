// Package nats owns the JetStream stream and KV bucket the ingest pipeline
// runs on: the firehose forwarder publishes into the stream, the ingester
// consumes from it, and the KV bucket keeps the firehose cursor.
package nats

import (
	"context"
	"log/slog"
	"time"

	libnats "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"unifeed/internal/config"
)

const (
	appName = "unifeed"

	// EventSubject is where raw firehose events are published.
	EventSubject = appName + ".event"

	// IngesterConsumer is the durable consumer the ingester reads from.
	IngesterConsumer = "ingester"
)

type NATS struct {
	Logger *slog.Logger
	Config *config.Config

	JS jetstream.JetStream
	KV jetstream.KeyValue
}

func (n *NATS) Init(ctx context.Context) error {
	n.Logger = n.Logger.With("component", "nats.NATS")

	nc, err := libnats.Connect(n.Config.NATSURL)
	if err != nil {
		return err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return err
	}
	n.JS = js

	if n.Config.NATSInit {
		if err := n.initNATS(ctx); err != nil {
			return err
		}
	}

	kv, err := js.KeyValue(ctx, appName)
	if err != nil {
		return err
	}
	n.KV = kv

	return nil
}

func (n *NATS) HealthCheck(context.Context) error {
	_, err := n.JS.Conn().RTT()
	return err
}

func (n *NATS) Shutdown(context.Context) error {
	return n.JS.Conn().Drain()
}

// Consumer returns a durable consumer on the event stream.
func (n *NATS) Consumer(ctx context.Context, name string) (jetstream.Consumer, error) {
	return n.JS.Consumer(ctx, appName, name)
}

func (n *NATS) initNATS(ctx context.Context) error {
	n.Logger.Info("Initializing NATS")

	_, err := n.JS.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     appName,
		Subjects: []string{appName + ".*"},
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		return err
	}
	n.Logger.Info("Stream created or updated", "name", appName)

	_, err = n.JS.CreateOrUpdateConsumer(ctx, appName, jetstream.ConsumerConfig{
		Durable:       IngesterConsumer,
		FilterSubject: EventSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return err
	}
	n.Logger.Info("Consumer created or updated", "name", IngesterConsumer)

	_, err = n.JS.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: appName,
	})
	if err != nil {
		return err
	}
	n.Logger.Info("KeyValue created or updated", "name", appName)

	return nil
}
