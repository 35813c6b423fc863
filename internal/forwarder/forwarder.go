// Package forwarder moves raw firehose events into NATS JetStream so the
// ingester can consume them at its own pace.
package forwarder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/bluesky-social/jetstream/pkg/models"
	libnats "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zhulik/pips"
	"github.com/zhulik/pips/apply"

	"unifeed/internal/core"
	"unifeed/internal/nats"
	"unifeed/pkg/retry"
)

const cursorKey = "cursor"

var (
	eventsForwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unifeed_events_forwarded_total",
		Help: "The total number of firehose events forwarded to NATS",
	}, []string{"kind", "operation"})
)

type Forwarder struct {
	Logger     *slog.Logger
	Subscriber core.FirehoseSubscriber
	NATS       *nats.NATS
}

func (f *Forwarder) Init(_ context.Context) error {
	f.Logger = f.Logger.With("component", "forwarder.Forwarder")
	return nil
}

func (f *Forwarder) Run(ctx context.Context) error {
	return retry.WrapWithRetry(func() error {
		err := f.run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}, func(err error, _ int) bool {
		f.Logger.Error("forwarder failed, retrying", "error", err)
		return ctx.Err() == nil
	}, time.Second)()
}

func (f *Forwarder) run(ctx context.Context) error {
	cursor, err := f.cursor(ctx)
	if err != nil {
		return err
	}

	f.Logger.Info("subscribing to the firehose", "cursor", cursor)
	ch, err := f.Subscriber.Consume(ctx, cursor)
	if err != nil {
		return err
	}

	return pips.New[*models.Event, any]().
		Then(apply.Each(countEvent)).
		Then(apply.Map(f.forward)).
		Run(ctx, ch).
		Wait(ctx)
}

func (f *Forwarder) forward(ctx context.Context, event *models.Event) (any, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	msg := &libnats.Msg{
		Subject: nats.EventSubject,
		Data:    payload,
		Header: libnats.Header{
			libnats.MsgIdHdr: []string{messageID(event)},
		},
	}
	if _, err := f.NATS.JS.PublishMsg(ctx, msg); err != nil {
		return nil, err
	}

	_, err = f.NATS.KV.Put(ctx, cursorKey, []byte(fmt.Sprintf("%d", event.TimeUS)))
	return nil, err
}

func (f *Forwarder) cursor(ctx context.Context) (*int64, error) {
	entry, err := f.NATS.KV.Get(ctx, cursorKey)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	parsed, err := strconv.ParseInt(string(entry.Value()), 10, 64)
	if err != nil {
		return nil, nil
	}
	return &parsed, nil
}

func countEvent(_ context.Context, event *models.Event) error {
	operation := ""
	if event.Kind == models.EventKindCommit && event.Commit != nil {
		operation = event.Commit.Operation
	}
	eventsForwarded.WithLabelValues(event.Kind, operation).Inc()
	return nil
}

func messageID(event *models.Event) string {
	return fmt.Sprintf("%s-%d", event.Did, event.TimeUS)
}
