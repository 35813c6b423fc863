// Package ingester turns buffered firehose commits into canonical entities:
// post records go through the atproto adapter, get their author attached
// from the AppView, and land in the cache as rows.
package ingester

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bluesky-social/jetstream/pkg/models"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zhulik/pips"
	"github.com/zhulik/pips/apply"

	"unifeed/internal/atproto"
	"unifeed/internal/core"
	"unifeed/internal/nats"
)

const postsCollection = "app.bsky.feed.post"

var (
	commitsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unifeed_commits_ingested_total",
		Help: "The total number of ingested firehose commits",
	}, []string{"collection", "operation", "outcome"})
)

type Ingester struct {
	Logger   *slog.Logger
	NATS     *nats.NATS
	AppView  core.FeedSource
	Users    core.UserRepository
	Statuses core.StatusRepository
}

func (i *Ingester) Init(_ context.Context) error {
	i.Logger = i.Logger.With("component", "ingester.Ingester")
	return nil
}

func (i *Ingester) Run(ctx context.Context) error {
	cons, err := i.NATS.Consumer(ctx, nats.IngesterConsumer)
	if err != nil {
		return err
	}

	return pips.New[jetstream.Msg, any]().
		Then(apply.Each(i.process)).
		Then(apply.Each(func(_ context.Context, msg jetstream.Msg) error {
			msg.Ack() //nolint:errcheck
			return nil
		})).
		Run(ctx, consume(ctx, cons)).
		Wait(ctx)
}

func (i *Ingester) process(ctx context.Context, msg jetstream.Msg) error {
	event := &models.Event{}
	if err := json.Unmarshal(msg.Data(), event); err != nil {
		i.Logger.Warn("dropping undecodable message", "error", err)
		return nil
	}

	if event.Commit == nil || event.Commit.Collection != postsCollection {
		return nil
	}

	uri := atproto.PostURI(event.Did, event.Commit.Collection, event.Commit.RKey)

	switch event.Commit.Operation {
	case models.CommitOperationCreate:
		if err := i.ingestPost(ctx, event, uri); err != nil {
			commitsIngested.WithLabelValues(event.Commit.Collection, event.Commit.Operation, "error").Inc()
			return err
		}
	case models.CommitOperationDelete:
		if err := i.Statuses.Delete(ctx, uri); err != nil {
			commitsIngested.WithLabelValues(event.Commit.Collection, event.Commit.Operation, "error").Inc()
			return err
		}
	default:
		commitsIngested.WithLabelValues(event.Commit.Collection, event.Commit.Operation, "skipped").Inc()
		return nil
	}

	commitsIngested.WithLabelValues(event.Commit.Collection, event.Commit.Operation, "ok").Inc()
	return nil
}

// ingestPost wraps the commit's raw record as a post view, converts it, and
// persists the author and status rows. A missing author profile degrades to
// a did-only record; conversion itself never fails.
func (i *Ingester) ingestPost(ctx context.Context, event *models.Event, uri string) error {
	var record map[string]any
	if err := json.Unmarshal(event.Commit.Record, &record); err != nil {
		i.Logger.Warn("dropping undecodable post record", "uri", uri, "error", err)
		return nil
	}

	view := map[string]any{
		"uri":    uri,
		"record": record,
		"author": i.author(ctx, event.Did),
	}

	status := atproto.ToStatus(view)
	if status == nil {
		return nil
	}

	if err := i.Users.Upsert(ctx, status.Account); err != nil {
		return err
	}
	return i.Statuses.Upsert(ctx, status)
}

func (i *Ingester) author(ctx context.Context, did string) map[string]any {
	profiles, err := i.AppView.GetProfiles(ctx, did)
	if err != nil || len(profiles) == 0 {
		if err != nil {
			i.Logger.Warn("profile fetch failed", "did", did, "error", err)
		}
		return map[string]any{"did": did}
	}
	return profiles[0]
}

func consume(ctx context.Context, cons jetstream.Consumer) <-chan pips.D[jetstream.Msg] {
	ch := make(chan pips.D[jetstream.Msg])

	go func() {
		defer close(ch)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			batch, err := cons.Fetch(100)
			if err != nil {
				ch <- pips.ErrD[jetstream.Msg](err)
				return
			}

			for msg := range batch.Messages() {
				select {
				case ch <- pips.NewD(msg):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch
}
