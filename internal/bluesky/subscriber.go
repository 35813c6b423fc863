package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/bluesky-social/jetstream/pkg/models"
	"github.com/gorilla/websocket"
	"github.com/zhulik/pips"

	"unifeed/internal/config"
)

const defaultFirehoseURL = "wss://jetstream2.us-east.bsky.network/subscribe"

// Subscriber streams raw jetstream events from the Bluesky firehose.
type Subscriber struct {
	Logger *slog.Logger
	Config *config.Config
}

func (s *Subscriber) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "bluesky.Subscriber")
	return nil
}

// Consume dials the firehose, optionally resuming from a cursor, and yields
// events until the context is canceled or the connection drops. A dropped
// connection surfaces as an errored item before the channel closes; the
// caller owns reconnect policy.
func (s *Subscriber) Consume(ctx context.Context, cursor *int64) (<-chan pips.D[*models.Event], error) {
	endpoint, err := s.endpoint(cursor)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	ch := make(chan pips.D[*models.Event])

	go func() {
		<-ctx.Done()
		conn.Close() //nolint:errcheck
	}()

	go func() {
		defer close(ch)
		defer conn.Close()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				ch <- pips.ErrD[*models.Event](err)
				return
			}

			event := &models.Event{}
			if err := json.Unmarshal(message, event); err != nil {
				s.Logger.Warn("dropping undecodable event", "error", err)
				continue
			}

			select {
			case ch <- pips.NewD(event):
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func (s *Subscriber) endpoint(cursor *int64) (string, error) {
	raw := s.Config.FirehoseURL
	if raw == "" {
		raw = defaultFirehoseURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid firehose url: %w", err)
	}

	if cursor != nil {
		q := u.Query()
		q.Set("cursor", fmt.Sprintf("%d", *cursor))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
