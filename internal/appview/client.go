// Package appview is a thin client for the public Bluesky AppView. It
// supplies raw heterogeneous records (decoded JSON maps) and leaves all
// shaping to the atproto adapter.
package appview

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"resty.dev/v3"

	"unifeed/internal/config"
)

const (
	defaultBaseURL = "https://public.api.bsky.app"

	getProfiles       = "/xrpc/app.bsky.actor.getProfiles"
	getAuthorFeed     = "/xrpc/app.bsky.feed.getAuthorFeed"
	listNotifications = "/xrpc/app.bsky.notification.listNotifications"
)

var apiLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "unifeed_appview_request_latency",
		Help:    "Histogram of AppView request latency in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	},
	[]string{"method", "path", "status_code"},
)

type Client struct {
	Logger *slog.Logger
	Config *config.Config

	client *resty.Client
}

func (c *Client) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "appview.Client")

	base := c.Config.AppViewURL
	if base == "" {
		base = defaultBaseURL
	}

	c.client = resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         1 * time.Second,
		DialerKeepAlive:       1 * time.Second,
		IdleConnTimeout:       1 * time.Second,
		TLSHandshakeTimeout:   1 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 1 * time.Second,
	}).
		SetBaseURL(base).
		AddResponseMiddleware(metricMiddleware)

	return nil
}

func (c *Client) Shutdown(_ context.Context) error {
	return c.client.Close()
}

// GetProfiles fetches up to 25 profile views.
// https://docs.bsky.app/docs/api/app-bsky-actor-get-profiles
func (c *Client) GetProfiles(ctx context.Context, actors ...string) ([]map[string]any, error) {
	type profiles struct {
		Profiles []map[string]any `json:"profiles"`
	}

	res, err := c.r(ctx).
		SetQueryParamsFromValues(url.Values{
			"actors": actors,
		}).
		SetResult(&profiles{}).
		Get(getProfiles)
	if err != nil {
		return nil, err
	}
	return res.Result().(*profiles).Profiles, nil
}

// GetAuthorFeed fetches an author's feed as raw feed-view records.
// https://docs.bsky.app/docs/api/app-bsky-feed-get-author-feed
func (c *Client) GetAuthorFeed(ctx context.Context, actor string, limit int) ([]map[string]any, error) {
	type feed struct {
		Feed []map[string]any `json:"feed"`
	}

	res, err := c.r(ctx).
		SetQueryParam("actor", actor).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&feed{}).
		Get(getAuthorFeed)
	if err != nil {
		return nil, err
	}
	return res.Result().(*feed).Feed, nil
}

// ListNotifications fetches raw notification records.
// https://docs.bsky.app/docs/api/app-bsky-notification-list-notifications
func (c *Client) ListNotifications(ctx context.Context, limit int) ([]map[string]any, error) {
	type notifications struct {
		Notifications []map[string]any `json:"notifications"`
	}

	res, err := c.r(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&notifications{}).
		Get(listNotifications)
	if err != nil {
		return nil, err
	}
	return res.Result().(*notifications).Notifications, nil
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.client.R().WithContext(ctx)
}

func metricMiddleware(_ *resty.Client, response *resty.Response) error {
	reqURL, err := url.Parse(response.Request.URL)
	if err != nil {
		return err
	}

	apiLatency.WithLabelValues(
		response.Request.Method,
		reqURL.Path,
		fmt.Sprintf("%d", response.StatusCode()),
	).Observe(response.Duration().Seconds())

	return nil
}
