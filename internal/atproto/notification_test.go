package atproto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"unifeed/internal/atproto"
	"unifeed/internal/core"
)

func notificationRecord(reason string) map[string]any {
	rec := map[string]any{
		"uri":       "at://did:plc:bob.bsky.social/app.bsky.feed.post/3n1",
		"reason":    reason,
		"author":    author("bob.bsky.social"),
		"indexedAt": "2024-05-01T10:00:00Z",
	}
	return rec
}

func TestToNotification_Nil(t *testing.T) {
	t.Parallel()

	require.Nil(t, atproto.ToNotification(nil))
}

func TestToNotification_ReasonMapping(t *testing.T) {
	t.Parallel()

	cases := map[string]core.NotificationType{
		"like":    core.NotificationFavourite,
		"repost":  core.NotificationReblog,
		"follow":  core.NotificationFollow,
		"mention": core.NotificationMention,
		"reply":   core.NotificationMention,
		"quote":   core.NotificationMention,
	}

	for reason, expected := range cases {
		n := atproto.ToNotification(notificationRecord(reason))
		require.NotNil(t, n)
		require.Equal(t, expected, n.Type, "reason %q", reason)
		require.Equal(t, "bob.bsky.social", n.Account.Acct)
		require.Equal(t, core.PlatformBluesky, n.Platform)
	}
}

func TestToNotification_UnknownReasonPassesThrough(t *testing.T) {
	t.Parallel()

	n := atproto.ToNotification(notificationRecord("starterpack-joined"))
	require.Equal(t, core.NotificationType("starterpack-joined"), n.Type)
	require.Nil(t, n.Status)
}

func TestToNotification_MentionCarriesStatus(t *testing.T) {
	t.Parallel()

	rec := notificationRecord("mention")
	rec["record"] = map[string]any{
		"text":      "hey @alice",
		"createdAt": "2024-05-01T09:59:00Z",
	}

	n := atproto.ToNotification(rec)
	require.NotNil(t, n.Status)
	require.Equal(t, "hey @alice", n.Status.Text)
	require.Equal(t, "bob.bsky.social", n.Status.Account.Acct)
	require.Equal(t, n.ID, n.Status.ID)
}

func TestToNotification_LikeHasNoStatus(t *testing.T) {
	t.Parallel()

	rec := notificationRecord("like")
	rec["record"] = map[string]any{"createdAt": "2024-05-01T09:59:00Z"}

	n := atproto.ToNotification(rec)
	require.Nil(t, n.Status)
}
