package atproto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"unifeed/internal/atproto"
	"unifeed/internal/core"
)

func author(handle string) map[string]any {
	return map[string]any{
		"did":    "did:plc:" + handle,
		"handle": handle,
	}
}

func postView(handle, rkey, text string) map[string]any {
	return map[string]any{
		"uri":    "at://did:plc:" + handle + "/app.bsky.feed.post/" + rkey,
		"cid":    "cid-" + rkey,
		"author": author(handle),
		"record": map[string]any{
			"text":      text,
			"createdAt": "2024-03-01T12:00:00Z",
		},
		"likeCount":   float64(3),
		"repostCount": float64(2),
		"replyCount":  float64(1),
	}
}

func TestToStatus_Nil(t *testing.T) {
	t.Parallel()

	require.Nil(t, atproto.ToStatus(nil))
}

func TestToStatus_PostView(t *testing.T) {
	t.Parallel()

	s := atproto.ToStatus(postView("alice.bsky.social", "3k1", "hello world"))
	require.NotNil(t, s)

	require.Equal(t, "at://did:plc:alice.bsky.social/app.bsky.feed.post/3k1", s.ID)
	require.Equal(t, "hello world", s.Text)
	require.Equal(t, s.Text, s.Content)
	require.Equal(t, int64(3), s.FavouritesCount)
	require.Equal(t, int64(2), s.BoostsCount)
	require.Equal(t, int64(1), s.RepliesCount)
	require.Equal(t, "https://bsky.app/profile/alice.bsky.social/post/3k1", s.URL)
	require.Equal(t, core.PlatformBluesky, s.Platform)
	require.Nil(t, s.Reblog)
	require.Nil(t, s.Quote)

	require.NotNil(t, s.Account)
	require.Equal(t, "alice.bsky.social", s.Account.Acct)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, created, s.CreatedAt)
}

func TestToStatus_PlainRecord(t *testing.T) {
	t.Parallel()

	s := atproto.ToStatus(map[string]any{
		"text":      "raw record text",
		"createdAt": "2024-03-01T12:00:00Z",
	})
	require.NotNil(t, s)
	require.Equal(t, "raw record text", s.Text)
	require.Nil(t, s.Account)
	require.Empty(t, s.URL)
}

func TestToStatus_FeedWrapperWithoutReasonUnwraps(t *testing.T) {
	t.Parallel()

	s := atproto.ToStatus(map[string]any{
		"post": postView("alice.bsky.social", "3k1", "inner text"),
	})
	require.Equal(t, "inner text", s.Text)
	require.Equal(t, "at://did:plc:alice.bsky.social/app.bsky.feed.post/3k1", s.ID)
}

func TestToStatus_Repost(t *testing.T) {
	t.Parallel()

	item := map[string]any{
		"post": postView("alice.bsky.social", "3k1", "original post"),
		"reason": map[string]any{
			"$type":     "app.bsky.feed.defs#reasonRepost",
			"by":        author("bob.bsky.social"),
			"indexedAt": "2024-04-02T09:30:00Z",
		},
	}

	s := atproto.ToStatus(item)
	require.NotNil(t, s)

	require.Equal(t, "at://did:plc:alice.bsky.social/app.bsky.feed.post/3k1:repost", s.ID)
	require.Empty(t, s.Content)
	require.Empty(t, s.Text)
	require.Equal(t, "bob.bsky.social", s.Account.Acct)
	require.Equal(t, time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC), s.CreatedAt)

	require.NotNil(t, s.Reblog)
	require.Equal(t, "original post", s.Reblog.Text)
	require.Equal(t, "alice.bsky.social", s.Reblog.Account.Acct)
}

func TestToStatus_RepostTagSpellings(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"reasonRepost", "ReasonRepost", "app.bsky.feed.defs#reasonRepost"} {
		s := atproto.ToStatus(map[string]any{
			"post": postView("alice.bsky.social", "3k1", "x"),
			"reason": map[string]any{
				"$type":     tag,
				"by":        author("bob.bsky.social"),
				"indexedAt": "2024-04-02T09:30:00Z",
			},
		})
		require.NotNil(t, s.Reblog, "tag %q not detected as repost", tag)
	}
}

func TestToStatus_RepostWithoutActorGetsPlaceholder(t *testing.T) {
	t.Parallel()

	s := atproto.ToStatus(map[string]any{
		"post": postView("alice.bsky.social", "3k1", "x"),
		"reason": map[string]any{
			"$type":     "app.bsky.feed.defs#reasonRepost",
			"indexedAt": "2024-04-02T09:30:00Z",
		},
	})

	require.NotNil(t, s)
	require.NotNil(t, s.Reblog)
	require.NotNil(t, s.Account)
	require.Equal(t, "unknown", s.Account.ID)
	require.Contains(t, s.Account.DisplayName, "reasonRepost")
}

func TestToStatus_ReplyToOtherGetsPrefix(t *testing.T) {
	t.Parallel()

	item := map[string]any{
		"post": postView("alice.bsky.social", "3k1", "I agree"),
		"reply": map[string]any{
			"parent": map[string]any{
				"uri":    "at://did:plc:bob.bsky.social/app.bsky.feed.post/3k0",
				"author": author("bob.bsky.social"),
			},
		},
	}

	s := atproto.ToStatus(item)
	require.Equal(t, "@bob.bsky.social I agree", s.Text)
	require.Equal(t, "at://did:plc:bob.bsky.social/app.bsky.feed.post/3k0", s.InReplyToID)
}

func TestToStatus_SelfReplyNotPrefixed(t *testing.T) {
	t.Parallel()

	item := map[string]any{
		"post": postView("alice.bsky.social", "3k2", "and another thing"),
		"reply": map[string]any{
			"parent": map[string]any{
				"uri":    "at://did:plc:alice.bsky.social/app.bsky.feed.post/3k1",
				"author": author("alice.bsky.social"),
			},
		},
	}

	s := atproto.ToStatus(item)
	require.Equal(t, "and another thing", s.Text)
}

func TestToStatus_AlreadyPrefixedReplyNotDoubled(t *testing.T) {
	t.Parallel()

	item := map[string]any{
		"post": postView("alice.bsky.social", "3k1", "@bob.bsky.social I agree"),
		"reply": map[string]any{
			"parent": map[string]any{
				"uri":    "at://did:plc:bob.bsky.social/app.bsky.feed.post/3k0",
				"author": author("bob.bsky.social"),
			},
		},
	}

	s := atproto.ToStatus(item)
	require.Equal(t, "@bob.bsky.social I agree", s.Text)
}

func TestToStatus_RecordReplyParent(t *testing.T) {
	t.Parallel()

	view := postView("alice.bsky.social", "3k1", "reply text")
	view["record"].(map[string]any)["reply"] = map[string]any{
		"parent": map[string]any{"uri": "at://did:plc:x/app.bsky.feed.post/parent"},
	}

	s := atproto.ToStatus(view)
	require.Equal(t, "at://did:plc:x/app.bsky.feed.post/parent", s.InReplyToID)
	// No feed-context parent author means no prefixing.
	require.Equal(t, "reply text", s.Text)
}

func TestToStatus_TextFallsBackToValue(t *testing.T) {
	t.Parallel()

	s := atproto.ToStatus(map[string]any{
		"uri":    "at://did:plc:x/app.bsky.feed.post/3k9",
		"author": author("alice.bsky.social"),
		"value": map[string]any{
			"text":      "viewer record text",
			"createdAt": "2024-03-01T12:00:00Z",
		},
	})
	require.Equal(t, "viewer record text", s.Text)
	require.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), s.CreatedAt)
}

func TestToStatus_UnparsableTimeDegradesToNow(t *testing.T) {
	t.Parallel()

	before := time.Now().UTC()
	s := atproto.ToStatus(map[string]any{
		"text":      "x",
		"createdAt": "not a timestamp",
	})
	after := time.Now().UTC()

	require.False(t, s.CreatedAt.Before(before))
	require.False(t, s.CreatedAt.After(after))
}

func TestToStatus_Labels(t *testing.T) {
	t.Parallel()

	view := postView("alice.bsky.social", "3k1", "spicy")
	view["labels"] = []any{map[string]any{"val": "porn"}}
	view["record"].(map[string]any)["labels"] = map[string]any{
		"values": []any{map[string]any{"val": "graphic-media"}},
	}

	s := atproto.ToStatus(view)
	require.Equal(t, []string{"porn", "graphic-media"}, s.Labels)
}
