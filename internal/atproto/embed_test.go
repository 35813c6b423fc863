package atproto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"unifeed/internal/atproto"
)

func viewWithEmbed(embed map[string]any) map[string]any {
	view := postView("alice.bsky.social", "3k1", "look at this")
	view["embed"] = embed
	return view
}

func imagesEmbed() map[string]any {
	return map[string]any{
		"$type": "app.bsky.embed.images#view",
		"images": []any{
			map[string]any{
				"cid":      "img-1",
				"fullsize": "https://cdn.example/full-1.jpg",
				"thumb":    "https://cdn.example/thumb-1.jpg",
				"alt":      "a bird",
			},
			map[string]any{
				"fullsize": "https://cdn.example/full-2.jpg",
			},
		},
	}
}

func quoteEmbed() map[string]any {
	return map[string]any{
		"$type": "app.bsky.embed.record#view",
		"record": map[string]any{
			"uri":    "at://did:plc:bob.bsky.social/app.bsky.feed.post/3k0",
			"author": author("bob.bsky.social"),
			"value": map[string]any{
				"text":      "the quoted post",
				"createdAt": "2024-02-01T08:00:00Z",
			},
		},
	}
}

func TestEmbed_Images(t *testing.T) {
	t.Parallel()

	s := atproto.ToStatus(viewWithEmbed(imagesEmbed()))

	require.Len(t, s.MediaAttachments, 2)
	require.Equal(t, "image", s.MediaAttachments[0].Type)
	require.Equal(t, "img-1", s.MediaAttachments[0].ID)
	require.Equal(t, "https://cdn.example/full-1.jpg", s.MediaAttachments[0].URL)
	require.Equal(t, "https://cdn.example/thumb-1.jpg", s.MediaAttachments[0].PreviewURL)
	require.Equal(t, "a bird", s.MediaAttachments[0].Description)
	// Missing cid falls back to the fullsize URL.
	require.Equal(t, "https://cdn.example/full-2.jpg", s.MediaAttachments[1].ID)

	require.Nil(t, s.Card)
	require.Nil(t, s.Quote)
}

func TestEmbed_Video(t *testing.T) {
	t.Parallel()

	s := atproto.ToStatus(viewWithEmbed(map[string]any{
		"$type":     "app.bsky.embed.video#view",
		"cid":       "vid-1",
		"playlist":  "https://cdn.example/video.m3u8",
		"thumbnail": "https://cdn.example/poster.jpg",
		"alt":       "a flying bird",
	}))

	require.Len(t, s.MediaAttachments, 1)
	require.Equal(t, "video", s.MediaAttachments[0].Type)
	require.Equal(t, "https://cdn.example/video.m3u8", s.MediaAttachments[0].URL)
	require.Equal(t, "https://cdn.example/poster.jpg", s.MediaAttachments[0].PreviewURL)
}

func TestEmbed_External(t *testing.T) {
	t.Parallel()

	s := atproto.ToStatus(viewWithEmbed(map[string]any{
		"$type": "app.bsky.embed.external#view",
		"external": map[string]any{
			"uri":         "https://example.com/article",
			"title":       "An Article",
			"description": "Worth reading",
			"thumb":       "https://example.com/og.jpg",
		},
	}))

	require.NotNil(t, s.Card)
	require.Equal(t, "https://example.com/article", s.Card.URL)
	require.Equal(t, "An Article", s.Card.Title)
	require.Equal(t, "Worth reading", s.Card.Description)
	require.Equal(t, "https://example.com/og.jpg", s.Card.Image)

	require.Nil(t, s.Quote)
	require.Empty(t, s.MediaAttachments)
}

func TestEmbed_RecordIsQuote(t *testing.T) {
	t.Parallel()

	s := atproto.ToStatus(viewWithEmbed(quoteEmbed()))

	require.NotNil(t, s.Quote)
	require.Equal(t, "the quoted post", s.Quote.Text)
	require.Equal(t, "bob.bsky.social", s.Quote.Account.Acct)

	require.Empty(t, s.MediaAttachments)
	require.Nil(t, s.Card)
}

func TestEmbed_RecordWithNestedValueAuthor(t *testing.T) {
	t.Parallel()

	// Second known viewer-record shape: the author sits on the nested value.
	s := atproto.ToStatus(viewWithEmbed(map[string]any{
		"$type": "app.bsky.embed.record#view",
		"record": map[string]any{
			"value": map[string]any{
				"text":      "nested quote",
				"createdAt": "2024-02-01T08:00:00Z",
				"author":    author("carol.bsky.social"),
			},
		},
	}))

	require.NotNil(t, s.Quote)
	require.Equal(t, "nested quote", s.Quote.Text)
	require.Equal(t, "carol.bsky.social", s.Quote.Account.Acct)
}

func TestEmbed_RecordWithMedia(t *testing.T) {
	t.Parallel()

	s := atproto.ToStatus(viewWithEmbed(map[string]any{
		"$type":  "app.bsky.embed.recordWithMedia#view",
		"record": quoteEmbed()["record"],
		"media":  imagesEmbed(),
	}))

	require.NotNil(t, s.Quote)
	require.Len(t, s.MediaAttachments, 2)
}

func TestEmbed_UnknownTagDegrades(t *testing.T) {
	t.Parallel()

	s := atproto.ToStatus(viewWithEmbed(map[string]any{
		"$type": "app.bsky.embed.somethingNew#view",
	}))

	require.Empty(t, s.MediaAttachments)
	require.Nil(t, s.Card)
	require.Nil(t, s.Quote)
}

func TestEmbed_MalformedDegrades(t *testing.T) {
	t.Parallel()

	s := atproto.ToStatus(viewWithEmbed(map[string]any{
		"$type":  "app.bsky.embed.record#view",
		"record": map[string]any{"uri": "at://x"},
	}))

	require.Nil(t, s.Quote)
	require.NotNil(t, s)
}
