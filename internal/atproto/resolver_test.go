package atproto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"unifeed/internal/atproto"
)

type profileRecord struct {
	DID         string `json:"did"`
	DisplayName string `json:"displayName"`
	Handle      string
}

func TestField_MapExactName(t *testing.T) {
	t.Parallel()

	v, ok := atproto.Field(map[string]any{"created_at": "x"}, "created_at")
	require.True(t, ok)
	require.Equal(t, "x", v)
}

func TestField_MapAlternateCase(t *testing.T) {
	t.Parallel()

	// Resolving either spelling must yield the same value.
	snake := map[string]any{"created_at": "x"}
	camel := map[string]any{"createdAt": "x"}

	require.Equal(t, "x", atproto.Str(snake, "created_at", ""))
	require.Equal(t, "x", atproto.Str(camel, "created_at", ""))
	require.Equal(t, "x", atproto.Str(snake, "createdAt", ""))
	require.Equal(t, "x", atproto.Str(camel, "createdAt", ""))
}

func TestField_NilRecord(t *testing.T) {
	t.Parallel()

	_, ok := atproto.Field(nil, "anything")
	require.False(t, ok)

	var m map[string]any
	_, ok = atproto.Field(m, "anything")
	require.False(t, ok)

	require.Equal(t, "default", atproto.Str(nil, "name", "default"))
	require.Equal(t, int64(42), atproto.Int64(nil, "count", 42))
}

func TestField_Struct(t *testing.T) {
	t.Parallel()

	rec := profileRecord{DID: "did:plc:abc", DisplayName: "Alice", Handle: "alice.bsky.social"}

	// json tag name.
	require.Equal(t, "did:plc:abc", atproto.Str(rec, "did", ""))
	// snake_case resolves through its camelCase alternate.
	require.Equal(t, "Alice", atproto.Str(rec, "display_name", ""))
	// untagged field exposes the lowered Go name.
	require.Equal(t, "alice.bsky.social", atproto.Str(rec, "handle", ""))
	// pointers dereference.
	require.Equal(t, "Alice", atproto.Str(&rec, "display_name", ""))
}

func TestField_MissingUsesDefault(t *testing.T) {
	t.Parallel()

	rec := map[string]any{"handle": "bob.example.com"}

	require.Equal(t, "fallback", atproto.Str(rec, "display_name", "fallback"))
	require.Equal(t, int64(0), atproto.Int64(rec, "followers_count", 0))
}

func TestInt64_CoercesJSONNumbers(t *testing.T) {
	t.Parallel()

	rec := map[string]any{"like_count": float64(7)}
	require.Equal(t, int64(7), atproto.Int64(rec, "like_count", 0))
}

func TestList(t *testing.T) {
	t.Parallel()

	rec := map[string]any{"images": []any{"a", "b"}}
	require.Len(t, atproto.List(rec, "images"), 2)
	require.Nil(t, atproto.List(rec, "missing"))

	typed := map[string]any{"images": []string{"a"}}
	require.Equal(t, []any{"a"}, atproto.List(typed, "images"))
}

func TestTypeTag(t *testing.T) {
	t.Parallel()

	rec := map[string]any{"$type": "app.bsky.embed.images#view"}
	require.Equal(t, "app.bsky.embed.images#view", atproto.TypeTag(rec))
	require.Equal(t, "", atproto.TypeTag(map[string]any{}))
}
