package atproto

import (
	"strings"

	"unifeed/internal/core"
)

// ToStatus converts a post record to a canonical Status. Three shapes are
// handled uniformly: a feed-item wrapper (inner post plus optional repost
// reason), a post view, and a plain record. A nil post yields nil; malformed
// nested structures degrade to empty fields instead of failing the entity.
func ToStatus(post any) *core.Status {
	return toStatus(post, nil)
}

func toStatus(post, author any) *core.Status {
	if isNil(post) {
		return nil
	}

	inner := Rec(post, "post")
	reason := Rec(post, "reason")
	replyCtx := Rec(post, "reply")

	if reason != nil && isRepostReason(reason) && inner != nil {
		return repostStatus(post, inner, reason)
	}

	// A feed-item wrapper without a repost reason unwraps to its post view.
	if inner != nil {
		post = inner
	}

	record := Rec(post, "record")
	uri := Str(post, "uri", "")

	text := Str(record, "text", "")
	if text == "" {
		text = Str(Rec(post, "value"), "text", "")
	}
	if text == "" {
		text = Str(post, "text", "")
	}

	postAuthor := Rec(post, "author")
	if postAuthor == nil {
		postAuthor = author
	}
	user := ToUser(postAuthor)

	createdAt := Str(record, "created_at", "")
	if createdAt == "" {
		createdAt = Str(Rec(post, "value"), "created_at", "")
	}
	if createdAt == "" {
		createdAt = Str(post, "indexed_at", "")
	}

	inReplyToID := Str(Rec(Rec(record, "reply"), "parent"), "uri", "")

	// The feed-context reply structure carries the parent post with its
	// author; prefer its handle for the reply-prefix heuristic.
	replyToHandle := ""
	if parent := Rec(replyCtx, "parent"); parent != nil {
		replyToHandle = Str(Rec(parent, "author"), "handle", "")
		if inReplyToID == "" {
			inReplyToID = Str(parent, "uri", "")
		}
	}
	text = prefixReply(text, replyToHandle, Str(postAuthor, "handle", ""))

	embed := Rec(post, "embed")

	var mentions []core.Mention
	var links []string
	if facets := List(record, "facets"); facets != nil {
		mentions = extractMentions(facets)
		links = extractLinks(facets)
	}

	url := ""
	handle := Str(postAuthor, "handle", "")
	if rkey := rkeyFromURI(uri); handle != "" && rkey != "" {
		url = postWebURL(handle, rkey)
	}

	return &core.Status{
		ID:      uri,
		Account: user,

		// Bluesky posts are plain text; content and text carry the same value.
		Content: text,
		Text:    text,

		CreatedAt: parseTime(createdAt),

		FavouritesCount: Int64(post, "like_count", 0),
		BoostsCount:     Int64(post, "repost_count", 0),
		RepliesCount:    Int64(post, "reply_count", 0),

		InReplyToID: inReplyToID,

		Quote: extractQuote(embed),

		MediaAttachments: extractMedia(embed),
		Mentions:         mentions,

		URL:  url,
		Card: extractCard(embed),

		Labels: extractLabels(post, record),
		Links:  links,

		Platform: core.PlatformBluesky,
		Raw:      post,
	}
}

// repostStatus synthesizes the Status representing a repost action: the
// account is the reposting user, the reblog is the original post, content
// and text stay empty, and the timestamp is the reason's indexed time.
func repostStatus(post, inner, reason any) *core.Status {
	reposter := ToUser(Rec(reason, "by"))
	if reposter == nil {
		// A repost reason without an actor must not fail the conversion;
		// a marked placeholder keeps the problem visible downstream.
		reposter = placeholderUser(TypeTag(reason))
	}

	return &core.Status{
		ID:        Str(inner, "uri", "") + ":repost",
		Account:   reposter,
		CreatedAt: parseTime(Str(reason, "indexed_at", "")),
		Reblog:    toStatus(inner, nil),
		Platform:  core.PlatformBluesky,
		Raw:       post,
	}
}

func placeholderUser(reasonTag string) *core.User {
	if reasonTag == "" {
		reasonTag = "unknown reason"
	}
	return &core.User{
		ID:          "unknown",
		Acct:        "unknown",
		Username:    "unknown",
		DisplayName: "[no reposter: " + reasonTag + "]",
		Platform:    core.PlatformBluesky,
	}
}

// isRepostReason matches every historical spelling of the repost reason tag
// (reasonRepost, ReasonRepost, app.bsky.feed.defs#reasonRepost).
func isRepostReason(reason any) bool {
	return strings.Contains(strings.ToLower(TypeTag(reason)), "repost")
}

// prefixReply prepends "@handle " to a reply's text when the parent was
// authored by someone else and the text does not already open with that
// mention. Self-replies are thread continuations and stay unprefixed.
func prefixReply(text, replyToHandle, authorHandle string) string {
	if text == "" || replyToHandle == "" {
		return text
	}
	lowerHandle := strings.ToLower(replyToHandle)
	if strings.HasPrefix(strings.ToLower(text), "@"+lowerHandle) {
		return text
	}
	if lowerHandle == strings.ToLower(authorHandle) {
		return text
	}
	return "@" + replyToHandle + " " + text
}

// extractLabels flattens platform labels on the post view and self-labels
// on the record into opaque label values.
func extractLabels(post, record any) []string {
	var labels []string
	for _, label := range List(post, "labels") {
		if val := Str(label, "val", ""); val != "" {
			labels = append(labels, val)
		}
	}
	if selfLabels := Rec(record, "labels"); selfLabels != nil {
		for _, label := range List(selfLabels, "values") {
			if val := Str(label, "val", ""); val != "" {
				labels = append(labels, val)
			}
		}
	}
	return labels
}
