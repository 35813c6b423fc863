package atproto

import (
	"unifeed/internal/core"
)

// reasonTypes maps AT-Protocol notification reasons to canonical types.
// Replies and quotes land in the mentions timeline, so they map to mention.
var reasonTypes = map[string]core.NotificationType{
	"like":    core.NotificationFavourite,
	"repost":  core.NotificationReblog,
	"follow":  core.NotificationFollow,
	"mention": core.NotificationMention,
	"reply":   core.NotificationMention,
	"quote":   core.NotificationMention,
}

// statusReasons are the reasons whose notification record is itself the
// associated post.
var statusReasons = map[string]bool{
	"mention": true,
	"reply":   true,
	"quote":   true,
}

// ToNotification converts a notification record to a canonical
// Notification. A nil record yields nil. Unknown reasons pass through as-is
// so nothing is silently discarded.
func ToNotification(rec any) *core.Notification {
	if isNil(rec) {
		return nil
	}

	reason := Str(rec, "reason", "unknown")
	kind, ok := reasonTypes[reason]
	if !ok {
		kind = core.NotificationType(reason)
	}

	author := Rec(rec, "author")

	// For mention-like reasons the notification carries the post record
	// directly; the whole notification converts as a post view.
	var status *core.Status
	if statusReasons[reason] && Rec(rec, "record") != nil {
		status = toStatus(rec, author)
	}

	return &core.Notification{
		ID:        Str(rec, "uri", ""),
		Type:      kind,
		Account:   ToUser(author),
		CreatedAt: parseTime(Str(rec, "indexed_at", "")),
		Status:    status,
		Platform:  core.PlatformBluesky,
		Raw:       rec,
	}
}
