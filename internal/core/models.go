package core

import "time"

// Platform tags carried by every canonical entity. Only PlatformBluesky is
// produced by this module; the Mastodon adapter lives with its client.
const (
	PlatformBluesky  = "bluesky"
	PlatformMastodon = "mastodon"
)

// User is the canonical account representation shared by all platforms.
// IDs are unique only within one platform's namespace.
type User struct {
	ID          string
	Acct        string
	Username    string
	DisplayName string
	Note        string
	Avatar      string
	Header      string

	FollowersCount int64
	FollowingCount int64
	StatusesCount  int64

	CreatedAt *time.Time
	URL       string

	Bot    bool
	Locked bool

	Platform string

	// Raw keeps the original platform record for features the canonical
	// model does not abstract. Never serialized.
	Raw any
}

// Status is the canonical post representation. A repost carries empty
// Content/Text and a non-nil Reblog; everything else has Reblog == nil.
type Status struct {
	ID      string
	Account *User

	Content string
	Text    string

	CreatedAt time.Time

	FavouritesCount int64
	BoostsCount     int64
	RepliesCount    int64

	InReplyToID string

	Reblog *Status
	Quote  *Status

	MediaAttachments []Media
	Mentions         []Mention

	URL         string
	Visibility  string
	SpoilerText string

	Card *Card
	Poll *Poll

	Pinned bool

	Platform string

	// Labels are platform moderation labels passed through as opaque values.
	Labels []string
	// Links are URLs extracted from rich-text facets, deduplicated.
	Links []string

	// Opaque extension slots for mentions-timeline bookkeeping. Set by
	// callers, round-tripped by the cache serializer.
	NotificationID   string
	OriginalStatusID string

	Raw any
}

// Media is a single attachment on a Status.
type Media struct {
	ID          string
	Type        string
	URL         string
	PreviewURL  string
	Description string
}

// Mention is a reference to another account inside a Status.
type Mention struct {
	ID       string
	Acct     string
	Username string
	URL      string
}

// Card is a link preview attached to a Status.
type Card struct {
	URL         string
	Title       string
	Description string
	Image       string
}

// Poll is an optional poll attached to a Status. Bluesky has no polls; the
// type exists for the Mastodon side of the canonical model.
type Poll struct {
	ID         string
	ExpiresAt  *time.Time
	Expired    bool
	Multiple   bool
	VotesCount int64
	Options    []PollOption
}

type PollOption struct {
	Title      string
	VotesCount int64
}

// NotificationType is the canonical notification kind.
type NotificationType string

const (
	NotificationFavourite NotificationType = "favourite"
	NotificationReblog    NotificationType = "reblog"
	NotificationFollow    NotificationType = "follow"
	NotificationMention   NotificationType = "mention"
)

// Notification is the canonical notification representation. Account is the
// actor; Status is the associated post when the kind implies one.
type Notification struct {
	ID        string
	Type      NotificationType
	Account   *User
	CreatedAt time.Time
	Status    *Status
	Platform  string

	Raw any
}
