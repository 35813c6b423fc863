// Package persistence shapes canonical entities into flat cache rows and
// back. The row format is the contract with the external store: scalar
// columns, JSON text blobs for nested collections, and bare id columns for
// cross-entity references so a reblog or quote chain never recurses into
// the encoder.
package persistence

// UserRow is the flat cache encoding of a core.User.
type UserRow struct {
	ID             string `gorm:"primaryKey"`
	Acct           string
	Username       string
	DisplayName    string
	Note           string
	Avatar         string
	Header         string
	FollowersCount int64
	FollowingCount int64
	StatusesCount  int64
	CreatedAt      string
	URL            string
	Bot            int
	Locked         int
	Platform       string
}

func (UserRow) TableName() string {
	return "users"
}

// StatusRow is the flat cache encoding of a core.Status. Account, reblog and
// quote are stored as bare ids; media, mentions, card and poll are JSON
// blobs of scalar fields only.
type StatusRow struct {
	ID              string `gorm:"primaryKey"`
	AccountID       string
	Content         string
	Text            string
	CreatedAt       string
	FavouritesCount int64
	BoostsCount     int64
	RepliesCount    int64
	InReplyToID     string
	ReblogID        string
	QuoteID         string
	URL             string
	Visibility      string
	SpoilerText     string
	Pinned          int
	Platform        string

	MediaAttachmentsBlob string
	MentionsBlob         string
	CardBlob             string
	PollBlob             string

	// Extension slot columns; empty means the slot is unset.
	NotificationID   string
	OriginalStatusID string
}

func (StatusRow) TableName() string {
	return "statuses"
}

// NotificationRow is the flat cache encoding of a core.Notification.
type NotificationRow struct {
	ID        string `gorm:"primaryKey"`
	Type      string
	AccountID string
	CreatedAt string
	StatusID  string
	Platform  string
}

func (NotificationRow) TableName() string {
	return "notifications"
}
