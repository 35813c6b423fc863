package persistence

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"

	"unifeed/internal/core"
)

// The entity↔row functions below are pure and never return errors: a
// malformed blob or timestamp degrades that one field to its default, an
// unresolvable reference decodes to nil, and a nil entity encodes to a nil
// row. Decoding resolves references only through the caller-supplied
// lookups; it never recurses into the store on its own.

// UserToRow encodes a canonical User as a cache row.
func UserToRow(u *core.User) *UserRow {
	if u == nil {
		return nil
	}
	return &UserRow{
		ID:             u.ID,
		Acct:           u.Acct,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		Note:           u.Note,
		Avatar:         u.Avatar,
		Header:         u.Header,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		StatusesCount:  u.StatusesCount,
		CreatedAt:      timePtrToText(u.CreatedAt),
		URL:            u.URL,
		Bot:            boolToInt(u.Bot),
		Locked:         boolToInt(u.Locked),
		Platform:       u.Platform,
	}
}

// RowToUser decodes a cache row back into a canonical User.
func RowToUser(r *UserRow) *core.User {
	if r == nil {
		return nil
	}
	return &core.User{
		ID:             r.ID,
		Acct:           r.Acct,
		Username:       r.Username,
		DisplayName:    r.DisplayName,
		Note:           r.Note,
		Avatar:         r.Avatar,
		Header:         r.Header,
		FollowersCount: r.FollowersCount,
		FollowingCount: r.FollowingCount,
		StatusesCount:  r.StatusesCount,
		CreatedAt:      textToTimePtr(r.CreatedAt),
		URL:            r.URL,
		Bot:            r.Bot != 0,
		Locked:         r.Locked != 0,
		Platform:       r.Platform,
	}
}

// StatusToRow encodes a canonical Status as a cache row. Reblog, quote and
// account are stored by id only, bounding row size for long or
// self-referential chains.
func StatusToRow(s *core.Status) *StatusRow {
	if s == nil {
		return nil
	}

	row := &StatusRow{
		ID:              s.ID,
		Content:         s.Content,
		Text:            s.Text,
		CreatedAt:       timeToText(s.CreatedAt),
		FavouritesCount: s.FavouritesCount,
		BoostsCount:     s.BoostsCount,
		RepliesCount:    s.RepliesCount,
		InReplyToID:     s.InReplyToID,
		URL:             s.URL,
		Visibility:      s.Visibility,
		SpoilerText:     s.SpoilerText,
		Pinned:          boolToInt(s.Pinned),
		Platform:        s.Platform,

		MediaAttachmentsBlob: encodeMediaBlob(s.MediaAttachments),
		MentionsBlob:         encodeMentionsBlob(s.Mentions),
		CardBlob:             encodeCardBlob(s.Card),
		PollBlob:             encodePollBlob(s.Poll),

		NotificationID:   s.NotificationID,
		OriginalStatusID: s.OriginalStatusID,
	}

	if s.Account != nil {
		row.AccountID = s.Account.ID
	}
	if s.Reblog != nil {
		row.ReblogID = s.Reblog.ID
	}
	if s.Quote != nil {
		row.QuoteID = s.Quote.ID
	}
	return row
}

// RowToStatus decodes a cache row back into a canonical Status. References
// are resolved through the supplied lookups; a nil lookup or a miss leaves
// the reference nil.
func RowToStatus(r *StatusRow, users core.UserLookup, statuses core.StatusLookup) *core.Status {
	if r == nil {
		return nil
	}

	s := &core.Status{
		ID:              r.ID,
		Content:         r.Content,
		Text:            r.Text,
		CreatedAt:       textToTime(r.CreatedAt),
		FavouritesCount: r.FavouritesCount,
		BoostsCount:     r.BoostsCount,
		RepliesCount:    r.RepliesCount,
		InReplyToID:     r.InReplyToID,
		URL:             r.URL,
		Visibility:      r.Visibility,
		SpoilerText:     r.SpoilerText,
		Pinned:          r.Pinned != 0,
		Platform:        r.Platform,

		MediaAttachments: decodeMediaBlob(r.MediaAttachmentsBlob),
		Mentions:         decodeMentionsBlob(r.MentionsBlob),
		Card:             decodeCardBlob(r.CardBlob),
		Poll:             decodePollBlob(r.PollBlob),

		NotificationID:   r.NotificationID,
		OriginalStatusID: r.OriginalStatusID,
	}

	if r.AccountID != "" && users != nil {
		s.Account = users(r.AccountID)
	}
	if statuses != nil {
		if r.ReblogID != "" {
			s.Reblog = statuses(r.ReblogID)
		}
		if r.QuoteID != "" {
			s.Quote = statuses(r.QuoteID)
		}
	}
	return s
}

// NotificationToRow encodes a canonical Notification as a cache row.
func NotificationToRow(n *core.Notification) *NotificationRow {
	if n == nil {
		return nil
	}

	row := &NotificationRow{
		ID:        n.ID,
		Type:      string(n.Type),
		CreatedAt: timeToText(n.CreatedAt),
		Platform:  n.Platform,
	}
	if n.Account != nil {
		row.AccountID = n.Account.ID
	}
	if n.Status != nil {
		row.StatusID = n.Status.ID
	}
	return row
}

// RowToNotification decodes a cache row back into a canonical Notification.
func RowToNotification(r *NotificationRow, users core.UserLookup, statuses core.StatusLookup) *core.Notification {
	if r == nil {
		return nil
	}

	n := &core.Notification{
		ID:        r.ID,
		Type:      core.NotificationType(r.Type),
		CreatedAt: textToTime(r.CreatedAt),
		Platform:  r.Platform,
	}
	if r.AccountID != "" && users != nil {
		n.Account = users(r.AccountID)
	}
	if r.StatusID != "" && statuses != nil {
		n.Status = statuses(r.StatusID)
	}
	return n
}

// Blob shapes. Only scalar subfields are encoded; anything the flat shape
// cannot hold is dropped rather than failing the encode.

type mediaBlob struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	PreviewURL  string `json:"preview_url"`
	Description string `json:"description"`
}

type mentionBlob struct {
	ID       string `json:"id"`
	Acct     string `json:"acct"`
	Username string `json:"username"`
	URL      string `json:"url"`
}

type cardBlob struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type pollBlob struct {
	ID         string           `json:"id"`
	ExpiresAt  string           `json:"expires_at"`
	Expired    bool             `json:"expired"`
	Multiple   bool             `json:"multiple"`
	VotesCount int64            `json:"votes_count"`
	Options    []pollOptionBlob `json:"options"`
}

type pollOptionBlob struct {
	Title      string `json:"title"`
	VotesCount int64  `json:"votes_count"`
}

func encodeMediaBlob(media []core.Media) string {
	if len(media) == 0 {
		return ""
	}
	return encodeBlob(lo.Map(media, func(m core.Media, _ int) mediaBlob {
		return mediaBlob{
			ID:          m.ID,
			Type:        m.Type,
			URL:         m.URL,
			PreviewURL:  m.PreviewURL,
			Description: m.Description,
		}
	}))
}

func decodeMediaBlob(blob string) []core.Media {
	items := decodeBlob[[]mediaBlob](blob)
	if len(items) == 0 {
		return nil
	}
	return lo.Map(items, func(b mediaBlob, _ int) core.Media {
		return core.Media{
			ID:          b.ID,
			Type:        b.Type,
			URL:         b.URL,
			PreviewURL:  b.PreviewURL,
			Description: b.Description,
		}
	})
}

func encodeMentionsBlob(mentions []core.Mention) string {
	if len(mentions) == 0 {
		return ""
	}
	return encodeBlob(lo.Map(mentions, func(m core.Mention, _ int) mentionBlob {
		return mentionBlob{ID: m.ID, Acct: m.Acct, Username: m.Username, URL: m.URL}
	}))
}

func decodeMentionsBlob(blob string) []core.Mention {
	items := decodeBlob[[]mentionBlob](blob)
	if len(items) == 0 {
		return nil
	}
	return lo.Map(items, func(b mentionBlob, _ int) core.Mention {
		return core.Mention{ID: b.ID, Acct: b.Acct, Username: b.Username, URL: b.URL}
	})
}

func encodeCardBlob(card *core.Card) string {
	if card == nil {
		return ""
	}
	return encodeBlob(cardBlob{
		URL:         card.URL,
		Title:       card.Title,
		Description: card.Description,
		Image:       card.Image,
	})
}

func decodeCardBlob(blob string) *core.Card {
	b := decodeBlob[*cardBlob](blob)
	if b == nil {
		return nil
	}
	return &core.Card{URL: b.URL, Title: b.Title, Description: b.Description, Image: b.Image}
}

func encodePollBlob(poll *core.Poll) string {
	if poll == nil {
		return ""
	}
	return encodeBlob(pollBlob{
		ID:         poll.ID,
		ExpiresAt:  timePtrToText(poll.ExpiresAt),
		Expired:    poll.Expired,
		Multiple:   poll.Multiple,
		VotesCount: poll.VotesCount,
		Options: lo.Map(poll.Options, func(o core.PollOption, _ int) pollOptionBlob {
			return pollOptionBlob{Title: o.Title, VotesCount: o.VotesCount}
		}),
	})
}

func decodePollBlob(blob string) *core.Poll {
	b := decodeBlob[*pollBlob](blob)
	if b == nil {
		return nil
	}
	return &core.Poll{
		ID:         b.ID,
		ExpiresAt:  textToTimePtr(b.ExpiresAt),
		Expired:    b.Expired,
		Multiple:   b.Multiple,
		VotesCount: b.VotesCount,
		Options: lo.Map(b.Options, func(o pollOptionBlob, _ int) core.PollOption {
			return core.PollOption{Title: o.Title, VotesCount: o.VotesCount}
		}),
	}
}

func encodeBlob(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeBlob[T any](blob string) T {
	var v T
	if blob == "" {
		return v
	}
	if err := json.Unmarshal([]byte(blob), &v); err != nil {
		var zero T
		return zero
	}
	return v
}

func timeToText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func timePtrToText(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timeToText(*t)
}

func textToTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func textToTimePtr(s string) *time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
