package atproto

import (
	"strings"

	"unifeed/internal/core"
)

// ToUser converts a profile record (ProfileView, ProfileViewBasic or
// ProfileViewDetailed shaped) to a canonical User. A nil profile yields nil.
// Counters are absent on lightweight views and default to 0; the canonical
// counters are non-nullable.
func ToUser(profile any) *core.User {
	if isNil(profile) {
		return nil
	}

	handle := Str(profile, "handle", "")
	display := Str(profile, "display_name", "")
	if display == "" {
		display = handle
	}

	return &core.User{
		ID:          Str(profile, "did", ""),
		Acct:        handle,
		Username:    usernameFromHandle(handle),
		DisplayName: display,
		Note:        Str(profile, "description", ""),
		Avatar:      Str(profile, "avatar", ""),
		Header:      Str(profile, "banner", ""),

		FollowersCount: Int64(profile, "followers_count", 0),
		FollowingCount: Int64(profile, "follows_count", 0),
		StatusesCount:  Int64(profile, "posts_count", 0),

		CreatedAt: parseTimeOrNil(Str(profile, "created_at", "")),
		URL:       profileURL(handle),

		Platform: core.PlatformBluesky,
		Raw:      profile,
	}
}

// usernameFromHandle derives a short username from a handle: the first
// dot-segment of "alice.bsky.social" is "alice"; a dotless handle is used
// whole.
func usernameFromHandle(handle string) string {
	if name, _, found := strings.Cut(handle, "."); found {
		return name
	}
	return handle
}
