package atproto

import (
	"fmt"
	"strings"
)

// rkeyFromURI extracts the record key from an AT URI of the form
// at://did:plc:xxx/app.bsky.feed.post/rkey.
func rkeyFromURI(uri string) string {
	if uri == "" {
		return ""
	}
	parts := strings.Split(uri, "/")
	return parts[len(parts)-1]
}

// PostURI builds the AT URI for a record in a collection.
func PostURI(did, collection, rkey string) string {
	return fmt.Sprintf("at://%s/%s/%s", did, collection, rkey)
}

func profileURL(handle string) string {
	return "https://bsky.app/profile/" + handle
}

func postWebURL(handle, rkey string) string {
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", handle, rkey)
}
