package atproto

import (
	"strings"

	"github.com/samber/lo"

	"unifeed/internal/core"
)

// extractMentions collects mention features from rich-text facets. Handle
// resolution is out of scope here, so the actor's DID stands in for acct and
// username both.
func extractMentions(facets []any) []core.Mention {
	var mentions []core.Mention
	for _, facet := range facets {
		for _, feature := range List(facet, "features") {
			if !strings.Contains(strings.ToLower(TypeTag(feature)), "mention") {
				continue
			}
			did := Str(feature, "did", "")
			mentions = append(mentions, core.Mention{
				ID:       did,
				Acct:     did,
				Username: did,
			})
		}
	}
	return mentions
}

// extractLinks collects link feature URIs from facets, deduplicated in order
// of first appearance.
func extractLinks(facets []any) []string {
	var links []string
	for _, facet := range facets {
		for _, feature := range List(facet, "features") {
			if !strings.Contains(strings.ToLower(TypeTag(feature)), "link") {
				continue
			}
			if uri := Str(feature, "uri", ""); uri != "" {
				links = append(links, uri)
			}
		}
	}
	return lo.Uniq(links)
}
