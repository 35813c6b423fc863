package atproto

import (
	"strings"

	"unifeed/internal/core"
)

// embedKind is the parsed discriminator of an embed view. Source $type tags
// drift across client versions, so the tag is matched by case-insensitive
// substring once, here, and everything else switches on the kind.
type embedKind int

const (
	embedUnknown embedKind = iota
	embedImages
	embedVideo
	embedExternal
	embedRecord
	embedRecordWithMedia
)

func classifyEmbed(rec any) embedKind {
	tag := strings.ToLower(TypeTag(rec))
	switch {
	case tag == "":
		return embedUnknown
	case strings.Contains(tag, "recordwithmedia"):
		return embedRecordWithMedia
	case strings.Contains(tag, "record"):
		return embedRecord
	case strings.Contains(tag, "images"):
		return embedImages
	case strings.Contains(tag, "video"):
		return embedVideo
	case strings.Contains(tag, "external"):
		return embedExternal
	default:
		return embedUnknown
	}
}

// extractMedia pulls media attachments out of an embed view. A malformed
// embed degrades to an empty list.
func extractMedia(embed any) []core.Media {
	switch classifyEmbed(embed) {
	case embedImages:
		var media []core.Media
		for _, img := range List(embed, "images") {
			media = append(media, imageToMedia(img))
		}
		return media

	case embedVideo:
		url := Str(embed, "playlist", "")
		if url == "" {
			url = Str(embed, "url", "")
		}
		return []core.Media{{
			ID:          Str(embed, "cid", ""),
			Type:        "video",
			URL:         url,
			PreviewURL:  Str(embed, "thumbnail", ""),
			Description: Str(embed, "alt", ""),
		}}

	case embedRecordWithMedia:
		// Quote with attached media: recurse into the media half.
		return extractMedia(Rec(embed, "media"))

	default:
		return nil
	}
}

func imageToMedia(img any) core.Media {
	id := Str(img, "cid", "")
	if id == "" {
		id = Str(img, "fullsize", "")
	}
	return core.Media{
		ID:          id,
		Type:        "image",
		URL:         Str(img, "fullsize", ""),
		PreviewURL:  Str(img, "thumb", ""),
		Description: Str(img, "alt", ""),
	}
}

// extractCard pulls a link-preview card out of an external embed, or out of
// the media half of a recordWithMedia embed.
func extractCard(embed any) *core.Card {
	switch classifyEmbed(embed) {
	case embedExternal:
		external := Rec(embed, "external")
		if external == nil {
			return nil
		}
		return &core.Card{
			URL:         Str(external, "uri", ""),
			Title:       Str(external, "title", ""),
			Description: Str(external, "description", ""),
			Image:       Str(external, "thumb", ""),
		}

	case embedRecordWithMedia:
		return extractCard(Rec(embed, "media"))

	default:
		return nil
	}
}

// extractQuote converts the quoted post of a record embed. Two viewer-record
// shapes exist: the author sits directly on the embedded record, or the
// record nests the real one under "value". Anything else degrades to nil.
func extractQuote(embed any) *core.Status {
	switch classifyEmbed(embed) {
	case embedRecord, embedRecordWithMedia:
	default:
		return nil
	}

	quoted := Rec(embed, "record")
	if quoted == nil {
		return nil
	}

	if author := Rec(quoted, "author"); author != nil {
		return toStatus(quoted, author)
	}

	if value := Rec(quoted, "value"); value != nil {
		if author := Rec(value, "author"); author != nil {
			return toStatus(value, author)
		}
	}
	return nil
}
