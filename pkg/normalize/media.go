package normalize

import (
	"strings"

	"github.com/umputun/podjson/pkg/domain"
)

var audioTypes = map[string]bool{"audio/mpeg": true, "audio/mp3": true, "audio/aac": true}

// PickAudio returns the playable audio URL of an entry. Enclosures with an audio type
// win, then links marked as enclosure with an audio or empty type.
func PickAudio(e domain.Entry) string {
	for _, enc := range e.Enclosures {
		if isAudioType(enc.Type) {
			return enc.Href
		}
	}

	for _, l := range e.Links {
		if l.Rel != "enclosure" {
			continue
		}
		if strings.TrimSpace(l.Type) == "" || isAudioType(l.Type) {
			return l.Href
		}
	}
	return ""
}

// PickImage returns episode artwork: itunes:image, then the first thumbnail,
// then the first media content.
func PickImage(e domain.Entry) string {
	if e.ITunesImage != "" {
		return e.ITunesImage
	}
	for _, group := range [][]domain.Media{e.Thumbnails, e.MediaContent} {
		if len(group) > 0 && group[0].URL != "" {
			return group[0].URL
		}
	}
	return ""
}

func isAudioType(t string) bool {
	t = strings.ToLower(strings.TrimSpace(t))
	return strings.Contains(t, "audio") || audioTypes[t]
}
