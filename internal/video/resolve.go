// Package video normalizes heterogeneous video links into embeddable URLs.
package video

import (
	"fmt"
	"regexp"
)

var (
	youtubePatterns = []*regexp.Regexp{
		regexp.MustCompile(`youtube\.com/watch\?v=([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]+)`),
	}
	vimeoPattern = regexp.MustCompile(`vimeo\.com/(\d+)`)
	drivePattern = regexp.MustCompile(`drive\.google\.com/file/d/([a-zA-Z0-9_-]+)`)
)

// EmbedURL maps a video URL to its canonical embeddable form. Recognized
// sources are tried in fixed priority order; the first match wins. Anything
// unrecognized is returned unchanged on the assumption that it is already an
// embed URL. Total over strings, never fails.
func EmbedURL(raw string) string {
	for _, p := range youtubePatterns {
		if m := p.FindStringSubmatch(raw); m != nil {
			// rel=0 keeps suggested videos on the same channel,
			// modestbranding trims the player chrome.
			return fmt.Sprintf("https://www.youtube.com/embed/%s?rel=0&modestbranding=1&controls=1", m[1])
		}
	}

	if m := vimeoPattern.FindStringSubmatch(raw); m != nil {
		return fmt.Sprintf("https://player.vimeo.com/video/%s", m[1])
	}

	if m := drivePattern.FindStringSubmatch(raw); m != nil {
		return fmt.Sprintf("https://drive.google.com/file/d/%s/preview", m[1])
	}

	return raw
}
