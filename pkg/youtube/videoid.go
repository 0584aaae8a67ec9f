package youtube

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrInvalidVideo = errors.New("youtube: unrecognized video url or id")

	idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractVideoID accepts a bare id or any common YouTube url form
// (watch, youtu.be, embed, shorts, live) and returns the 11-character id.
func ExtractVideoID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if idPattern.MatchString(s) {
		return s, nil
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", ErrInvalidVideo
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segs[0]
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		switch {
		case segs[0] == "watch":
			id = u.Query().Get("v")
		case len(segs) > 1 && (segs[0] == "embed" || segs[0] == "shorts" || segs[0] == "live" || segs[0] == "v"):
			id = segs[1]
		}
	}
	if !idPattern.MatchString(id) {
		return "", ErrInvalidVideo
	}
	return id, nil
}

// WatchURL is the canonical url stored for a video.
func WatchURL(id string) string { return "https://www.youtube.com/watch?v=" + id }

// ThumbnailURL is the public high-quality thumbnail, available without an API key.
func ThumbnailURL(id string) string { return "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg" }

func EmbedURL(id string) string { return "https://www.youtube.com/embed/" + id }
