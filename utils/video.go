package utils

import "regexp"

var (
	youtubeURLPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&?/]+)`)
	youtubeIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractYouTubeVideoID pulls the video id out of a watch/short/embed URL,
// or accepts a bare 11-character id. Returns "" when nothing matches.
func ExtractYouTubeVideoID(url string) string {
	if m := youtubeURLPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if youtubeIDPattern.MatchString(url) {
		return url
	}
	return ""
}

func ValidateYouTubeURL(url string) bool {
	return ExtractYouTubeVideoID(url) != ""
}

// YouTubeEmbedURL normalizes any accepted video reference to an embed URL.
func YouTubeEmbedURL(url string) string {
	id := ExtractYouTubeVideoID(url)
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + id
}
