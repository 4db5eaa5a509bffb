package platform

import (
	"net/url"
	"regexp"
	"strings"

	"LinkStash/internal/domain"
)

var (
	youtubeIDExpr = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	numericExpr   = regexp.MustCompile(`^\d+$`)
	handleExpr    = regexp.MustCompile(`^@?[A-Za-z0-9._-]{2,30}$`)
)

// structural path segments that never make a useful title or username
var skipSegments = map[string]bool{
	"watch": true, "shorts": true, "embed": true, "v": true,
	"reel": true, "reels": true, "p": true, "tv": true, "stories": true,
	"status": true, "statuses": true, "video": true, "videos": true,
	"comments": true, "r": true, "user": true, "share": true, "web": true,
	"index.html": true, "index.php": true,
}

// Username extracts a best-effort account handle from the URL path.
// Returns "" when nothing handle-shaped is present.
func Username(rawURL string, p domain.Platform) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := splitPath(u.Path)

	switch p {
	case domain.PlatformTikTok, domain.PlatformYouTube:
		for _, seg := range segments {
			if strings.HasPrefix(seg, "@") && handleExpr.MatchString(seg) {
				return strings.TrimPrefix(seg, "@")
			}
		}
	case domain.PlatformTwitter, domain.PlatformInstagram, domain.PlatformFacebook:
		if len(segments) > 0 && !skipSegments[segments[0]] && handleExpr.MatchString(segments[0]) {
			return strings.TrimPrefix(segments[0], "@")
		}
	case domain.PlatformReddit:
		for i, seg := range segments {
			if (seg == "user" || seg == "u") && i+1 < len(segments) && handleExpr.MatchString(segments[i+1]) {
				return segments[i+1]
			}
		}
	}
	return ""
}

// LastPathSegment returns the last meaningful path segment of the URL,
// skipping structural segments and bare numeric ids. Returns "" for
// bare hosts.
func LastPathSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := splitPath(u.Path)
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if skipSegments[strings.ToLower(seg)] || numericExpr.MatchString(seg) {
			continue
		}
		return seg
	}
	return ""
}

// YouTubeVideoID extracts the 11-character video id from any of the
// known YouTube URL shapes. Empty string when absent.
func YouTubeVideoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	segments := splitPath(u.Path)

	if host == "youtu.be" && len(segments) > 0 && youtubeIDExpr.MatchString(segments[0]) {
		return segments[0]
	}
	if id := u.Query().Get("v"); youtubeIDExpr.MatchString(id) {
		return id
	}
	for i, seg := range segments {
		if (seg == "shorts" || seg == "embed" || seg == "v") && i+1 < len(segments) &&
			youtubeIDExpr.MatchString(segments[i+1]) {
			return segments[i+1]
		}
	}
	return ""
}

// Hostname returns the URL host without the www prefix, or "" when the
// URL does not parse.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func splitPath(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
