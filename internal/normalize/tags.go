package normalize

import (
	"strings"

	"LinkStash/internal/domain"
	"LinkStash/internal/platform"
)

// topicDenylist holds platform and generic terms that carry no topical
// signal. AI-suggested tags matching it are dropped during merge; the
// extractor's own seed tags keep them (they identify the source, not
// the topic).
var topicDenylist = map[string]bool{
	"youtube": true, "tiktok": true, "instagram": true, "twitter": true,
	"x": true, "facebook": true, "reddit": true, "web": true,
	"video": true, "short": true, "reel": true, "story": true,
	"post": true, "article": true, "photo": true, "social": true,
	"media": true, "content": true, "link": true, "page": true,
	"online": true, "internet": true,
}

// SeedTags returns the default tags for a freshly extracted article:
// platform name plus content type.
func SeedTags(rawURL string, p domain.Platform) []string {
	tags := []string{strings.ToLower(string(p))}
	if p == domain.PlatformOther {
		tags = []string{"web"}
	}
	ct := platform.ContentType(rawURL, p)
	if ct != "" && ct != tags[0] {
		tags = append(tags, ct)
	}
	return tags
}

// FilterTopicTags removes denylisted platform/generic terms, lowercases,
// and deduplicates, preserving order.
func FilterTopicTags(tags []string) []string {
	var filtered []string
	seen := map[string]bool{}
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] || topicDenylist[tag] {
			continue
		}
		seen[tag] = true
		filtered = append(filtered, tag)
	}
	return filtered
}

// MergeTags combines existing tags with incoming topic tags without
// duplication, keeping existing order first. Incoming tags pass through
// the topic denylist; existing tags are kept verbatim.
func MergeTags(existing, incoming []string) []string {
	merged := make([]string, 0, len(existing)+len(incoming))
	seen := map[string]bool{}
	for _, tag := range existing {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		merged = append(merged, tag)
	}
	for _, tag := range FilterTopicTags(incoming) {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		merged = append(merged, tag)
	}
	return merged
}
