package normalize

import (
	"regexp"
	"strings"
)

// maxPostLen bounds the candidate line length for post-text selection;
// anything longer is navigation soup, not a post.
const maxPostLen = 500

// minCandidateLen drops trivially short lines ("1", "·", emoji shards).
const minCandidateLen = 3

// quotedTitleExpr matches a structured title that embeds the full post
// text in quotes, e.g. `User on X: "the actual post" / X`.
var quotedTitleExpr = regexp.MustCompile(`[“"]([^”"]{3,})[”"]`)

// noisePatterns match microblog UI chrome lines that must never be
// mistaken for post text. Kept as an isolated list so individual
// patterns can be tuned and tested independently.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?i)(home|explore|notifications|messages|grok|communities|premium|bookmarks|jobs|lists|profile|more)$`),
	regexp.MustCompile(`^(?i)(reply|repost|like|share|follow|following|followers|translate post|quote|view)s?$`),
	regexp.MustCompile(`^(?i)(log in|sign up|sign in|subscribe|don.t miss what.s happening).*$`),
	regexp.MustCompile(`^[\d.,]+[KMB]?\s*(?i)(views?|likes?|reposts?|replies|quotes|bookmarks)$`),
	regexp.MustCompile(`^[\d.,]+[KMB]?$`),
	regexp.MustCompile(`^\d{1,2}:\d{2}\s*(?i)(am|pm)?\s*(·.*)?$`),
	regexp.MustCompile(`^(?i)\d{1,2}:\d{2}\s*(am|pm)\s*·\s*\w{3}\s*\d{1,2},?\s*\d{4}.*$`),
	regexp.MustCompile(`^(?i)(\w{3}\s+\d{1,2},?\s+\d{4}|\d+[smhd]|\d+\s*(seconds?|minutes?|hours?|days?)\s*ago)$`),
	regexp.MustCompile(`^@[A-Za-z0-9_]+$`),
	regexp.MustCompile(`^(?i)(show this thread|read \d+ replies|see new posts|what.s happening\??)$`),
	regexp.MustCompile(`^[·•|—-]+$`),
}

// PostText recovers the literal post text from extraction-service
// output. It tries the quoted-title shortcut first, then strips UI
// noise from the content and picks the single longest candidate line;
// when no line qualifies it concatenates the first few candidates.
// Returns "" when nothing post-like survives.
func PostText(title, content string) string {
	if quoted := quotedTitle(title); quoted != "" {
		return quoted
	}

	candidates := candidateLines(content)
	if len(candidates) == 0 {
		return ""
	}

	longest := ""
	for _, line := range candidates {
		if len(line) <= maxPostLen && len(line) > len(longest) {
			longest = line
		}
	}
	if longest != "" {
		return longest
	}

	// Every candidate overflowed the bound; stitch the head instead.
	head := candidates
	if len(head) > 3 {
		head = head[:3]
	}
	return truncate(strings.Join(head, " "), maxPostLen)
}

// quotedTitle extracts the post text embedded in a structured title.
func quotedTitle(title string) string {
	m := quotedTitleExpr.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// candidateLines returns content lines with UI chrome removed.
func candidateLines(content string) []string {
	var candidates []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "#")
		line = strings.TrimSpace(strings.TrimPrefix(line, ">"))
		if len(line) < minCandidateLen {
			continue
		}
		if isNoise(line) {
			continue
		}
		candidates = append(candidates, line)
	}
	return candidates
}

// isNoise reports whether a line matches any known UI-label pattern.
func isNoise(line string) bool {
	for _, pattern := range noisePatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
