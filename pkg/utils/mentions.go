package utils

import "regexp"

// MaxMentions caps how many distinct users one post can mention.
const MaxMentions = 10

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]{3,30})\b`)

// ParseMentions extracts up to MaxMentions distinct @usernames from
// content, in order of first appearance.
func ParseMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	mentions := make([]string, 0, len(matches))

	for _, match := range matches {
		username := match[1]
		if _, ok := seen[username]; ok {
			continue
		}
		seen[username] = struct{}{}

		mentions = append(mentions, username)
		if len(mentions) == MaxMentions {
			break
		}
	}

	return mentions
}
