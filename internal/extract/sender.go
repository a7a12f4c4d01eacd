package extract

import (
	"regexp"
)

// Sender-label patterns in priority order. The first pattern that matches
// anywhere in the text wins, regardless of position relative to later
// patterns.
var senderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)From:\s*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`(?i)De:\s*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`(?i)Sender:\s*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`(?i)Submitted-by:\s*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
}

// Sender returns the first email address found under a known header label.
// Returns the empty string when no label matches.
func Sender(emailContent string) string {
	for _, pattern := range senderPatterns {
		if match := pattern.FindStringSubmatch(emailContent); match != nil {
			return match[1]
		}
	}
	return ""
}
