// Package preprocess bounds and normalizes email text before it reaches the
// model: whitespace collapsing, stopword removal for large texts and
// character-budget truncation that prefers sentence boundaries.
package preprocess

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Portuguese stopwords stripped from large texts to save model budget
var defaultStopwords = map[string]struct{}{
	"a": {}, "o": {}, "e": {}, "de": {}, "da": {}, "do": {}, "das": {}, "dos": {},
	"um": {}, "uma": {}, "em": {}, "para": {}, "por": {}, "no": {}, "na": {},
	"nos": {}, "nas": {}, "com": {}, "sem": {}, "que": {}, "se": {}, "os": {},
	"as": {}, "ao": {}, "à": {}, "às": {}, "aos": {},
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	tokenRe      = regexp.MustCompile(`[\p{L}\p{N}_'-]+`)
)

// Processing thresholds. Texts beyond hardLimit are cut before anything else;
// stopword removal only pays off below stopwordLimit.
const (
	hardLimit     = 10000
	stopwordLimit = 5000
)

// NormalizeWhitespace collapses whitespace runs to single spaces
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// RemoveStopwords lowercases the text and drops common Portuguese stopwords
func RemoveStopwords(text string) string {
	tokens := tokenRe.FindAllString(strings.ToLower(text), -1)
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := defaultStopwords[t]; !ok {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}

// Prepare normalizes text for model consumption: hard cap, whitespace
// collapse, then stopword removal for texts small enough to tokenize cheaply.
func Prepare(text string) string {
	if len(text) > hardLimit {
		text = truncateValid(text, hardLimit)
	}
	text = NormalizeWhitespace(text)
	if len(text) < stopwordLimit {
		text = RemoveStopwords(text)
	}
	return text
}

// TruncateForModel cuts text to the model character budget, keeping the head
// of the email. If a sentence ends in the final fifth of the cut, the text is
// trimmed there so no sentence is left dangling.
func TruncateForModel(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	truncated := truncateValid(text, maxChars)
	if lastPeriod := strings.LastIndex(truncated, "."); lastPeriod > (maxChars*4)/5 {
		truncated = truncated[:lastPeriod+1]
	}
	return truncated
}

// truncateValid cuts at a byte limit without splitting a UTF-8 sequence
func truncateValid(text string, limit int) string {
	truncated := text[:limit]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated
}
