package assist

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	quotedPattern = regexp.MustCompile(`"([^"]+)"`)
	scorePattern  = regexp.MustCompile(`\d{1,3}`)
)

// ExtractQuoted returns every double-quoted fragment in order.
func ExtractQuoted(text string) []string {
	matches := quotedPattern.FindAllStringSubmatch(text, -1)
	values := make([]string, 0, len(matches))
	for _, match := range matches {
		values = append(values, match[1])
	}
	return values
}

// ExtractScore returns the first number in the text clamped to 0..100.
// Text without a number scores zero.
func ExtractScore(text string) int {
	match := scorePattern.FindString(text)
	if match == "" {
		return 0
	}
	score, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// CleanMarkup strips bold and italic markers from model output.
func CleanMarkup(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	return strings.ReplaceAll(text, "*", "")
}
