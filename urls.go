package webfetch

import "regexp"

// Matches a scheme followed by a run of non-space characters, so trailing
// punctuation stays attached to the URL.
var urlPattern = regexp.MustCompile(`https?://[^\s\p{Z}]+`)

// ExtractURLs returns the http and https URLs within text in the order they
// appear. Duplicates are kept.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}
