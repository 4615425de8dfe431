package converter

import (
	"regexp"
	"strings"
)

var (
	trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
)

// normalize applies the final whitespace cleanup to a converted document:
// trailing horizontal whitespace is stripped per line, runs of blank lines
// collapse to a single blank line, leading whitespace is removed, and the
// document ends with exactly one newline.
func normalize(out string) string {
	out = trailingSpaceRe.ReplaceAllString(out, "\n")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	out = strings.TrimLeft(out, " \t\n")
	if out == "" {
		return ""
	}
	return strings.TrimRight(out, " \t\n") + "\n"
}
