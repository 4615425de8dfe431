package converter

import (
	"regexp"
	"strings"
)

var (
	anchorPrefixRe = regexp.MustCompile(`^\[\[[^\[\]]*\]\]`)
	pageNumberRe   = regexp.MustCompile(`\s*on page\s*\d*\s*$`)
)

// convertAnchor converts both roles of the anchor tag: with an href it is
// a link, without one it defines a jump target.
func (s *state) convertAnchor(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}

	if href, ok := node.GetAttr("href"); ok {
		text := content
		if text == "" {
			text = node.GetAttrDefault("title", "")
		}
		return "link:" + href + "[" + text + "]", nil
	}

	if strings.TrimSpace(content) != "" {
		s.addWarning(WarningDroppedContent, node.Tag, "anchor without href should be empty")
	}

	id, hasID := node.GetAttr("id")
	name, hasName := node.GetAttr("name")
	if !hasID {
		s.addWarning(WarningMissingAttribute, node.Tag, "anchor without href needs an id attribute")
		return "", nil
	}
	switch {
	case !hasName:
		s.addWarning(WarningMissingAttribute, node.Tag, "anchor without href needs a name attribute")
	case name != id:
		s.addWarning(WarningSourceMismatch, node.Tag, "anchor name "+name+" does not match id "+id)
	}

	return "[[" + id + "]]", nil
}

// convertCrossReference converts a topic cross-reference into a link with
// the target suffix rewritten for converted output. Auto-generated page
// number text and surrounding quotes are stripped from the link text.
func (s *state) convertCrossReference(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}

	href, ok := node.GetAttr("href")
	if !ok {
		s.addWarning(WarningMissingAttribute, node.Tag, "cross-reference without href attribute")
		return content, nil
	}
	href = s.rewriteTopicSuffix(href)

	title := pageNumberRe.ReplaceAllString(strings.TrimSpace(content), "")
	title = strings.TrimSpace(strings.Trim(title, `"`))
	if title == "" {
		if i := strings.LastIndex(href, "#"); i >= 0 {
			title = "see " + href[i+1:]
		} else {
			title = href
		}
	}

	return "link:" + href + "[" + title + "]", nil
}

// rewriteTopicSuffix swaps the source suffix for the output suffix at the
// end of an href or just before its fragment.
func (s *state) rewriteTopicSuffix(href string) string {
	src, out := s.config.SourceSuffix, s.config.OutputSuffix
	if strings.HasSuffix(href, src) {
		return strings.TrimSuffix(href, src) + out
	}
	if i := strings.Index(href, src+"#"); i >= 0 {
		return href[:i] + out + href[i+len(src):]
	}
	return href
}
