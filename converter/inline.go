package converter

import (
	"regexp"
	"strings"
)

var blankRunInlineRe = regexp.MustCompile(`\n[ \t\n]*\n`)

// collapseBlankLines squeezes blank-line runs down to single newlines so
// that inline formatting never spans a paragraph break.
func collapseBlankLines(s string) string {
	return blankRunInlineRe.ReplaceAllString(s, "\n")
}

func (s *state) convertStrong(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	return "*" + collapseBlankLines(content) + "*", nil
}

func (s *state) convertEmphasis(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	return "_" + collapseBlankLines(content) + "_", nil
}

func (s *state) convertMonospace(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	return "`" + collapseBlankLines(content) + "`", nil
}

// convertSpan passes unstyled spans through; a class becomes an inline
// style role.
func (s *state) convertSpan(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	if class, ok := node.GetAttr("class"); ok && class != "" {
		return styledInline(class, content), nil
	}
	return content, nil
}

func (s *state) convertCode(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	return styledInline("code", content), nil
}

func (s *state) convertSmall(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	return styledInline("small", content), nil
}

func (s *state) convertUnderline(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	return styledInline("underline", content), nil
}

// styledInline renders content with an inline role annotation.
func styledInline(role, content string) string {
	return "[." + role + "]`" + collapseBlankLines(content) + "`"
}

// convertKeyword turns an index marker into index terms. Terms are
// semicolon-separated; colons nest sub-entries.
func (s *state) convertKeyword(node Node) (string, error) {
	term, ok := node.GetAttr("term")
	if !ok || strings.TrimSpace(term) == "" {
		s.addWarning(WarningMissingAttribute, node.Tag, "keyword without term attribute")
		return "", nil
	}

	var sb strings.Builder
	for _, entry := range strings.Split(term, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		levels := strings.Split(entry, ":")
		for i, level := range levels {
			levels[i] = strings.TrimSpace(level)
		}
		sb.WriteString("indexterm:[" + strings.Join(levels, ", ") + "]")
	}
	return sb.String(), nil
}
