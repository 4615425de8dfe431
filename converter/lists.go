package converter

import (
	"regexp"
	"strings"
)

var blankLineSplitRe = regexp.MustCompile(`\n[ \t]*\n`)

func (s *state) convertBulletList(node Node) (string, error) {
	return s.convertList(node, "*")
}

func (s *state) convertOrderedList(node Node) (string, error) {
	return s.convertList(node, ".")
}

// convertList converts list children under the given item marker. The
// previous marker is restored on return so nested lists rejoin their outer
// list correctly.
func (s *state) convertList(node Node, marker string) (string, error) {
	prev := s.listMarker
	s.listMarker = marker
	defer func() { s.listMarker = prev }()

	return s.convertChildren(node, false)
}

// convertListItem attaches the item content to the active list marker. An
// item whose content spans a blank line is continued into an open block so
// the extra blocks stay part of the item.
func (s *state) convertListItem(node Node) (string, error) {
	marker := s.listMarker
	if marker == "" {
		marker = "*"
	}

	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	content = strings.TrimLeft(content, " \t\n")
	content = strings.TrimRight(content, " \t\n")

	if loc := blankLineSplitRe.FindStringIndex(content); loc != nil {
		first := content[:loc[0]]
		rest := content[loc[1]:]
		return marker + " " + first + "\n+\n--\n" + rest + "\n--\n", nil
	}
	return marker + " " + content, nil
}

func (s *state) convertDefinitionList(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	return "\n" + content + "\n", nil
}

func (s *state) convertDefinitionTerm(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content) + "::", nil
}

func (s *state) convertDefinitionDescription(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	return "  " + strings.TrimSpace(content), nil
}
