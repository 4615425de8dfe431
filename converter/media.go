package converter

import (
	"fmt"
	"path"
	"strings"
)

const htmlNamespace = "http://www.w3.org/1999/xhtml"

// convertImage emits an image macro. Placement is decided by the paragraph
// flag: at a paragraph start the image becomes a block macro on its own
// line, mid-sentence it stays inline.
func (s *state) convertImage(node Node) (string, error) {
	src, title := "", ""

	for _, attr := range node.Attrs {
		switch key := strings.ToLower(attr.Key); key {
		case "src":
			dir, base := path.Split(attr.Val)
			src = base
			s.checkImageDir(node.Tag, dir)
		case "alt":
			title = attr.Val
		case "style", "madcap:mediastyle":
			// Presentation-only attributes carry no output.
		case "align":
			switch strings.ToLower(attr.Val) {
			case "middle", "top":
			default:
				s.addWarning(WarningUnsupportedValue, node.Tag, fmt.Sprintf("unsupported alignment %q", attr.Val))
			}
		case "xmlns":
			if attr.Val != "" && attr.Val != htmlNamespace {
				s.addWarning(WarningUnsupportedValue, node.Tag, fmt.Sprintf("unexpected namespace %q", attr.Val))
			}
		default:
			s.addWarning(WarningUnsupportedValue, node.Tag, fmt.Sprintf("attribute %s=%q ignored", attr.Key, attr.Val))
		}
	}

	if src == "" {
		s.addWarning(WarningMissingAttribute, node.Tag, "image without src attribute")
		return "", nil
	}

	if s.atParaStart {
		return "\nimage::" + src + "[" + title + "]\n", nil
	}
	return "image:" + src + "[" + title + "]", nil
}

// checkImageDir records the directory of the first image and flags later
// images that live somewhere else. Image references are emitted by base
// name only, so a split source layout would silently break links.
func (s *state) checkImageDir(tag, dir string) {
	if !s.imageDirSet {
		s.imageDir = dir
		s.imageDirSet = true
		return
	}
	if !strings.EqualFold(dir, s.imageDir) {
		s.addWarning(WarningSourceMismatch, tag, fmt.Sprintf("image directory %q differs from %q", dir, s.imageDir))
	}
}

// convertFigure renders its content as a titled block when a caption child
// was present; without a caption the children pass through unchanged.
func (s *state) convertFigure(node Node) (string, error) {
	prev := s.figCaption
	caption := ""
	s.figCaption = &caption
	defer func() { s.figCaption = prev }()

	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}

	if caption != "" {
		return "\n." + caption + "\n" + strings.TrimSpace(content) + "\n", nil
	}
	return content, nil
}

// convertFigureCaption captures the caption text for the enclosing figure.
// The caption contributes nothing at its own position.
func (s *state) convertFigureCaption(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}

	switch {
	case s.figCaption == nil:
		s.addWarning(WarningDroppedContent, node.Tag, "caption outside a figure")
	case *s.figCaption != "":
		s.addWarning(WarningDroppedContent, node.Tag, "figure already has a caption")
	default:
		*s.figCaption = strings.TrimSpace(strings.ReplaceAll(content, "\n", " "))
	}
	return "", nil
}
