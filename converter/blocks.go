package converter

import (
	"fmt"
	"strings"
)

// admonitionLabels maps the three fixed admonition classes to their block
// labels.
var admonitionLabels = map[string]string{
	"note":      "NOTE",
	"important": "IMPORTANT",
	"tip":       "TIP",
}

// convertHeading converts h1 through h6 elements. The marker is one symbol
// longer than the source level so that level 1 stays below the document
// title; level 6 folds into the same depth as level 5.
func (s *state) convertHeading(node Node) (string, error) {
	level := headingLevel(node.Tag)
	if level > 5 {
		level = 5
	}
	marker := strings.Repeat("=", level+1)

	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	// Heading text must stay on one line.
	content = strings.TrimSpace(strings.ReplaceAll(content, "\n", " "))
	if content == "" {
		return "", nil
	}

	// An anchor fused to the front of the heading text is hoisted onto its
	// own line; anchors inside heading text are ignored downstream.
	if anchor := anchorPrefixRe.FindString(content); anchor != "" {
		rest := strings.TrimLeft(content[len(anchor):], " ")
		return "\n" + anchor + "\n" + marker + " " + rest + "\n", nil
	}

	return "\n" + marker + " " + content + "\n", nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 {
		if level := int(tag[1] - '0'); level >= 1 && level <= 6 {
			return level
		}
	}
	return 1
}

// convertParagraph converts a paragraph, honoring its admonition class,
// generic style classes, and the minimal inline CSS subset topics use.
func (s *state) convertParagraph(node Node) (string, error) {
	prefix, suffix := "", ""
	emphasis, strong := false, false
	var styles []string

	for _, attr := range node.Attrs {
		key := strings.ToLower(attr.Key)
		switch {
		case key == "class":
			if label, ok := admonitionLabels[strings.ToLower(attr.Val)]; ok {
				prefix = "[" + label + "]\n====\n"
				suffix = "\n===="
			} else {
				styles = append(styles, "."+attr.Val)
			}
		case key == "style":
			styleRoles, em, b := s.parseParagraphStyle(node.Tag, attr.Val)
			styles = append(styles, styleRoles...)
			emphasis = emphasis || em
			strong = strong || b
		case key == "id" || key == "xmlns" || strings.HasPrefix(key, "madcap:"):
			// Vendor, id, and namespace attributes carry no output.
		}
	}

	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	if emphasis {
		content = "_" + content + "_"
	}
	if strong {
		content = "*" + content + "*"
	}

	var out string
	if len(styles) > 0 {
		out = "[" + strings.Join(styles, "") + "]\n"
	}
	return out + prefix + content + suffix + "\n", nil
}

// parseParagraphStyle handles the semicolon-separated property list of a
// style attribute. Alignment becomes a style role; italic and bold weights
// wrap the paragraph content.
func (s *state) parseParagraphStyle(tag, style string) ([]string, bool, bool) {
	var roles []string
	emphasis, strong := false, false

	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if !ok || prop == "" {
			continue
		}

		switch prop {
		case "text-align":
			roles = append(roles, ".text-"+val)
		case "font-style":
			switch val {
			case "italic":
				emphasis = true
			case "normal":
			default:
				s.addWarning(WarningUnsupportedValue, tag, fmt.Sprintf("unsupported font-style %q", val))
			}
		case "font-weight":
			if val == "bold" {
				strong = true
			} else {
				s.addWarning(WarningUnsupportedValue, tag, fmt.Sprintf("unsupported font-weight %q", val))
			}
		default:
			s.addWarning(WarningUnsupportedValue, tag, fmt.Sprintf("unsupported style property %q", prop))
		}
	}

	return roles, emphasis, strong
}

// convertDiv wraps conditional content in an include guard; divs without a
// conditions attribute pass their children through.
func (s *state) convertDiv(node Node) (string, error) {
	guard := ""
	for _, attr := range node.Attrs {
		switch strings.ToLower(attr.Key) {
		case "madcap:conditions":
			// Attribute names in the target markup cannot contain dots.
			guard = strings.ReplaceAll(attr.Val, ".", "-")
		case "style":
			s.addWarning(WarningUnsupportedValue, node.Tag, "style attribute on div is not supported")
		default:
			s.addWarning(WarningUnsupportedValue, node.Tag, fmt.Sprintf("attribute %s=%q ignored", attr.Key, attr.Val))
		}
	}

	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}

	if guard != "" {
		return "\nifdef::" + guard + "[]\n" + content + "\nendif::" + guard + "[]\n", nil
	}
	return content, nil
}

// convertLineBreak emits a bare newline; the dispatcher records the
// paragraph boundary it opens.
func (s *state) convertLineBreak(Node) (string, error) {
	return "\n", nil
}

// convertRule converts a horizontal rule.
func (s *state) convertRule(Node) (string, error) {
	return "\n'''\n", nil
}

// convertPreformatted emits a literal listing block from the element's raw
// text; inner markup is flattened.
func (s *state) convertPreformatted(node Node) (string, error) {
	text := strings.Trim(rawText(node), "\n")
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return "\n----\n" + text + "\n----\n", nil
}

// convertPageBreak emits a page-break marker.
func (s *state) convertPageBreak(Node) (string, error) {
	return "\n<<<\n", nil
}

// convertEquation wraps the element's raw math source in math markup,
// stripping the source dollar delimiters.
func (s *state) convertEquation(node Node) (string, error) {
	math := strings.TrimSpace(rawText(node))
	math = strings.TrimPrefix(math, "$")
	math = strings.TrimSuffix(math, "$")
	return "latexmath:[" + math + "]", nil
}

// convertDropDown renders a collapsible section: the hotspot text becomes
// the block title and the body the collapsible content.
func (s *state) convertDropDown(node Node) (string, error) {
	title, body := "", ""

	for _, child := range node.Children {
		if child.Kind != KindElement {
			continue
		}
		switch handlerKey(child.Tag) {
		case "madcap-dropdownhead":
			hotspot, err := s.dropDownHotspot(child)
			if err != nil {
				return "", err
			}
			title = hotspot
		case "madcap-dropdownbody":
			converted, err := s.convertChildren(child, false)
			if err != nil {
				return "", err
			}
			body = converted
		}
	}

	if strings.TrimSpace(body) == "" {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("\n")
	if title != "" {
		sb.WriteString("." + title + "\n")
	}
	sb.WriteString("[%collapsible]\n====\n")
	sb.WriteString(strings.TrimSpace(body))
	sb.WriteString("\n====\n")
	return sb.String(), nil
}

func (s *state) dropDownHotspot(head Node) (string, error) {
	for _, child := range head.Children {
		if child.Kind != KindElement || handlerKey(child.Tag) != "madcap-dropdownhotspot" {
			continue
		}
		hotspot, err := s.convertChildren(child, false)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(strings.ReplaceAll(hotspot, "\n", " ")), nil
	}
	return "", nil
}

// convertCodeSnippet renders a code snippet as a source listing; the
// copy-button chrome contributes nothing.
func (s *state) convertCodeSnippet(node Node) (string, error) {
	body, lang := "", ""

	for _, child := range node.Children {
		if child.Kind != KindElement || handlerKey(child.Tag) != "madcap-codesnippetbody" {
			continue
		}
		if style, ok := child.GetAttr("style"); ok {
			lang = codeLanguageFromStyle(style)
		}
		body = rawText(child)
	}

	body = strings.Trim(body, "\n")
	if strings.TrimSpace(body) == "" {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("\n")
	if lang != "" {
		sb.WriteString("[source," + strings.ToLower(lang) + "]\n")
	}
	sb.WriteString("----\n" + body + "\n----\n")
	return sb.String(), nil
}

// codeLanguageFromStyle extracts the language from an mc-code-lang style
// declaration.
func codeLanguageFromStyle(style string) string {
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if ok && strings.ToLower(strings.TrimSpace(prop)) == "mc-code-lang" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// rawText concatenates the text descendants of a node.
func rawText(node Node) string {
	var sb strings.Builder
	for _, child := range node.Children {
		switch child.Kind {
		case KindText:
			sb.WriteString(child.Text)
		case KindElement:
			sb.WriteString(rawText(child))
		}
	}
	return sb.String()
}
