package converter

import "strings"

// NodeKind discriminates the variants of a Node.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindText
	KindComment
	KindCData
)

// String returns a short name for the node kind, used in diagnostics.
func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindCData:
		return "cdata"
	default:
		return "unknown"
	}
}

// Node represents one node of a parsed source document tree (e.g., an
// element, text run, or comment). Trees are supplied by an external parser;
// the converter only reads them and never mutates the tree.
type Node struct {
	Kind     NodeKind
	Tag      string // element tag name, empty for non-elements
	Attrs    []Attr // element attributes in source order
	Text     string // text, comment, or CDATA content
	Children []Node
}

// Attr is a single element attribute. Source order is preserved.
type Attr struct {
	Key string
	Val string
}

// GetAttr returns the value of the named attribute and whether it was
// present. Attribute names are matched case-insensitively.
func (n Node) GetAttr(key string) (string, bool) {
	for _, attr := range n.Attrs {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

// GetAttrDefault returns the value of the named attribute, or def when the
// attribute is absent.
func (n Node) GetAttrDefault(key, def string) string {
	if val, ok := n.GetAttr(key); ok {
		return val
	}
	return def
}

// HasAttr reports whether the named attribute is present.
func (n Node) HasAttr(key string) bool {
	_, ok := n.GetAttr(key)
	return ok
}
