// Package topic parses source topic and snippet files into the node trees
// the converter consumes.
//
// Topics are XHTML, so files are parsed as XML first; that keeps
// self-closing vendor elements such as <MadCap:variable /> properly
// closed. Files that are not well-formed XML fall back to a lenient HTML
// parse.
package topic

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html"

	"github.com/flaredoc/flare2adoc/converter"
)

// parserOptions follow the encoding/xml recipe for markup that leans
// HTML: invented end tags for void elements and the named entity set.
var parserOptions = xmlquery.ParserOptions{
	Decoder: &xmlquery.DecoderOptions{
		Strict:    false,
		AutoClose: xml.HTMLAutoClose,
		Entity:    xml.HTMLEntity,
	},
}

// Document is one parsed topic or snippet file.
type Document struct {
	Path  string
	Title string
	Root  converter.Node // the body element; its children are the content
}

// ErrNoBody is returned for files without a body element.
var ErrNoBody = errors.New("no body element")

// Load reads and parses the file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse parses one topic from r. The path is recorded on the returned
// Document and used in error messages only.
func Parse(r io.Reader, path string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc, xmlErr := parseXML(bytes.NewReader(data))
	if xmlErr != nil && !errors.Is(xmlErr, ErrNoBody) {
		doc, err = parseHTML(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, xmlErr)
		}
	} else if xmlErr != nil {
		return nil, fmt.Errorf("parse %s: %w", path, xmlErr)
	}

	doc.Path = path
	return doc, nil
}

// SnippetLoader adapts Load to the converter's snippet hook. A missing
// file maps to converter.ErrSnippetUnavailable so that conversion degrades
// to a warning instead of failing the referencing document.
func SnippetLoader(path string) (converter.Node, error) {
	doc, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return converter.Node{}, fmt.Errorf("%s: %w", path, converter.ErrSnippetUnavailable)
		}
		return converter.Node{}, err
	}
	return doc.Root, nil
}

func parseXML(r io.Reader) (*Document, error) {
	root, err := xmlquery.ParseWithOptions(r, parserOptions)
	if err != nil {
		return nil, err
	}

	bodyNode := xmlquery.FindOne(root, "//body")
	if bodyNode == nil {
		return nil, ErrNoBody
	}

	doc := &Document{}
	if title := xmlquery.FindOne(root, "//head/title"); title != nil {
		doc.Title = strings.TrimSpace(title.InnerText())
	}

	body, ok := fromXMLNode(bodyNode)
	if !ok {
		return nil, ErrNoBody
	}
	doc.Root = body
	return doc, nil
}

func fromXMLNode(n *xmlquery.Node) (converter.Node, bool) {
	switch n.Type {
	case xmlquery.ElementNode:
		node := converter.Node{Kind: converter.KindElement, Tag: xmlTag(n)}
		for _, attr := range n.Attr {
			// Prefix declarations are parser bookkeeping, not content.
			if attr.Name.Space == "xmlns" {
				continue
			}
			node.Attrs = append(node.Attrs, converter.Attr{
				Key: qualifiedName(attr.Name.Space, attr.Name.Local),
				Val: attr.Value,
			})
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if converted, ok := fromXMLNode(child); ok {
				node.Children = append(node.Children, converted)
			}
		}
		return node, true

	case xmlquery.TextNode:
		return converter.Node{Kind: converter.KindText, Text: n.Data}, true

	case xmlquery.CharDataNode:
		return converter.Node{Kind: converter.KindCData, Text: n.Data}, true

	case xmlquery.CommentNode:
		return converter.Node{Kind: converter.KindComment, Text: n.Data}, true

	default:
		return converter.Node{}, false
	}
}

func xmlTag(n *xmlquery.Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}

// qualifiedName rebuilds a prefixed attribute name. Depending on whether
// the prefix was declared, the decoder reports either the prefix itself or
// the resolved namespace URI.
func qualifiedName(space, local string) string {
	switch {
	case space == "":
		return local
	case strings.Contains(space, "madcapsoftware.com"):
		return "MadCap:" + local
	case strings.Contains(space, "://"):
		return local
	default:
		return space + ":" + local
	}
}

func parseHTML(r io.Reader) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	sel := gq.Find("body")
	if sel.Length() == 0 {
		return nil, ErrNoBody
	}

	doc := &Document{Title: strings.TrimSpace(gq.Find("head > title").First().Text())}
	body, ok := fromHTMLNode(sel.Get(0))
	if !ok {
		return nil, ErrNoBody
	}
	doc.Root = body
	return doc, nil
}

func fromHTMLNode(n *html.Node) (converter.Node, bool) {
	switch n.Type {
	case html.ElementNode:
		node := converter.Node{Kind: converter.KindElement, Tag: n.Data}
		for _, attr := range n.Attr {
			key := attr.Key
			if attr.Namespace != "" {
				key = attr.Namespace + ":" + attr.Key
			}
			node.Attrs = append(node.Attrs, converter.Attr{Key: key, Val: attr.Val})
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if converted, ok := fromHTMLNode(child); ok {
				node.Children = append(node.Children, converted)
			}
		}
		return node, true

	case html.TextNode:
		return converter.Node{Kind: converter.KindText, Text: n.Data}, true

	case html.CommentNode:
		// The HTML tokenizer turns CDATA sections into bogus comments.
		if cdata, ok := strings.CutPrefix(n.Data, "[CDATA["); ok {
			return converter.Node{Kind: converter.KindCData, Text: strings.TrimSuffix(cdata, "]]")}, true
		}
		return converter.Node{Kind: converter.KindComment, Text: n.Data}, true

	default:
		return converter.Node{}, false
	}
}
