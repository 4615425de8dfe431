package converter

import (
	"fmt"
	"regexp"
	"strings"
)

// Converter converts parsed topic trees to AsciiDoc. A single Converter may
// be shared across goroutines; the snippet registry is the only state
// carried across documents and is internally synchronized.
type Converter struct {
	config   Config
	snippets *snippetRegistry
}

// New creates a new Converter with the given config.
func New(config Config) (*Converter, error) {
	config = config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Converter{
		config:   config.clone(),
		snippets: newSnippetRegistry(config.KnownSnippets),
	}, nil
}

// Convert converts the children of root, typically a topic's body element,
// and returns the AsciiDoc text together with any warnings.
func (c *Converter) Convert(root Node) (Result, error) {
	return c.ConvertWithOptions(root, ConvertOptions{})
}

// ConvertWithOptions converts the children of root with per-document
// context. Conversion state is created fresh for every call so that
// paragraph-boundary or image-directory state cannot leak across documents.
func (c *Converter) ConvertWithOptions(root Node, opts ConvertOptions) (Result, error) {
	s := newState(c, opts)

	out, err := s.convertChildren(root, false)
	if err != nil {
		return Result{Warnings: s.warnings}, err
	}

	return Result{AsciiDoc: normalize(out), Warnings: s.warnings}, nil
}

// SnippetDefinitions returns one attribute definition line per snippet
// registered during this run, in first-reference order. Externally known
// snippets are never included.
func (c *Converter) SnippetDefinitions() string {
	return c.snippets.definitions()
}

// state bundles the contextual values threaded through one document
// conversion.
type state struct {
	conv    *Converter
	config  Config
	options ConvertOptions

	listMarker  string          // "*" or "." inside a list, "" outside
	tableOpts   map[string]bool // option flags of the enclosing table, nil outside
	figCaption  *string         // caption slot of the enclosing figure, nil outside
	atParaStart bool            // next content starts a fresh paragraph
	imageDir    string
	imageDirSet bool

	warnings []Warning
}

func newState(c *Converter, opts ConvertOptions) *state {
	return &state{
		conv:        c,
		config:      c.config,
		options:     opts,
		atParaStart: true,
	}
}

func (s *state) addWarning(typ WarningType, tag, message string) {
	s.warnings = append(s.warnings, Warning{
		Doc:     s.options.DocLabel,
		Type:    typ,
		Tag:     tag,
		Message: message,
	})
}

var unindentRe = regexp.MustCompile(`\n[ \t]+`)

// convertChildren converts node's children in order and concatenates their
// fragments. With skipBlankText set, text children that reduce to a lone
// newline are dropped; rows and table wrappers use this because whitespace
// between cells is structural, not content.
func (s *state) convertChildren(node Node, skipBlankText bool) (string, error) {
	var acc string

	for _, child := range node.Children {
		switch child.Kind {
		case KindElement:
			key := handlerKey(child.Tag)
			handler, ok := tagHandlers[key]
			if !ok {
				s.addWarning(WarningUnknownTag, child.Tag, fmt.Sprintf("unsupported tag <%s>", child.Tag))
				continue
			}
			frag, err := handler(s, child)
			if err != nil {
				return "", err
			}
			acc = appendFragment(acc, frag)
			s.atParaStart = key == "br" || key == "p"

		case KindText:
			text := unindentRe.ReplaceAllString(child.Text, "\n")
			text = strings.ReplaceAll(text, "\u00a0", "{nbsp}")
			if text != "\n" {
				s.atParaStart = false
			} else if skipBlankText {
				continue
			}
			acc += text

		case KindComment:
			acc = appendFragment(acc, s.convertComment(child))

		case KindCData:
			if strings.TrimSpace(child.Text) != "" {
				s.addWarning(WarningDroppedContent, child.Kind.String(), "CDATA section dropped")
			}

		default:
			s.addWarning(WarningUnknownNode, child.Kind.String(), "unrecognized node kind")
		}
	}

	return acc, nil
}

// convertComment emits a trimmed comment on a single line or, when it spans
// multiple lines, inside a comment block.
func (s *state) convertComment(node Node) string {
	text := strings.TrimSpace(node.Text)
	if text == "" {
		return ""
	}
	if strings.Contains(text, "\n") {
		return "////\n" + text + "\n////\n"
	}
	return "// " + text + "\n"
}

// blockDelimiterChars are the characters whose leading runs open block
// delimiters in the target markup and therefore must start on a fresh line.
const blockDelimiterChars = "=-.*_+/'<|"

// appendFragment concatenates a handler fragment onto the accumulated
// output, inserting a space or newline where direct adjacency would change
// the meaning of the fragment's leading token.
func appendFragment(acc, add string) string {
	if acc == "" || add == "" {
		return acc + add
	}

	last := acc[len(acc)-1]
	switch {
	case add[0] == '[' && last != '(' && last != ' ' && last != '\n':
		acc += " "
	case leadingDelimiterRun(add) >= 3 && last != '\n':
		acc += "\n"
	}

	return acc + add
}

// leadingDelimiterRun returns the length of the run of block delimiter
// characters at the start of text, or 0 when text starts with anything
// else.
func leadingDelimiterRun(text string) int {
	run := 0
	for run < len(text) && strings.ContainsRune(blockDelimiterChars, rune(text[run])) {
		run++
	}
	return run
}
