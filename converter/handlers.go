package converter

import (
	"sort"
	"strings"
)

// tagHandler converts a single element node to its AsciiDoc fragment.
type tagHandler func(*state, Node) (string, error)

// tagHandlers maps normalized tag names to handlers. Assigned in init so
// that handlers can reach back into the dispatcher without an
// initialization cycle.
var tagHandlers map[string]tagHandler

func init() {
	tagHandlers = map[string]tagHandler{
		"h1": (*state).convertHeading,
		"h2": (*state).convertHeading,
		"h3": (*state).convertHeading,
		"h4": (*state).convertHeading,
		"h5": (*state).convertHeading,
		"h6": (*state).convertHeading,

		"p":   (*state).convertParagraph,
		"div": (*state).convertDiv,
		"br":  (*state).convertLineBreak,
		"hr":  (*state).convertRule,
		"pre": (*state).convertPreformatted,

		"ul": (*state).convertBulletList,
		"ol": (*state).convertOrderedList,
		"li": (*state).convertListItem,
		"dl": (*state).convertDefinitionList,
		"dt": (*state).convertDefinitionTerm,
		"dd": (*state).convertDefinitionDescription,

		"b":      (*state).convertStrong,
		"strong": (*state).convertStrong,
		"i":      (*state).convertEmphasis,
		"em":     (*state).convertEmphasis,
		"q":      (*state).convertMonospace,
		"tt":     (*state).convertMonospace,
		"span":   (*state).convertSpan,
		"code":   (*state).convertCode,
		"small":  (*state).convertSmall,
		"u":      (*state).convertUnderline,

		"a":   (*state).convertAnchor,
		"img": (*state).convertImage,

		"table":    (*state).convertTable,
		"tr":       (*state).convertTableRow,
		"td":       (*state).convertTableCell,
		"th":       (*state).convertTableHeaderCell,
		"col":      (*state).convertTableStructure,
		"colgroup": (*state).convertTableStructure,
		"thead":    (*state).convertTableStructure,
		"tbody":    (*state).convertTableStructure,

		"figure":     (*state).convertFigure,
		"figcaption": (*state).convertFigureCaption,

		"madcap-xref":         (*state).convertCrossReference,
		"madcap-snippettext":  (*state).convertSnippetText,
		"madcap-snippetblock": (*state).convertSnippetBlock,
		"madcap-variable":     (*state).convertVariable,
		"madcap-pagebreak":    (*state).convertPageBreak,
		"madcap-equation":     (*state).convertEquation,
		"madcap-dropdown":     (*state).convertDropDown,
		"madcap-codesnippet":  (*state).convertCodeSnippet,
		"madcap-keyword":      (*state).convertKeyword,
	}
}

// handlerKey normalizes a tag name for handler lookup: lower-cased, with
// the namespace separator replaced by a dash so namespaced and plain tags
// share one key space.
func handlerKey(tag string) string {
	return strings.ToLower(strings.ReplaceAll(tag, ":", "-"))
}

// SupportedTags returns the normalized tag names the converter has handlers
// for, sorted alphabetically.
func SupportedTags() []string {
	tags := make([]string, 0, len(tagHandlers))
	for tag := range tagHandlers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
