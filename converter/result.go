package converter

// Result holds the output of a single document conversion.
type Result struct {
	AsciiDoc string    `json:"asciidoc"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// WarningType categorizes conversion warnings.
type WarningType string

const (
	WarningUnknownTag        WarningType = "unknown_tag"
	WarningUnknownNode       WarningType = "unknown_node"
	WarningUnsupportedValue  WarningType = "unsupported_value"
	WarningMissingAttribute  WarningType = "missing_attribute"
	WarningDroppedContent    WarningType = "dropped_content"
	WarningSourceMismatch    WarningType = "source_mismatch"
	WarningSnippetUnresolved WarningType = "snippet_unresolved"
)

// Warning represents a non-fatal issue encountered during conversion.
// Doc carries the label of the document being converted, Tag the element
// tag or node kind the warning concerns.
type Warning struct {
	Doc     string      `json:"doc,omitempty"`
	Type    WarningType `json:"type"`
	Tag     string      `json:"tag,omitempty"`
	Message string      `json:"message"`
}
