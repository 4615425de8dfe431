package converter

import (
	"fmt"
	"strings"
)

// Config holds all converter configuration options.
type Config struct {
	// KnownSnippets lists snippet names whose definitions already exist
	// elsewhere; references to them are emitted but never re-converted.
	KnownSnippets []string `json:"knownSnippets,omitempty"`

	// SourceSuffix is the file extension of source topics, rewritten to
	// OutputSuffix inside cross-references.
	SourceSuffix string `json:"sourceSuffix,omitempty"`

	// OutputSuffix is the file extension of converted documents.
	OutputSuffix string `json:"outputSuffix,omitempty"`

	// SnippetSuffix is the file extension of snippet source files.
	SnippetSuffix string `json:"snippetSuffix,omitempty"`

	// SnippetLoader loads and parses a snippet source file on first
	// reference. A nil loader leaves snippet contents empty with a warning.
	SnippetLoader SnippetLoadHook `json:"-"`
}

func (c Config) applyDefaults() Config {
	if c.SourceSuffix == "" {
		c.SourceSuffix = ".htm"
	}
	if c.OutputSuffix == "" {
		c.OutputSuffix = ".adoc"
	}
	if c.SnippetSuffix == "" {
		c.SnippetSuffix = ".flsnp"
	}

	return c
}

// clone returns a deep copy of Config for slice-backed fields.
func (c Config) clone() Config {
	cloned := c
	if c.KnownSnippets != nil {
		cloned.KnownSnippets = make([]string, len(c.KnownSnippets))
		copy(cloned.KnownSnippets, c.KnownSnippets)
	}
	cloned.SnippetLoader = c.SnippetLoader
	return cloned
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if err := validateSuffix("sourceSuffix", c.SourceSuffix); err != nil {
		return err
	}
	if err := validateSuffix("outputSuffix", c.OutputSuffix); err != nil {
		return err
	}
	if err := validateSuffix("snippetSuffix", c.SnippetSuffix); err != nil {
		return err
	}
	if c.SourceSuffix == c.OutputSuffix {
		return fmt.Errorf("sourceSuffix and outputSuffix must differ, both are %q", c.SourceSuffix)
	}
	for _, name := range c.KnownSnippets {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("knownSnippets contains empty name")
		}
	}

	return nil
}

func validateSuffix(field, suffix string) error {
	if !strings.HasPrefix(suffix, ".") || len(suffix) < 2 {
		return fmt.Errorf("invalid %s %q: must start with a dot", field, suffix)
	}
	if strings.ContainsAny(suffix[1:], "./\\") {
		return fmt.Errorf("invalid %s %q", field, suffix)
	}
	return nil
}
