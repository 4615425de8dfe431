package converter

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"
)

type snippetEntry struct {
	path    string
	name    string
	content string
}

// snippetRegistry deduplicates snippet references across every document
// converted by one Converter. Entries are keyed by source path; names
// listed as externally known are never registered.
type snippetRegistry struct {
	mu      sync.Mutex
	known   map[string]bool
	order   []string
	entries map[string]*snippetEntry
}

func newSnippetRegistry(known []string) *snippetRegistry {
	r := &snippetRegistry{
		known:   make(map[string]bool, len(known)),
		entries: make(map[string]*snippetEntry),
	}
	for _, name := range known {
		r.known[name] = true
	}
	return r
}

// insert registers a path under its derived name. It reports whether the
// caller won the registration and must populate the entry's content. Known
// names and already registered paths are not inserted again.
func (r *snippetRegistry) insert(path, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.known[name] {
		return false
	}
	if _, exists := r.entries[path]; exists {
		return false
	}
	r.entries[path] = &snippetEntry{path: path, name: name}
	r.order = append(r.order, path)
	return true
}

func (r *snippetRegistry) setContent(path, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[path]; ok {
		entry.content = content
	}
}

// definitions renders one attribute definition per registered snippet in
// insertion order. The pass macro keeps inline formatting inside the value
// expandable at the reference site.
func (r *snippetRegistry) definitions() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	for _, p := range r.order {
		entry := r.entries[p]
		sb.WriteString(":" + entry.name + ": pass:q[" + flattenSnippetContent(entry.content) + "]\n")
	}
	return sb.String()
}

var newlineRunRe = regexp.MustCompile(`[ \t]*\n[ \t\n]*`)

// flattenSnippetContent folds converted snippet markup onto one line;
// attribute values cannot span lines.
func flattenSnippetContent(content string) string {
	return newlineRunRe.ReplaceAllString(strings.TrimSpace(content), " ")
}

// convertSnippetText resolves an inline snippet reference to an attribute
// reference, registering and converting the snippet source on first use.
func (s *state) convertSnippetText(node Node) (string, error) {
	if len(node.Children) > 0 {
		s.addWarning(WarningDroppedContent, node.Tag, "snippet reference should be empty")
	}

	name, ok, err := s.resolveSnippet(node)
	if err != nil || !ok {
		return "", err
	}
	return "{" + name + "}", nil
}

// convertSnippetBlock emits an include directive for a block snippet. The
// included file is expected to be converted separately, so the reference
// carries the output suffix.
func (s *state) convertSnippetBlock(node Node) (string, error) {
	if len(node.Children) > 0 {
		s.addWarning(WarningDroppedContent, node.Tag, "snippet block reference should be empty")
	}

	src, ok := node.GetAttr("src")
	if !ok || src == "" {
		s.addWarning(WarningMissingAttribute, node.Tag, "snippet block without src attribute")
		return "", nil
	}

	target := src
	if strings.HasSuffix(target, s.config.SnippetSuffix) {
		target = strings.TrimSuffix(target, s.config.SnippetSuffix) + s.config.OutputSuffix
	} else {
		s.addWarning(WarningSourceMismatch, node.Tag, fmt.Sprintf("snippet path %q does not end in %s", src, s.config.SnippetSuffix))
	}
	return "\ninclude::" + target + "[]\n", nil
}

// convertVariable emits an attribute reference for a named variable. Dots
// are folded to dashes because attribute names cannot contain them.
func (s *state) convertVariable(node Node) (string, error) {
	name, ok := node.GetAttr("name")
	if !ok || name == "" {
		s.addWarning(WarningMissingAttribute, node.Tag, "variable without name attribute")
		return "", nil
	}
	return "{" + strings.ReplaceAll(name, ".", "-") + "}", nil
}

func (s *state) resolveSnippet(node Node) (string, bool, error) {
	src, ok := node.GetAttr("src")
	if !ok || src == "" {
		s.addWarning(WarningMissingAttribute, node.Tag, "snippet reference without src attribute")
		return "", false, nil
	}

	// Registering by resolved path lets documents in different directories
	// share one entry for the same snippet file.
	name := s.snippetName(node.Tag, src)
	resolved := s.resolveSourcePath(src)
	if s.conv.snippets.insert(resolved, name) {
		// Populate outside the registry lock so snippets referencing
		// further snippets can register them.
		if err := s.populateSnippet(node.Tag, resolved); err != nil {
			return "", false, err
		}
	}
	return name, true, nil
}

// snippetName derives a snippet's attribute name from its source path:
// the base name without the snippet suffix, dots folded to dashes.
func (s *state) snippetName(tag, src string) string {
	base := path.Base(src)
	if !strings.HasSuffix(base, s.config.SnippetSuffix) {
		s.addWarning(WarningSourceMismatch, tag, fmt.Sprintf("snippet path %q does not end in %s", src, s.config.SnippetSuffix))
	}
	name := strings.TrimSuffix(base, s.config.SnippetSuffix)
	return strings.ReplaceAll(name, ".", "-")
}

// populateSnippet loads and converts a snippet source, storing the result
// in the registry. A missing source degrades to a warning; any other
// loader or conversion failure aborts the document.
func (s *state) populateSnippet(tag, resolved string) error {
	loader := s.config.SnippetLoader
	if loader == nil {
		s.addWarning(WarningSnippetUnresolved, tag, fmt.Sprintf("no snippet loader configured for %s", resolved))
		return nil
	}

	root, err := loader(resolved)
	if err != nil {
		if errors.Is(err, ErrSnippetUnavailable) {
			s.addWarning(WarningSnippetUnresolved, tag, fmt.Sprintf("snippet %s: %v", resolved, err))
			return nil
		}
		return fmt.Errorf("snippet %s: %w", resolved, err)
	}

	// Nested references resolve relative to the snippet's own directory,
	// and its warnings carry the snippet path as document label.
	opts := s.options
	opts.DocLabel = resolved
	opts.SourceDir = path.Dir(resolved)

	sub := newState(s.conv, opts)
	content, err := sub.convertChildren(root, false)
	s.warnings = append(s.warnings, sub.warnings...)
	if err != nil {
		return fmt.Errorf("snippet %s: %w", resolved, err)
	}
	s.conv.snippets.setContent(resolved, normalize(content))
	return nil
}

// resolveSourcePath joins a snippet reference with the source directory of
// the current document. References use forward slashes regardless of host.
func (s *state) resolveSourcePath(src string) string {
	if s.options.SourceDir == "" {
		return path.Clean(src)
	}
	return path.Join(s.options.SourceDir, src)
}
