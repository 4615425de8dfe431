package converter

import "errors"

// ErrSnippetUnavailable indicates that a snippet source file could not be
// loaded by a SnippetLoadHook. The reference is still emitted; the snippet's
// definition stays empty and a warning is recorded.
var ErrSnippetUnavailable = errors.New("snippet source unavailable")

// ConvertOptions carries optional per-conversion context.
type ConvertOptions struct {
	// DocLabel identifies the document in warnings, typically its
	// input-relative path.
	DocLabel string

	// SourceDir is the directory of the source document, used to resolve
	// relative snippet paths.
	SourceDir string
}

// SnippetLoadHook loads a snippet source file and returns its parsed tree.
// The returned node's children are converted to produce the snippet's
// content. Returning an error wrapping ErrSnippetUnavailable degrades to a
// warning; any other error aborts the referencing document's conversion.
type SnippetLoadHook func(path string) (Node, error)
