// Package runner drives batch conversion: it discovers topic files under
// an input directory, converts them on a bounded worker pool, writes the
// results beside-structure into an output directory, and reports.
package runner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/flaredoc/flare2adoc/converter"
	"github.com/flaredoc/flare2adoc/topic"
)

// Suffixes used for discovery and output naming. The same values are
// passed to the converter so cross-reference rewriting stays consistent
// with the files the runner actually writes.
const (
	sourceSuffix = ".htm"
	outputSuffix = ".adoc"
)

// Worker count bounds.
const (
	minJobs = 1
	maxJobs = 8
)

const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// ErrNoTopics is returned when the input directory holds no topic files.
var ErrNoTopics = errors.New("no topic files found")

// Options configure one batch run.
type Options struct {
	InputDir      string
	OutputDir     string
	SnippetsFile  string // target for snippet attribute definitions, empty disables
	Jobs          int    // worker count, 0 derives from GOMAXPROCS
	KnownSnippets []string
	Quiet         bool
	Verbose       bool

	// Stdout and Stderr default to the process streams when nil.
	Stdout io.Writer
	Stderr io.Writer
}

// FileResult is the outcome of converting a single topic.
type FileResult struct {
	InputPath  string
	OutputPath string
	Warnings   []converter.Warning
	Err        error
	Duration   time.Duration
}

// Summary tallies one run.
type Summary struct {
	Succeeded int
	Failed    int
	Warnings  int
}

// Run converts every topic under opts.InputDir. Per-document failures are
// counted in the summary and do not abort the run; the returned error
// covers setup and output problems only.
func Run(opts Options) (Summary, error) {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	files, err := discover(opts.InputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("scan %s: %w", opts.InputDir, err)
	}
	if len(files) == 0 {
		return Summary{}, fmt.Errorf("%w under %s", ErrNoTopics, opts.InputDir)
	}

	conv, err := converter.New(converter.Config{
		KnownSnippets: opts.KnownSnippets,
		SourceSuffix:  sourceSuffix,
		OutputSuffix:  outputSuffix,
		SnippetLoader: topic.SnippetLoader,
	})
	if err != nil {
		return Summary{}, err
	}

	results := convertAll(conv, files, opts)
	summary := report(stdout, stderr, results, opts)

	if opts.SnippetsFile != "" {
		if defs := conv.SnippetDefinitions(); defs != "" {
			if err := writeOutput(opts.SnippetsFile, defs); err != nil {
				return summary, fmt.Errorf("write snippet definitions: %w", err)
			}
			if !opts.Quiet {
				fmt.Fprintf(stdout, "Wrote %s\n", opts.SnippetsFile)
			}
		}
	}

	return summary, nil
}

// ResolveJobs determines the worker count. An explicit value wins,
// otherwise the GOMAXPROCS-derived default applies, clamped to keep small
// runs from over-scheduling.
func ResolveJobs(jobs int) int {
	if jobs > 0 {
		return jobs
	}

	n := runtime.GOMAXPROCS(0)
	if n < minJobs {
		return minJobs
	}
	if n > maxJobs {
		return maxJobs
	}
	return n
}

// discover lists topic files under inputDir, sorted for a stable order.
func discover(inputDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), sourceSuffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// convertAll fans the files out over a bounded worker pool. The converter
// is shared; its snippet registry is the only cross-document state and is
// internally synchronized.
func convertAll(conv *converter.Converter, files []string, opts Options) []FileResult {
	results := make([]FileResult, len(files))
	jobs := make(chan int, len(files))

	workers := ResolveJobs(opts.Jobs)
	if workers > len(files) {
		workers = len(files)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = convertFile(conv, files[idx], opts)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile loads, converts, and writes one topic.
func convertFile(conv *converter.Converter, inputPath string, opts Options) FileResult {
	start := time.Now()
	result := FileResult{InputPath: inputPath}

	rel, err := filepath.Rel(opts.InputDir, inputPath)
	if err != nil {
		rel = filepath.Base(inputPath)
	}
	result.OutputPath = filepath.Join(opts.OutputDir, swapSuffix(rel))

	doc, err := topic.Load(inputPath)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	converted, err := conv.ConvertWithOptions(doc.Root, converter.ConvertOptions{
		DocLabel:  filepath.ToSlash(rel),
		SourceDir: filepath.ToSlash(filepath.Dir(inputPath)),
	})
	result.Warnings = converted.Warnings
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	title := doc.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	}

	if err := writeOutput(result.OutputPath, renderDocument(title, converted.AsciiDoc)); err != nil {
		result.Err = err
	}
	result.Duration = time.Since(start)
	return result
}

// renderDocument prepends the document title line to the converted body.
func renderDocument(title, body string) string {
	out := "= " + title + "\n"
	if body != "" {
		out += "\n" + body
	}
	return out
}

// swapSuffix replaces the source suffix of a relative topic path with the
// output suffix, tolerating case variants of the extension.
func swapSuffix(rel string) string {
	ext := filepath.Ext(rel)
	return rel[:len(rel)-len(ext)] + outputSuffix
}

func writeOutput(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), filePermissions)
}

// report prints per-file status lines with aligned targets, the warnings,
// and a totals line, and returns the tally.
func report(stdout, stderr io.Writer, results []FileResult, opts Options) Summary {
	var summary Summary

	width := 0
	for _, r := range results {
		if w := runewidth.StringWidth(r.InputPath); w > width {
			width = w
		}
	}

	for _, r := range results {
		summary.Warnings += len(r.Warnings)

		if r.Err != nil {
			summary.Failed++
			fmt.Fprintf(stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		summary.Succeeded++

		if opts.Quiet {
			continue
		}
		pad := strings.Repeat(" ", width-runewidth.StringWidth(r.InputPath))
		if opts.Verbose {
			fmt.Fprintf(stdout, "%s%s -> %s (%v)\n", r.InputPath, pad, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(stdout, "%s%s -> %s\n", r.InputPath, pad, r.OutputPath)
		}
	}

	if !opts.Quiet {
		for _, r := range results {
			for _, warning := range r.Warnings {
				fmt.Fprintf(stderr, "%s: %s\n", warning.Doc, warning.Message)
			}
		}
	}

	if !opts.Quiet && len(results) > 1 {
		fmt.Fprintf(stdout, "\n%d succeeded, %d failed, %d warnings\n",
			summary.Succeeded, summary.Failed, summary.Warnings)
	}

	return summary
}
