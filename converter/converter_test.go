package converter

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConverter(t testing.TB, cfg Config) *Converter {
	t.Helper()

	conv, err := New(cfg)
	require.NoError(t, err)

	return conv
}

func elem(tag string, attrs []Attr, children ...Node) Node {
	return Node{Kind: KindElement, Tag: tag, Attrs: attrs, Children: children}
}

func txt(content string) Node {
	return Node{Kind: KindText, Text: content}
}

func body(children ...Node) Node {
	return Node{Kind: KindElement, Tag: "body", Children: children}
}

func convertNodes(t *testing.T, cfg Config, children ...Node) Result {
	t.Helper()

	conv := newTestConverter(t, cfg)
	result, err := conv.Convert(body(children...))
	require.NoError(t, err)

	return result
}

func TestConvertEmptyDocument(t *testing.T) {
	result := convertNodes(t, Config{})
	assert.Empty(t, result.AsciiDoc)
	assert.Empty(t, result.Warnings)
}

func TestConvertUnknownTagWarns(t *testing.T) {
	result := convertNodes(t, Config{},
		elem("video", nil, txt("clip")),
		elem("p", nil, txt("Text.")),
	)

	assert.Equal(t, "Text.\n", result.AsciiDoc)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningUnknownTag, result.Warnings[0].Type)
	assert.Equal(t, "video", result.Warnings[0].Tag)
}

func TestConvertCDataDropped(t *testing.T) {
	result := convertNodes(t, Config{},
		Node{Kind: KindCData, Text: "var x = 1;"},
		Node{Kind: KindCData, Text: "  \n "},
	)

	assert.Empty(t, result.AsciiDoc)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningDroppedContent, result.Warnings[0].Type)
}

func TestConvertCommentForms(t *testing.T) {
	tests := []struct {
		name     string
		comment  string
		expected string
	}{
		{
			name:     "single line",
			comment:  " draft, do not publish ",
			expected: "// draft, do not publish\n",
		},
		{
			name:     "multi line",
			comment:  "first\nsecond",
			expected: "////\nfirst\nsecond\n////\n",
		},
		{
			name:     "blank",
			comment:  "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertNodes(t, Config{}, Node{Kind: KindComment, Text: tt.comment})
			assert.Equal(t, normalize(tt.expected), result.AsciiDoc)
		})
	}
}

func TestConvertTextUnindent(t *testing.T) {
	result := convertNodes(t, Config{},
		elem("p", nil, txt("first line\n    second line")),
	)
	assert.Equal(t, "first line\nsecond line\n", result.AsciiDoc)
}

func TestConvertTextNonBreakingSpace(t *testing.T) {
	result := convertNodes(t, Config{},
		elem("p", nil, txt("10\u00a0GB")),
	)
	assert.Equal(t, "10{nbsp}GB\n", result.AsciiDoc)
}

func TestConvertWarningsCarryDocLabel(t *testing.T) {
	conv := newTestConverter(t, Config{})

	result, err := conv.ConvertWithOptions(body(elem("video", nil)), ConvertOptions{DocLabel: "guide/intro.htm"})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "guide/intro.htm", result.Warnings[0].Doc)
}

func TestConvertStateDoesNotLeakAcrossDocuments(t *testing.T) {
	conv := newTestConverter(t, Config{})

	// Leave the first document mid-sentence.
	first, err := conv.Convert(body(elem("p", nil, txt("trailing text"))))
	require.NoError(t, err)
	require.NotEmpty(t, first.AsciiDoc)

	// A fresh document starts at a paragraph boundary, so its leading
	// image must be a block image.
	second, err := conv.Convert(body(
		elem("p", nil, elem("img", []Attr{{Key: "src", Val: "shot.png"}})),
	))
	require.NoError(t, err)
	assert.Equal(t, "image::shot.png[]\n", second.AsciiDoc)
}

func TestSupportedTags(t *testing.T) {
	tags := SupportedTags()

	assert.True(t, sort.StringsAreSorted(tags))
	assert.Contains(t, tags, "h1")
	assert.Contains(t, tags, "madcap-xref")
	assert.Contains(t, tags, "madcap-snippettext")
	assert.NotContains(t, tags, "MadCap:xref")
}

func TestHandlerKey(t *testing.T) {
	assert.Equal(t, "madcap-dropdown", handlerKey("MadCap:dropDown"))
	assert.Equal(t, "p", handlerKey("P"))
}

func TestAppendFragment(t *testing.T) {
	tests := []struct {
		name     string
		acc      string
		add      string
		expected string
	}{
		{
			name:     "empty accumulator",
			acc:      "",
			add:      "[NOTE]",
			expected: "[NOTE]",
		},
		{
			name:     "space before attribute list",
			acc:      "see",
			add:      "[.term]`x`",
			expected: "see [.term]`x`",
		},
		{
			name:     "no space after newline",
			acc:      "see\n",
			add:      "[NOTE]",
			expected: "see\n[NOTE]",
		},
		{
			name:     "no space after opening paren",
			acc:      "(",
			add:      "[.term]`x`",
			expected: "([.term]`x`",
		},
		{
			name:     "no space after space",
			acc:      "see ",
			add:      "[[anchor]]",
			expected: "see [[anchor]]",
		},
		{
			name:     "newline before delimiter run",
			acc:      "text",
			add:      "|===\n|a\n|===\n",
			expected: "text\n|===\n|a\n|===\n",
		},
		{
			name:     "delimiter run already on fresh line",
			acc:      "text\n",
			add:      "'''",
			expected: "text\n'''",
		},
		{
			name:     "short delimiter run left alone",
			acc:      "text",
			add:      "== not a block",
			expected: "text== not a block",
		},
		{
			name:     "plain fragments concatenate",
			acc:      "foo",
			add:      "bar",
			expected: "foobar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, appendFragment(tt.acc, tt.add))
		})
	}
}

func TestLeadingDelimiterRun(t *testing.T) {
	assert.Equal(t, 0, leadingDelimiterRun(""))
	assert.Equal(t, 0, leadingDelimiterRun("text"))
	assert.Equal(t, 2, leadingDelimiterRun("== Title"))
	assert.Equal(t, 3, leadingDelimiterRun("<<<"))
	assert.Equal(t, 4, leadingDelimiterRun("|==="))
	assert.Equal(t, 4, leadingDelimiterRun("----\ncode"))
}

// Benchmark tests

func BenchmarkConvertSimpleTopic(b *testing.B) {
	conv, err := New(Config{})
	if err != nil {
		b.Fatal(err)
	}
	input := body(
		elem("h1", nil, txt("Title")),
		txt("\n"),
		elem("p", nil, txt("Hello World")),
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := conv.Convert(input)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkConvertTable(b *testing.B) {
	conv, err := New(Config{})
	if err != nil {
		b.Fatal(err)
	}

	rows := make([]Node, 0, 20)
	for i := 0; i < 20; i++ {
		rows = append(rows, elem("tr", nil,
			elem("td", nil, txt("left")),
			elem("td", nil, txt("right")),
		))
	}
	input := body(elem("table", nil, rows...))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := conv.Convert(input)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkConvertLargeTopic(b *testing.B) {
	conv, err := New(Config{})
	if err != nil {
		b.Fatal(err)
	}

	children := make([]Node, 0, 200)
	for i := 0; i < 100; i++ {
		children = append(children,
			elem("p", nil, txt(fmt.Sprintf("Paragraph %d with ", i)), elem("b", nil, txt("emphasis")), txt(".")),
			txt("\n"),
		)
	}
	input := body(children...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := conv.Convert(input)
		if err != nil {
			b.Fatal(err)
		}
	}
}
