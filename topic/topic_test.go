package topic

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaredoc/flare2adoc/converter"
)

func parseString(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(src), "test.htm")
	require.NoError(t, err)
	return doc
}

func TestParseTopic(t *testing.T) {
	doc := parseString(t, `<?xml version="1.0" encoding="utf-8"?>
<html xmlns:MadCap="http://www.madcapsoftware.com/Schemas/MadCap.xsd" xmlns="http://www.w3.org/1999/xhtml">
    <head>
        <title>
            Installing the Agent
        </title>
    </head>
    <body>
        <h1>Installing the Agent</h1>
        <p>Run the installer.</p>
    </body>
</html>`)

	assert.Equal(t, "test.htm", doc.Path)
	assert.Equal(t, "Installing the Agent", doc.Title)
	assert.Equal(t, converter.KindElement, doc.Root.Kind)
	assert.Equal(t, "body", doc.Root.Tag)

	var tags []string
	for _, child := range doc.Root.Children {
		if child.Kind == converter.KindElement {
			tags = append(tags, child.Tag)
		}
	}
	assert.Equal(t, []string{"h1", "p"}, tags)
}

func TestParseSelfClosingVendorElements(t *testing.T) {
	// A self-closing vendor element must not swallow its trailing
	// siblings, which is what a forgiving HTML parse would do with an
	// unknown void tag.
	doc := parseString(t, `<?xml version="1.0" encoding="utf-8"?>
<html xmlns:MadCap="http://www.madcapsoftware.com/Schemas/MadCap.xsd"><body><p>Version <MadCap:variable name="General.Version" /> and later.</p></body></html>`)

	require.Len(t, doc.Root.Children, 1)
	para := doc.Root.Children[0]
	require.Equal(t, "p", para.Tag)
	require.Len(t, para.Children, 3)

	assert.Equal(t, converter.KindText, para.Children[0].Kind)
	assert.Equal(t, "Version ", para.Children[0].Text)

	variable := para.Children[1]
	assert.Equal(t, converter.KindElement, variable.Kind)
	assert.Equal(t, "MadCap:variable", variable.Tag)
	value, ok := variable.GetAttr("name")
	require.True(t, ok)
	assert.Equal(t, "General.Version", value)
	assert.Empty(t, variable.Children)

	assert.Equal(t, converter.KindText, para.Children[2].Kind)
	assert.Equal(t, " and later.", para.Children[2].Text)
}

func TestParseAttributeNamespaces(t *testing.T) {
	doc := parseString(t, `<?xml version="1.0" encoding="utf-8"?>
<html xmlns:MadCap="http://www.madcapsoftware.com/Schemas/MadCap.xsd"><body><div MadCap:conditions="Default.PrintOnly"><p>Hidden</p></div></body></html>`)

	require.Len(t, doc.Root.Children, 1)
	div := doc.Root.Children[0]
	require.Equal(t, "div", div.Tag)
	require.Len(t, div.Attrs, 1)
	assert.Equal(t, "MadCap:conditions", div.Attrs[0].Key)
	assert.Equal(t, "Default.PrintOnly", div.Attrs[0].Val)
}

func TestParseNumericEntity(t *testing.T) {
	doc := parseString(t, `<?xml version="1.0"?><html><body><p>10&#160;GB</p></body></html>`)

	require.Len(t, doc.Root.Children, 1)
	para := doc.Root.Children[0]
	require.Len(t, para.Children, 1)
	assert.Equal(t, "10\u00a0GB", para.Children[0].Text)
}

func TestParseCommentAndCData(t *testing.T) {
	doc := parseString(t, `<?xml version="1.0"?><html><body><!-- draft --><![CDATA[raw]]></body></html>`)

	require.Len(t, doc.Root.Children, 2)
	assert.Equal(t, converter.KindComment, doc.Root.Children[0].Kind)
	assert.Equal(t, " draft ", doc.Root.Children[0].Text)
	assert.Equal(t, converter.KindCData, doc.Root.Children[1].Kind)
	assert.Equal(t, "raw", doc.Root.Children[1].Text)
}

func TestParseLenientHTML(t *testing.T) {
	// Named entities are not declared in XML, so this document exercises
	// the lenient path one way or another. Either parse must deliver the
	// decoded character.
	doc := parseString(t, `<!DOCTYPE html>
<html><head><title>Limits</title></head><body><p>10&nbsp;GB</p></body></html>`)

	assert.Equal(t, "Limits", doc.Title)
	require.NotEmpty(t, doc.Root.Children)

	var para *converter.Node
	for i := range doc.Root.Children {
		if doc.Root.Children[i].Tag == "p" {
			para = &doc.Root.Children[i]
			break
		}
	}
	require.NotNil(t, para)
	require.NotEmpty(t, para.Children)
	assert.Equal(t, "10\u00a0GB", para.Children[0].Text)
}

func TestParseNoBody(t *testing.T) {
	_, err := Parse(strings.NewReader(`<?xml version="1.0"?><settings><option/></settings>`), "settings.xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoBody)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.flsnp")
	content := `<?xml version="1.0" encoding="utf-8"?>
<html xmlns:MadCap="http://www.madcapsoftware.com/Schemas/MadCap.xsd"><body><p>Snippet text.</p></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "body", doc.Root.Tag)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.htm"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSnippetLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.flsnp")
	content := `<?xml version="1.0"?><html><body><p>Shared note.</p></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	node, err := SnippetLoader(path)
	require.NoError(t, err)
	assert.Equal(t, "body", node.Tag)

	_, err = SnippetLoader(filepath.Join(dir, "absent.flsnp"))
	require.Error(t, err)
	assert.ErrorIs(t, err, converter.ErrSnippetUnavailable)
}

func TestQualifiedName(t *testing.T) {
	tests := []struct {
		name  string
		space string
		local string
		want  string
	}{
		{name: "plain", space: "", local: "class", want: "class"},
		{name: "undeclared prefix", space: "MadCap", local: "conditions", want: "MadCap:conditions"},
		{name: "resolved vendor namespace", space: "http://www.madcapsoftware.com/Schemas/MadCap.xsd", local: "conditions", want: "MadCap:conditions"},
		{name: "foreign namespace", space: "http://www.w3.org/XML/1998/namespace", local: "lang", want: "lang"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, qualifiedName(tt.space, tt.local))
		})
	}
}

func TestParsedTopicConverts(t *testing.T) {
	doc := parseString(t, `<?xml version="1.0" encoding="utf-8"?>
<html xmlns:MadCap="http://www.madcapsoftware.com/Schemas/MadCap.xsd">
    <head><title>Quick Start</title></head>
    <body>
        <h1>Quick Start</h1>
        <p>Install the <b>agent</b> first.</p>
    </body>
</html>`)

	conv, err := converter.New(converter.Config{})
	require.NoError(t, err)

	result, err := conv.Convert(doc.Root)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "== Quick Start\n\nInstall the *agent* first.\n", result.AsciiDoc)
}
