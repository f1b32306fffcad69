package lsp

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/typeorder/config"
)

const swapSource = "class Swap {\n  int bar;\n\n  static int foo;\n}\n"

type published struct {
	params []protocol.PublishDiagnosticsParams
}

func (p *published) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				p.params = append(p.params, params.(protocol.PublishDiagnosticsParams))
			}
		},
	}
}

func (p *published) last(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	require.NotEmpty(t, p.params)
	return p.params[len(p.params)-1]
}

func open(t *testing.T, ls *Server, ctx *glsp.Context, uri, text string) {
	t.Helper()
	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "java", Version: 1, Text: text},
	}))
}

// applyEdits applies LSP text edits against the document they were computed for.
func applyEdits(doc *document, edits []protocol.TextEdit) string {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b protocol.TextEdit) int {
		return doc.offset(b.Range.Start) - doc.offset(a.Range.Start)
	})
	out := string(doc.text)
	for _, e := range sorted {
		start, end := doc.offset(e.Range.Start), doc.offset(e.Range.End)
		out = out[:start] + e.NewText + out[end:]
	}
	return out
}

func TestPosition(t *testing.T) {
	doc := newDocument("u", "u", []byte("a\nxé😀b\r\nz"))

	tests := []struct {
		offset int
		want   protocol.Position
	}{
		{0, protocol.Position{Line: 0, Character: 0}},
		{1, protocol.Position{Line: 0, Character: 1}},
		{2, protocol.Position{Line: 1, Character: 0}},
		{3, protocol.Position{Line: 1, Character: 1}},
		{5, protocol.Position{Line: 1, Character: 2}},
		{9, protocol.Position{Line: 1, Character: 4}},
		{12, protocol.Position{Line: 2, Character: 0}},
		{100, protocol.Position{Line: 2, Character: 1}},
		{-1, protocol.Position{Line: 0, Character: 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, doc.position(tt.offset), "offset %d", tt.offset)
	}
}

func TestOffset(t *testing.T) {
	doc := newDocument("u", "u", []byte("a\nxé😀b\r\nz"))

	assert.Equal(t, 0, doc.offset(protocol.Position{Line: 0, Character: 0}))
	assert.Equal(t, 9, doc.offset(protocol.Position{Line: 1, Character: 4}))
	assert.Equal(t, 10, doc.offset(protocol.Position{Line: 1, Character: 99}))
	assert.Equal(t, 1, doc.offset(protocol.Position{Line: 0, Character: 5}))
	assert.Equal(t, 13, doc.offset(protocol.Position{Line: 2, Character: 1}))
	assert.Equal(t, 13, doc.offset(protocol.Position{Line: 7, Character: 0}))

	for offset := 0; offset < len(doc.text)+1; offset++ {
		if offset == 4 || (offset > 5 && offset < 9) || offset == 11 {
			continue
		}
		assert.Equal(t, offset, doc.offset(doc.position(offset)), "offset %d", offset)
	}
}

func TestVersionOf(t *testing.T) {
	assert.Nil(t, versionOf(-1))
	require.NotNil(t, versionOf(7))
	assert.Equal(t, protocol.UInteger(7), *versionOf(7))
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///tmp/a%20b/Swap.java")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a b/Swap.java", path)

	path, err = uriToPath("untitled:Untitled-1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:Untitled-1", path)
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	ls := NewServer("test", config.DefaultConfig())
	var pub published
	ctx := pub.context()

	open(t, ls, ctx, "file:///src/Swap.java", swapSource)

	params := pub.last(t)
	assert.Equal(t, "file:///src/Swap.java", params.URI)
	require.NotNil(t, params.Version)
	assert.Equal(t, protocol.UInteger(1), *params.Version)
	require.Len(t, params.Diagnostics, 1)

	d := params.Diagnostics[0]
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 6},
		End:   protocol.Position{Line: 0, Character: 10},
	}, d.Range)
	require.NotNil(t, d.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *d.Severity)
	require.NotNil(t, d.Code)
	assert.Equal(t, "TypeMemberOrder", d.Code.Value)
	require.NotNil(t, d.Source)
	assert.Equal(t, "typeorder", *d.Source)
	assert.Contains(t, d.Message, "static fields, instance fields")
}

func TestDidChangeAndClose(t *testing.T) {
	ls := NewServer("test", config.DefaultConfig())
	var pub published
	ctx := pub.context()
	uri := "file:///src/Swap.java"

	open(t, ls, ctx, uri, swapSource)
	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "class Swap {\n  static int foo;\n\n  int bar;\n}\n"},
		},
	}))

	params := pub.last(t)
	assert.Empty(t, params.Diagnostics)
	assert.Equal(t, protocol.UInteger(2), *params.Version)
	require.NotNil(t, ls.docs.get(uri))

	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	assert.Nil(t, ls.docs.get(uri))
	assert.Empty(t, pub.last(t).Diagnostics)
	assert.Len(t, pub.params, 3)
}

func TestDidSaveReanalyses(t *testing.T) {
	ls := NewServer("test", config.DefaultConfig())
	var pub published
	ctx := pub.context()
	uri := "file:///src/Swap.java"

	open(t, ls, ctx, uri, "class Swap {}\n")
	assert.Empty(t, pub.last(t).Diagnostics)

	text := swapSource
	require.NoError(t, ls.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Text:         &text,
	}))
	assert.Len(t, pub.last(t).Diagnostics, 1)
}

func TestIgnoresOtherExtensions(t *testing.T) {
	ls := NewServer("test", config.DefaultConfig())
	var pub published

	open(t, ls, pub.context(), "file:///src/notes.txt", swapSource)
	assert.Empty(t, pub.params)
	assert.Nil(t, ls.docs.get("file:///src/notes.txt"))
}

func TestCodeAction(t *testing.T) {
	ls := NewServer("test", config.DefaultConfig())
	var pub published
	ctx := pub.context()
	uri := "file:///src/Swap.java"
	text := "class Fine {}\n" + swapSource

	open(t, ls, ctx, uri, text)

	result, err := ls.textDocumentCodeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range: protocol.Range{
			Start: protocol.Position{Line: 3, Character: 2},
			End:   protocol.Position{Line: 3, Character: 2},
		},
	})
	require.NoError(t, err)
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	require.Len(t, actions, 1)

	action := actions[0]
	assert.Equal(t, "Reorder members of Swap", action.Title)
	require.NotNil(t, action.Kind)
	assert.Equal(t, protocol.CodeActionKindQuickFix, *action.Kind)
	require.Len(t, action.Diagnostics, 1)
	require.NotNil(t, action.Edit)
	edits := action.Edit.Changes[uri]
	require.NotEmpty(t, edits)

	doc := ls.docs.get(uri)
	assert.Equal(t, "class Fine {}\nclass Swap {\n  static int foo;\n\n  int bar;\n}\n", applyEdits(doc, edits))
}

func TestCodeActionOutsideType(t *testing.T) {
	ls := NewServer("test", config.DefaultConfig())
	var pub published
	ctx := pub.context()
	uri := "file:///src/Swap.java"

	open(t, ls, ctx, uri, "class Fine {}\n"+swapSource)

	result, err := ls.textDocumentCodeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 3},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, result)

	result, err = ls.textDocumentCodeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///src/Unknown.java"},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestInitializeLoadsWorkspaceConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "typeorder.yml"), []byte("check:\n  name: Order\n"), 0o644))

	ls := NewServer("1.2.3", nil)
	result, err := ls.initialize(&glsp.Context{}, &protocol.InitializeParams{RootPath: &root})
	require.NoError(t, err)

	res, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "typeorder", res.ServerInfo.Name)
	assert.Equal(t, "1.2.3", *res.ServerInfo.Version)
	assert.Equal(t, &protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{protocol.CodeActionKindQuickFix},
	}, res.Capabilities.CodeActionProvider)

	var pub published
	open(t, ls, pub.context(), "file:///src/Swap.java", swapSource)
	params := pub.last(t)
	require.Len(t, params.Diagnostics, 1)
	assert.Equal(t, "Order", params.Diagnostics[0].Code.Value)
}
