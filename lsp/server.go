// Package lsp serves member order diagnostics and quick fixes to editors
// over the Language Server Protocol.
package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/typeorder/config"
	"github.com/dhamidi/typeorder/order"
)

const lsName = "typeorder"

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	cfg      *config.Config
	analyzer *order.Analyzer
	docs     *documents
	log      commonlog.Logger
}

// NewServer creates a language server. A nil cfg is resolved from the
// workspace root when the client connects.
func NewServer(version string, cfg *config.Config) *Server {
	ls := &Server{
		version: version,
		cfg:     cfg,
		docs:    newDocuments(),
		log:     commonlog.GetLogger("typeorder.lsp"),
	}
	if cfg != nil {
		ls.analyzer = order.NewAnalyzer(cfg.Order(), order.ModeRefactor)
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCodeAction: ls.textDocumentCodeAction,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if ls.analyzer == nil {
		rootDir := "."
		if params.RootPath != nil && *params.RootPath != "" {
			rootDir = *params.RootPath
		} else if params.RootURI != nil && *params.RootURI != "" {
			if path, err := uriToPath(*params.RootURI); err == nil {
				rootDir = path
			}
		}
		ls.configure(rootDir)
	}

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CodeActionProvider = &protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{protocol.CodeActionKindQuickFix},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

// configure loads the config file found in rootDir, falling back to the
// defaults when it is missing or invalid.
func (ls *Server) configure(rootDir string) {
	cfg := config.DefaultConfig()
	if path := config.Discover(rootDir); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			ls.log.Warningf("%s; using defaults", err)
		} else {
			cfg = loaded
			ls.log.Infof("using config %s", path)
		}
	}
	ls.cfg = cfg
	ls.analyzer = order.NewAnalyzer(cfg.Order(), order.ModeRefactor)
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, versionOf(params.TextDocument.Version), params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.update(ctx, params.TextDocument.URI, versionOf(params.TextDocument.Version), textChange.Text)
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.docs.remove(params.TextDocument.URI)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	var version *protocol.UInteger
	if doc := ls.docs.get(params.TextDocument.URI); doc != nil {
		version = doc.version
	}
	ls.update(ctx, params.TextDocument.URI, version, *params.Text)
	return nil
}

// update re-analyses a buffer and publishes its diagnostics.
func (ls *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, version *protocol.UInteger, text string) {
	path, err := uriToPath(uri)
	if err != nil {
		ls.log.Warningf("ignoring %s: %s", uri, err)
		return
	}
	if !ls.wants(path) {
		return
	}

	doc := newDocument(uri, path, []byte(text))
	doc.version = version
	diags, err := ls.analyzer.Analyze(doc.text, path)
	if err != nil {
		ls.log.Errorf("%s: %s", path, err)
	}
	doc.diags = diags
	ls.docs.put(doc)

	ls.log.Debugf("%s: %d finding(s)", path, len(diags))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: toProtocolDiagnostics(doc),
	})
}

// wants reports whether path has one of the configured extensions.
func (ls *Server) wants(path string) bool {
	for _, ext := range ls.cfg.Files.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (ls *Server) textDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := ls.docs.get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return codeActions(doc, params.Range), nil
}

func toProtocolDiagnostics(doc *document) []protocol.Diagnostic {
	result := make([]protocol.Diagnostic, 0, len(doc.diags))
	for _, d := range doc.diags {
		result = append(result, toProtocolDiagnostic(doc, d))
	}
	return result
}

func toProtocolDiagnostic(doc *document, d order.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityWarning
	source := lsName
	return protocol.Diagnostic{
		Range:    doc.rangeOf(d.NameSpan.Start.Offset, d.NameSpan.End.Offset),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.Check},
		Source:   &source,
		Message:  d.Message,
	}
}

// codeActions offers a quick fix for every fixable type whose declaration
// overlaps rng.
func codeActions(doc *document, rng protocol.Range) []protocol.CodeAction {
	start, end := doc.offset(rng.Start), doc.offset(rng.End)

	var actions []protocol.CodeAction
	for _, d := range doc.diags {
		if d.Fix.IsEmpty() {
			continue
		}
		if end < d.Span.Start.Offset || start > d.Span.End.Offset {
			continue
		}

		edits := make([]protocol.TextEdit, 0, len(d.Fix))
		for _, r := range d.Fix {
			edits = append(edits, protocol.TextEdit{
				Range:   doc.rangeOf(r.Span.Start, r.Span.End),
				NewText: r.NewText,
			})
		}

		kind := protocol.CodeActionKindQuickFix
		actions = append(actions, protocol.CodeAction{
			Title:       fmt.Sprintf("Reorder members of %s", d.TypeName),
			Kind:        &kind,
			Diagnostics: []protocol.Diagnostic{toProtocolDiagnostic(doc, d)},
			IsPreferred: boolPtr(true),
			Edit: &protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentUri][]protocol.TextEdit{doc.uri: edits},
			},
		})
	}
	return actions
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
