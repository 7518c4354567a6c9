package lsp

import (
	"context"
	"encoding/json"
	"path/filepath"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/conduit-lang/ringgen/compiler/errors"
	"github.com/conduit-lang/ringgen/internal/compiler/driver"
)

const diagnosticSource = "ringgen"

func (s *Server) handleTextDocumentDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didOpen params")
	}

	doc := params.TextDocument.URI
	s.setDocument(doc, params.TextDocument.Text)
	s.publishDiagnostics(ctx, doc)

	return reply(ctx, nil, nil)
}

func (s *Server) handleTextDocumentDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didChange params")
	}

	if len(params.ContentChanges) == 0 {
		return reply(ctx, nil, nil)
	}

	// full sync, the last change holds the whole document
	doc := params.TextDocument.URI
	s.setDocument(doc, params.ContentChanges[len(params.ContentChanges)-1].Text)
	s.publishDiagnostics(ctx, doc)

	return reply(ctx, nil, nil)
}

func (s *Server) handleTextDocumentDidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didSave params")
	}

	doc := params.TextDocument.URI
	if params.Text != "" {
		s.setDocument(doc, params.Text)
	}
	s.publishDiagnostics(ctx, doc)

	return reply(ctx, nil, nil)
}

func (s *Server) handleTextDocumentDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didClose params")
	}

	doc := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, doc)
	s.mu.Unlock()

	s.notifyDiagnostics(ctx, doc, []protocol.Diagnostic{})
	return reply(ctx, nil, nil)
}

func (s *Server) setDocument(doc protocol.DocumentURI, text string) {
	s.mu.Lock()
	s.docs[doc] = text
	s.mu.Unlock()
}

func (s *Server) document(doc protocol.DocumentURI) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[doc]
	return text, ok
}

// publishDiagnostics compiles the stored text of doc and sends its diagnostics
func (s *Server) publishDiagnostics(ctx context.Context, doc protocol.DocumentURI) {
	text, ok := s.document(doc)
	if !ok {
		return
	}

	result := s.compile(documentPath(doc), []byte(text))
	diagnostics := make([]protocol.Diagnostic, 0)
	if result != nil {
		for _, d := range result.Diagnostics {
			diagnostics = append(diagnostics, toDiagnostic(d))
		}
	}
	s.notifyDiagnostics(ctx, doc, diagnostics)
}

func (s *Server) notifyDiagnostics(ctx context.Context, doc protocol.DocumentURI, diagnostics []protocol.Diagnostic) {
	if s.client == nil {
		return
	}
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         doc,
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Warn("failed to publish diagnostics", zap.String("uri", string(doc)), zap.Error(err))
	}
}

// compile runs the compiler matching the document kind. It returns nil for
// documents ringgen does not handle.
func (s *Server) compile(path string, src []byte) *driver.Result {
	switch filepath.Ext(path) {
	case ".go":
		if s.compiler.Options().IsOutput(path) {
			return nil
		}
		return s.compiler.CompileSource(path, src)
	case ".yml", ".yaml":
		return s.compiler.CompileManifestSource(path, src)
	default:
		return nil
	}
}

// toDiagnostic converts a compiler diagnostic. Locations are 1-based, LSP
// positions are 0-based.
func toDiagnostic(ce errors.CompilerError) protocol.Diagnostic {
	start := protocol.Position{}
	if ce.Location.Line > 0 {
		start.Line = uint32(ce.Location.Line - 1)
	}
	if ce.Location.Column > 0 {
		start.Character = uint32(ce.Location.Column - 1)
	}
	end := start
	if ce.Location.Length > 0 {
		end.Character += uint32(ce.Location.Length)
	}

	message := ce.Message
	if ce.Suggestion != nil && ce.Suggestion.Description != "" {
		message += "\n" + ce.Suggestion.Description
	}

	return protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: convertSeverity(ce.Severity),
		Code:     ce.Code,
		Source:   diagnosticSource,
		Message:  message,
	}
}

// convertSeverity converts compiler severity to LSP severity
func convertSeverity(severity errors.Severity) protocol.DiagnosticSeverity {
	switch severity {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Info:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}
