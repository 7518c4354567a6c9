package lsp

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/conduit-lang/ringgen/compiler/errors"
	"github.com/conduit-lang/ringgen/internal/compiler/driver"
)

const zeroCapacity = `//go:build ringgen

package queue

//ringgen:buffer 0
type Zero struct {
	data []int
}
`

const validTemplate = `//go:build ringgen

package queue

//ringgen:buffer 4
type Ints struct {
	data []int
}
`

const orphanTemplate = `//go:build ringgen

package queue

//ringgen:buffer 4
var x = 1
`

type testClient struct {
	conn      jsonrpc2.Conn
	published chan protocol.PublishDiagnosticsParams
}

func startServer(t *testing.T) *testClient {
	t.Helper()

	serverSide, clientSide := net.Pipe()
	server := NewServer(driver.New(driver.DefaultOptions(), nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, serverSide) }()

	tc := &testClient{
		conn:      jsonrpc2.NewConn(jsonrpc2.NewStream(clientSide)),
		published: make(chan protocol.PublishDiagnosticsParams, 16),
	}
	tc.conn.Go(ctx, func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() == protocol.MethodTextDocumentPublishDiagnostics {
			var params protocol.PublishDiagnosticsParams
			if err := json.Unmarshal(req.Params(), &params); err == nil {
				tc.published <- params
			}
		}
		return reply(ctx, nil, nil)
	})

	t.Cleanup(func() {
		cancel()
		_ = tc.conn.Close()
		<-done
	})
	return tc
}

func (tc *testClient) open(t *testing.T, doc protocol.DocumentURI, text string) {
	t.Helper()
	err := tc.conn.Notify(context.Background(), protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        doc,
			LanguageID: "go",
			Version:    1,
			Text:       text,
		},
	})
	require.NoError(t, err)
}

func (tc *testClient) next(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	select {
	case params := <-tc.published:
		return params
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for diagnostics")
		return protocol.PublishDiagnosticsParams{}
	}
}

func fileURI(path string) protocol.DocumentURI {
	return protocol.DocumentURI(uri.File(path))
}

func TestServer_Initialize(t *testing.T) {
	tc := startServer(t)

	var result protocol.InitializeResult
	_, err := tc.conn.Call(context.Background(), protocol.MethodInitialize, &protocol.InitializeParams{}, &result)
	require.NoError(t, err)

	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, "ringgen-lsp", result.ServerInfo.Name)
	assert.NotNil(t, result.Capabilities.TextDocumentSync)
}

func TestServer_PublishesErrors(t *testing.T) {
	tc := startServer(t)
	doc := fileURI("/tmp/queue/zero.go")

	tc.open(t, doc, zeroCapacity)
	params := tc.next(t)

	assert.Equal(t, doc, params.URI)
	require.Len(t, params.Diagnostics, 1)
	d := params.Diagnostics[0]
	assert.Equal(t, "E002", d.Code)
	assert.Equal(t, protocol.DiagnosticSeverityError, d.Severity)
	assert.Equal(t, diagnosticSource, d.Source)
	assert.Equal(t, uint32(4), d.Range.Start.Line)
	assert.Equal(t, uint32(17), d.Range.Start.Character)
}

func TestServer_ChangeClearsDiagnostics(t *testing.T) {
	tc := startServer(t)
	doc := fileURI("/tmp/queue/zero.go")

	tc.open(t, doc, zeroCapacity)
	require.Len(t, tc.next(t).Diagnostics, 1)

	err := tc.conn.Notify(context.Background(), protocol.MethodTextDocumentDidChange, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: doc},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: validTemplate}},
	})
	require.NoError(t, err)

	assert.Empty(t, tc.next(t).Diagnostics)
}

func TestServer_OrphanDirectiveWarning(t *testing.T) {
	tc := startServer(t)
	doc := fileURI("/tmp/queue/orphan.go")

	tc.open(t, doc, orphanTemplate)
	params := tc.next(t)

	require.Len(t, params.Diagnostics, 1)
	assert.Equal(t, "E301", params.Diagnostics[0].Code)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, params.Diagnostics[0].Severity)
}

func TestServer_CloseClearsDiagnostics(t *testing.T) {
	tc := startServer(t)
	doc := fileURI("/tmp/queue/zero.go")

	tc.open(t, doc, zeroCapacity)
	require.Len(t, tc.next(t).Diagnostics, 1)

	err := tc.conn.Notify(context.Background(), protocol.MethodTextDocumentDidClose, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: doc},
	})
	require.NoError(t, err)

	params := tc.next(t)
	assert.Equal(t, doc, params.URI)
	assert.Empty(t, params.Diagnostics)
}

func TestServer_IgnoresOtherDocuments(t *testing.T) {
	tc := startServer(t)

	tc.open(t, fileURI("/tmp/queue/README.md"), "//ringgen:buffer 0")
	assert.Empty(t, tc.next(t).Diagnostics)

	tc.open(t, fileURI("/tmp/queue/zero_ring.go"), zeroCapacity)
	assert.Empty(t, tc.next(t).Diagnostics)
}

func TestToDiagnostic(t *testing.T) {
	ce := errors.NewCompilerError(
		errors.PhaseShape,
		errors.ErrMissingDataField,
		"ringgen:buffer requires a field named 'data' of type []T",
		errors.SourceLocation{File: "a.go", Line: 3, Column: 6, Length: 4},
		errors.Error,
	).WithSuggestion(errors.FixSuggestion{Description: "Did you mean to name field 'dat' 'data'?"})

	d := toDiagnostic(ce)

	assert.Equal(t, protocol.Position{Line: 2, Character: 5}, d.Range.Start)
	assert.Equal(t, protocol.Position{Line: 2, Character: 9}, d.Range.End)
	assert.Equal(t, "E102", d.Code)
	assert.Contains(t, d.Message, "Did you mean")
}

func TestToDiagnostic_NoLocation(t *testing.T) {
	d := toDiagnostic(errors.NewCompilerError(errors.PhaseCodegen, errors.ErrFormatFailed, "boom", errors.SourceLocation{}, errors.Error))

	assert.Equal(t, protocol.Position{}, d.Range.Start)
	assert.Equal(t, protocol.Position{}, d.Range.End)
}

func TestConvertSeverity(t *testing.T) {
	tests := []struct {
		name     string
		input    errors.Severity
		expected protocol.DiagnosticSeverity
	}{
		{"Error severity", errors.Error, protocol.DiagnosticSeverityError},
		{"Fatal severity", errors.Fatal, protocol.DiagnosticSeverityError},
		{"Warning severity", errors.Warning, protocol.DiagnosticSeverityWarning},
		{"Info severity", errors.Info, protocol.DiagnosticSeverityInformation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, convertSeverity(tt.input))
		})
	}
}

func TestDocumentPath(t *testing.T) {
	assert.Equal(t, "/tmp/queue/a.go", documentPath(fileURI("/tmp/queue/a.go")))
	assert.Equal(t, "untitled:Untitled-1", documentPath("untitled:Untitled-1"))
}
