// Package lsp implements a Language Server Protocol server for OpenSCAD over
// stdio. Each document edit runs the full frontend pipeline, so diagnostics
// reflect recovery: errors the engine can patch still surface, but the AST
// behind hover and completion is the recovered one.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/openscad-go/scadc/internal/cst"
	"github.com/openscad-go/scadc/internal/diag"
	"github.com/openscad-go/scadc/internal/driver"
)

// Server represents the LSP server.
type Server struct {
	// Documents tracks open files by URI.
	Documents map[string]*Document
	mu        sync.RWMutex

	provider cst.Provider
	out      io.Writer
	rootPath string
}

// Document represents an open document and its last compile result.
type Document struct {
	URI     string
	Content string
	Version int
	Result  *driver.Result
}

// NewServer creates an LSP server over the given CST provider.
func NewServer(provider cst.Provider) *Server {
	return &Server{
		Documents: make(map[string]*Document),
		provider:  provider,
		out:       os.Stdout,
	}
}

// Run starts the LSP server, reading from stdin and writing to stdout.
func (s *Server) Run(ctx context.Context) error {
	reader := bufio.NewReader(os.Stdin)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Read Content-Length header
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to read header: %w", err)
		}

		var contentLength int
		if _, err := fmt.Sscanf(line, "Content-Length: %d", &contentLength); err != nil {
			log.Printf("Invalid Content-Length header: %v", err)
			continue
		}

		// Read blank line
		if _, err := reader.ReadString('\n'); err != nil {
			return fmt.Errorf("failed to read blank line: %w", err)
		}

		body := make([]byte, contentLength)
		if _, err := io.ReadFull(reader, body); err != nil {
			return fmt.Errorf("failed to read message body: %w", err)
		}

		var msg jsonrpcMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			log.Printf("Failed to parse JSON-RPC message: %v", err)
			continue
		}

		response := s.handleMessage(ctx, &msg)
		if response != nil {
			if err := s.sendMessage(response); err != nil {
				log.Printf("Failed to send response: %v", err)
			}
		}
	}
}

// jsonrpcMessage represents a JSON-RPC 2.0 message.
type jsonrpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleMessage(ctx context.Context, msg *jsonrpcMessage) *jsonrpcMessage {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "textDocument/didOpen":
		s.handleDidOpen(ctx, msg)
		return nil
	case "textDocument/didChange":
		s.handleDidChange(ctx, msg)
		return nil
	case "textDocument/didClose":
		s.handleDidClose(msg)
		return nil
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	case "shutdown":
		return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: nil}
	default:
		if msg.ID != nil {
			return &jsonrpcMessage{
				JSONRPC: "2.0",
				ID:      msg.ID,
				Error: &jsonrpcError{
					Code:    -32601,
					Message: fmt.Sprintf("Method not found: %s", msg.Method),
				},
			}
		}
		return nil
	}
}

func (s *Server) sendMessage(msg *jsonrpcMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))
	if _, err := s.out.Write([]byte(header)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	return nil
}

func errorResponse(id interface{}, code int, format string, args ...interface{}) *jsonrpcMessage {
	return &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &jsonrpcError{Code: code, Message: fmt.Sprintf(format, args...)},
	}
}

// InitializeParams represents the initialize request parameters.
type InitializeParams struct {
	ProcessID    int                    `json:"processId,omitempty"`
	RootPath     string                 `json:"rootPath,omitempty"`
	RootURI      string                 `json:"rootUri,omitempty"`
	Capabilities map[string]interface{} `json:"capabilities,omitempty"`
}

// InitializeResult represents the initialize response.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

type ServerCapabilities struct {
	TextDocumentSync       int                    `json:"textDocumentSync"`
	CompletionProvider     map[string]interface{} `json:"completionProvider,omitempty"`
	HoverProvider          bool                   `json:"hoverProvider"`
	DefinitionProvider     bool                   `json:"definitionProvider"`
	DocumentSymbolProvider bool                   `json:"documentSymbolProvider"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (s *Server) handleInitialize(msg *jsonrpcMessage) *jsonrpcMessage {
	var params InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return errorResponse(msg.ID, -32602, "Invalid params: %v", err)
	}

	if params.RootURI != "" {
		s.rootPath = uriToPath(params.RootURI)
	} else if params.RootPath != "" {
		s.rootPath = params.RootPath
	}

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: 1, // full document sync
			CompletionProvider: map[string]interface{}{
				"triggerCharacters": []string{"$"},
			},
			HoverProvider:          true,
			DefinitionProvider:     true,
			DocumentSymbolProvider: true,
		},
		ServerInfo: ServerInfo{
			Name:    "scad-lsp",
			Version: "0.1.0",
		},
	}

	return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: result}
}

// DidOpenTextDocumentParams represents didOpen notification parameters.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

func (s *Server) handleDidOpen(ctx context.Context, msg *jsonrpcMessage) {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		log.Printf("Failed to parse didOpen params: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &Document{
		URI:     params.TextDocument.URI,
		Content: params.TextDocument.Text,
		Version: params.TextDocument.Version,
	}
	s.updateDocument(ctx, doc)
	s.Documents[params.TextDocument.URI] = doc
	s.publishDiagnostics(doc)
}

// DidChangeTextDocumentParams represents didChange notification parameters.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

func (s *Server) handleDidChange(ctx context.Context, msg *jsonrpcMessage) {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		log.Printf("Failed to parse didChange params: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.Documents[params.TextDocument.URI]
	if !ok {
		return
	}
	if len(params.ContentChanges) > 0 {
		doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
		doc.Version = params.TextDocument.Version
		s.updateDocument(ctx, doc)
		s.publishDiagnostics(doc)
	}
}

func (s *Server) handleDidClose(msg *jsonrpcMessage) {
	var params struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		log.Printf("Failed to parse didClose params: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Documents, params.TextDocument.URI)
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// updateDocument runs the pipeline on the document's current content.
func (s *Server) updateDocument(ctx context.Context, doc *Document) {
	d := driver.New(s.provider, driver.WithFilename(uriToPath(doc.URI)))
	result, err := d.Compile(ctx, doc.Content)
	if err != nil {
		log.Printf("compile %s: %v", doc.URI, err)
		return
	}
	doc.Result = result
}

// publishDiagnostics sends the document's diagnostics to the client.
func (s *Server) publishDiagnostics(doc *Document) {
	var diagnostics []Diagnostic
	if doc.Result != nil {
		diagnostics = make([]Diagnostic, 0, len(doc.Result.Diagnostics))
		for _, d := range doc.Result.Diagnostics {
			diagnostics = append(diagnostics, Diagnostic{
				Range:    rangeFor(d),
				Severity: diagnosticSeverity(d.Severity),
				Message:  d.Message,
				Code:     string(d.Code),
				Source:   string(d.Source),
			})
		}
	}

	params, _ := json.Marshal(map[string]interface{}{
		"uri":         doc.URI,
		"diagnostics": diagnostics,
	})
	notification := &jsonrpcMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params:  params,
	}
	if err := s.sendMessage(notification); err != nil {
		log.Printf("Failed to publish diagnostics: %v", err)
	}
}

// Diagnostic represents an LSP diagnostic.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
	Source   string `json:"source,omitempty"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// rangeFor maps a diagnostic span to an LSP range. Internal positions are
// already 0-based, so this is a field-by-field copy.
func rangeFor(d diag.Diagnostic) Range {
	return Range{
		Start: Position{Line: d.Span.Start.Line, Character: d.Span.Start.Column},
		End:   Position{Line: d.Span.End.Line, Character: d.Span.End.Column},
	}
}

func diagnosticSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SeverityError:
		return 1
	case diag.SeverityWarning:
		return 2
	case diag.SeverityInfo:
		return 3
	case diag.SeverityHint:
		return 4
	default:
		return 1
	}
}

// uriToPath converts a file:// URI to a file path.
func uriToPath(uri string) string {
	if len(uri) > 7 && uri[:7] == "file://" {
		path := uri[7:]
		// Handle Windows paths
		if len(path) > 0 && path[0] == '/' && len(path) > 2 && path[2] == ':' {
			path = path[1:]
		}
		return path
	}
	return uri
}
