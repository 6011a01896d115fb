package lsp

import (
	"encoding/json"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/loc"
	"github.com/openscad-go/scadc/internal/query"
)

// DocumentSymbolParams represents documentSymbol request parameters.
type DocumentSymbolParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// SymbolInformation is the flat symbol listing form of the protocol.
type SymbolInformation struct {
	Name     string   `json:"name"`
	Kind     int      `json:"kind"`
	Location Location `json:"location"`
}

type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

const (
	symbolKindModule   = 2
	symbolKindFunction = 12
	symbolKindVariable = 13
	symbolKindConstant = 14
)

func (s *Server) handleDocumentSymbol(msg *jsonrpcMessage) *jsonrpcMessage {
	var params DocumentSymbolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return errorResponse(msg.ID, -32602, "Invalid params: %v", err)
	}

	s.mu.RLock()
	doc, ok := s.Documents[params.TextDocument.URI]
	s.mu.RUnlock()

	if !ok || doc.Result == nil {
		return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: []SymbolInformation{}}
	}

	var symbols []SymbolInformation
	for _, sym := range query.Symbols(doc.Result.Forest) {
		// Parameters are scoped to their definition; the outline skips them.
		if sym.Kind == query.SymbolParameter {
			continue
		}
		symbols = append(symbols, SymbolInformation{
			Name: sym.Name,
			Kind: symbolKind(sym.Kind),
			Location: Location{
				URI:   doc.URI,
				Range: rangeForSpan(sym.Span),
			},
		})
	}

	return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: symbols}
}

func symbolKind(kind query.SymbolKind) int {
	switch kind {
	case query.SymbolModule:
		return symbolKindModule
	case query.SymbolFunction:
		return symbolKindFunction
	case query.SymbolConstant:
		return symbolKindConstant
	default:
		return symbolKindVariable
	}
}

func rangeForSpan(span loc.Span) Range {
	return Range{
		Start: Position{Line: span.Start.Line, Character: span.Start.Column},
		End:   Position{Line: span.End.Line, Character: span.End.Column},
	}
}

// DefinitionParams represents definition request parameters.
type DefinitionParams struct {
	TextDocumentPositionParams
}

func (s *Server) handleDefinition(msg *jsonrpcMessage) *jsonrpcMessage {
	var params DefinitionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return errorResponse(msg.ID, -32602, "Invalid params: %v", err)
	}

	s.mu.RLock()
	doc, ok := s.Documents[params.TextDocument.URI]
	s.mu.RUnlock()

	if !ok || doc.Result == nil {
		return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: nil}
	}

	offset := positionToOffset(doc.Content, params.Position)
	position := loc.PositionFor(doc.Content, offset)

	name := ""
	switch node := query.FindNodeAt(doc.Result.Forest, position).(type) {
	case *ast.Identifier:
		name = node.Name
	case *ast.ModuleInstantiation:
		name = node.Name
	default:
		return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: nil}
	}

	for _, sym := range query.Symbols(doc.Result.Forest) {
		if sym.Name == name && sym.Kind != query.SymbolParameter {
			return &jsonrpcMessage{
				JSONRPC: "2.0",
				ID:      msg.ID,
				Result: Location{
					URI:   doc.URI,
					Range: rangeForSpan(sym.Span),
				},
			}
		}
	}
	return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: nil}
}
