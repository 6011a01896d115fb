package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/loc"
	"github.com/openscad-go/scadc/internal/query"
)

// HoverParams represents hover request parameters.
type HoverParams struct {
	TextDocumentPositionParams
}

// Hover represents hover information.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func (s *Server) handleHover(msg *jsonrpcMessage) *jsonrpcMessage {
	var params HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return errorResponse(msg.ID, -32602, "Invalid params: %v", err)
	}

	s.mu.RLock()
	doc, ok := s.Documents[params.TextDocument.URI]
	s.mu.RUnlock()

	if !ok || doc.Result == nil {
		return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: nil}
	}

	return &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result:  hoverAt(doc, params.Position),
	}
}

func hoverAt(doc *Document, pos Position) *Hover {
	offset := positionToOffset(doc.Content, pos)
	position := loc.PositionFor(doc.Content, offset)

	node := query.FindNodeAt(doc.Result.Forest, position)
	ident, ok := node.(*ast.Identifier)
	if !ok {
		return nil
	}

	content := ""
	for _, sym := range query.Symbols(doc.Result.Forest) {
		if sym.Name != ident.Name {
			continue
		}
		switch sym.Kind {
		case query.SymbolModule:
			content = fmt.Sprintf("```openscad\nmodule %s(%s)\n```", sym.Name, strings.Join(sym.Parameters, ", "))
		case query.SymbolFunction:
			content = fmt.Sprintf("```openscad\nfunction %s(%s)\n```", sym.Name, strings.Join(sym.Parameters, ", "))
		default:
			content = fmt.Sprintf("```openscad\n%s\n```", sym.Name)
		}
		break
	}
	if content == "" {
		return nil
	}

	span := ident.Span()
	return &Hover{
		Contents: MarkupContent{Kind: "markdown", Value: content},
		Range: &Range{
			Start: Position{Line: span.Start.Line, Character: span.Start.Column},
			End:   Position{Line: span.End.Line, Character: span.End.Column},
		},
	}
}
