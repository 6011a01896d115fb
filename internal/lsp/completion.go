package lsp

import (
	"encoding/json"

	"github.com/openscad-go/scadc/internal/loc"
	"github.com/openscad-go/scadc/internal/query"
)

// CompletionParams represents completion request parameters.
type CompletionParams struct {
	TextDocumentPositionParams
	Context *CompletionContext `json:"context,omitempty"`
}

type CompletionContext struct {
	TriggerKind      int    `json:"triggerKind"`
	TriggerCharacter string `json:"triggerCharacter,omitempty"`
}

// TextDocumentPositionParams represents a position in a text document.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// CompletionList represents a list of completion items.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

type CompletionItem struct {
	Label  string `json:"label"`
	Kind   int    `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

const (
	completionKindFunction = 3
	completionKindVariable = 6
	completionKindModule   = 9
	completionKindKeyword  = 14
	completionKindConstant = 21
)

func (s *Server) handleCompletion(msg *jsonrpcMessage) *jsonrpcMessage {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return errorResponse(msg.ID, -32602, "Invalid params: %v", err)
	}

	s.mu.RLock()
	doc, ok := s.Documents[params.TextDocument.URI]
	s.mu.RUnlock()

	if !ok || doc.Result == nil {
		return &jsonrpcMessage{
			JSONRPC: "2.0",
			ID:      msg.ID,
			Result:  CompletionList{Items: []CompletionItem{}},
		}
	}

	offset := positionToOffset(doc.Content, params.Position)
	cctx := query.CompletionContextAt(doc.Result.Forest, doc.Content,
		loc.PositionFor(doc.Content, offset))

	kinds := make(map[string]query.SymbolKind)
	for _, sym := range query.Symbols(doc.Result.Forest) {
		kinds[sym.Name] = sym.Kind
	}

	items := make([]CompletionItem, 0, len(cctx.AvailableSymbols))
	for _, name := range cctx.AvailableSymbols {
		item := CompletionItem{
			Label: name,
			Kind:  completionKind(kinds[name]),
		}
		if cctx.Kind == query.ContextArgument && cctx.ExpectedType != "" {
			item.Detail = cctx.ExpectedType
		}
		items = append(items, item)
	}

	return &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result:  CompletionList{Items: items},
	}
}

func completionKind(kind query.SymbolKind) int {
	switch kind {
	case query.SymbolModule:
		return completionKindModule
	case query.SymbolFunction:
		return completionKindFunction
	case query.SymbolVariable, query.SymbolParameter:
		return completionKindVariable
	case query.SymbolConstant:
		return completionKindConstant
	default:
		// Built-ins carry no symbol entry.
		return completionKindKeyword
	}
}

// positionToOffset converts an LSP position to a byte offset.
func positionToOffset(content string, pos Position) int {
	line, col := 0, 0
	for i := 0; i < len(content); i++ {
		if line == pos.Line && col == pos.Character {
			return i
		}
		if content[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return len(content)
}
