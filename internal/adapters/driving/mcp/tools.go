package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
)

// AskInput is the input schema for the ask_document tool.
type AskInput struct {
	DocumentID string `json:"document_id" jsonschema:"the ID of the document to ask about"`
	Question   string `json:"question" jsonschema:"the question to answer from the document"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"number of context snippets to retrieve (default 5)"`
}

// AskOutput is the output schema for the ask_document tool.
type AskOutput struct {
	Answer   string          `json:"answer"`
	Snippets []SnippetOutput `json:"snippets,omitempty"`
}

// SnippetOutput is one context snippet the answer was generated from.
type SnippetOutput struct {
	Text    string `json:"text"`
	Page    int    `json:"page,omitempty"`
	Section string `json:"section,omitempty"`
}

// SearchPapersInput is the input schema for the search_papers tool.
type SearchPapersInput struct {
	Query string `json:"query" jsonschema:"the semantic search query over paper abstracts"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of papers to return (default 10)"`
}

// SearchPapersOutput is the output schema for the search_papers tool.
type SearchPapersOutput struct {
	Papers []PaperOutput `json:"papers"`
	Count  int           `json:"count"`
}

// PaperOutput represents a single paper result.
type PaperOutput struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	ArxivID    string `json:"arxiv_id,omitempty"`
	Abstract   string `json:"abstract,omitempty"`
	Published  string `json:"published,omitempty"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []PaperOutput `json:"documents"`
	Count     int           `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_document",
		Description: "Answer a question strictly from the content of one ingested document",
	}, s.handleAsk)

	if s.ports.Papers != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search_papers",
			Description: "Semantic search over the shared corpus of arXiv paper abstracts",
		}, s.handleSearchPapers)
	}

	if s.ports.Library != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List the user's ingested documents",
		}, s.handleListDocuments)
	}
}

// handleAsk handles the ask_document tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	result, err := s.ports.Assistant.Ask(ctx, driving.AskRequest{
		DocumentID: input.DocumentID,
		UserID:     s.ports.UserID,
		Question:   input.Question,
		TopK:       input.TopK,
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:   result.Answer,
		Snippets: make([]SnippetOutput, len(result.Snippets)),
	}
	for i, snip := range result.Snippets {
		out := SnippetOutput{Text: snip.Text, Section: snip.Section}
		if snip.Page != domain.PageUnknown {
			out.Page = snip.Page
		}
		output.Snippets[i] = out
	}

	return nil, output, nil
}

// handleSearchPapers handles the search_papers tool invocation.
func (s *Server) handleSearchPapers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchPapersInput,
) (*mcp.CallToolResult, SearchPapersOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	papers, err := s.ports.Papers.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchPapersOutput{}, err
	}

	output := SearchPapersOutput{
		Papers: make([]PaperOutput, len(papers)),
		Count:  len(papers),
	}
	for i := range papers {
		output.Papers[i] = toPaperOutput(&papers[i])
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Library.List(ctx, s.ports.UserID)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]PaperOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = toPaperOutput(&docs[i])
	}

	return nil, output, nil
}

func toPaperOutput(doc *domain.Document) PaperOutput {
	out := PaperOutput{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Abstract:   doc.Abstract,
	}
	if doc.ExternalID != nil {
		out.ArxivID = *doc.ExternalID
	}
	if !doc.Published.IsZero() {
		out.Published = doc.Published.Format("2006-01-02")
	}
	return out
}
