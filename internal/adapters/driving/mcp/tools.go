package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

// SearchQuotesInput is the input schema for the search_quotes tool.
type SearchQuotesInput struct {
	Query     string `json:"query" jsonschema:"conversation snippet to find in-character lines for"`
	Character string `json:"character" jsonschema:"speaker whose lines are searched, e.g. Jerry or George"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of quotes to return (default 5, max 50)"`
}

// SearchQuotesOutput is the output schema for the search_quotes tool.
type SearchQuotesOutput struct {
	Character string        `json:"character"`
	Quotes    []QuoteOutput `json:"quotes"`
	Count     int           `json:"count"`
}

// QuoteOutput represents a single ranked quote.
type QuoteOutput struct {
	LineID  string  `json:"line_id"`
	Text    string  `json:"text"`
	Episode string  `json:"episode,omitempty"`
	Score   float64 `json:"score"`
}

// BackfillInput is the input schema for the backfill_embeddings tool. It takes no arguments.
type BackfillInput struct{}

// BackfillOutput is the output schema for the backfill_embeddings tool.
type BackfillOutput struct {
	Processed  int    `json:"processed"`
	Candidates int    `json:"candidates"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
	CorpusSize int    `json:"corpus_size"`
	Message    string `json:"message"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_quotes",
		Description: "Find a character's script lines that best fit a conversation snippet",
	}, s.handleSearchQuotes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "backfill_embeddings",
		Description: "Embed every script line that has no embedding yet",
	}, s.handleBackfill)
}

// handleSearchQuotes handles the search_quotes tool invocation.
func (s *Server) handleSearchQuotes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchQuotesInput,
) (*mcp.CallToolResult, SearchQuotesOutput, error) {
	query := domain.Query{
		Text:      input.Query,
		Character: input.Character,
		Limit:     input.Limit,
	}
	if err := query.Validate(); err != nil {
		return nil, SearchQuotesOutput{}, err
	}

	character, _ := domain.NormalizeCharacter(input.Character)
	quotes := s.ports.Search.Search(ctx, query)

	output := SearchQuotesOutput{
		Character: character,
		Quotes:    make([]QuoteOutput, len(quotes)),
		Count:     len(quotes),
	}
	for i, q := range quotes {
		output.Quotes[i] = QuoteOutput{
			LineID:  q.LineID,
			Text:    q.Text,
			Episode: q.Episode,
			Score:   q.Score,
		}
	}

	return nil, output, nil
}

// handleBackfill handles the backfill_embeddings tool invocation.
func (s *Server) handleBackfill(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ BackfillInput,
) (*mcp.CallToolResult, BackfillOutput, error) {
	if s.ports.Backfill == nil {
		return nil, BackfillOutput{}, ErrBackfillUnavailable
	}

	result, err := s.ports.Backfill.Backfill(ctx)
	if err != nil {
		return nil, BackfillOutput{}, fmt.Errorf("backfill stopped after %d lines: %w", result.Processed, err)
	}

	return nil, BackfillOutput{
		Processed:  result.Processed,
		Candidates: result.Candidates,
		Failed:     result.Failed,
		Skipped:    result.Skipped,
		CorpusSize: result.CorpusSize,
		Message:    result.Message,
	}, nil
}
