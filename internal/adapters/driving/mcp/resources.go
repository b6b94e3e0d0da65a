package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for quotebank resources.
	uriScheme = "quotebank://"

	charactersURI = uriScheme + "characters"
)

// characterInfo describes one speaker in the characters resource.
type characterInfo struct {
	Name     string `json:"name"`
	Lines    int    `json:"lines"`
	Embedded int    `json:"embedded"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         charactersURI,
		Name:        "characters",
		Description: "Characters that can be searched, with line and embedding counts",
		MIMEType:    "application/json",
	}, s.handleCharactersResource)
}

// handleCharactersResource lists the known characters merged with corpus counts.
// Speakers present in the corpus but outside the known vocabulary are appended.
func (s *Server) handleCharactersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos := []characterInfo{}

	if s.ports.Corpus != nil {
		stats, err := s.ports.Corpus.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading corpus stats: %w", err)
		}

		for _, cs := range domain.CharacterRoster(s.ports.Corpus.Characters(), stats) {
			infos = append(infos, characterInfo{Name: cs.Character, Lines: cs.Lines, Embedded: cs.Embedded})
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling characters: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
