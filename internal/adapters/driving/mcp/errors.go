// Package mcp provides an MCP (Model Context Protocol) server adapter for quotebank.
// It lets a persona agent fetch in-character quotes and trigger embedding backfills.
package mcp

import "errors"

// ErrMissingSearchService is returned when the quote search service is not provided.
var ErrMissingSearchService = errors.New("mcp: quote search service is required")

// ErrBackfillUnavailable is returned by the backfill tool when no backfill service is wired.
var ErrBackfillUnavailable = errors.New("mcp: backfill is not configured")
