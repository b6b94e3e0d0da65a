package tui

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("tui: search service is required")

// ErrUnknownCharacter is returned when the browser is opened on a character
// that is not in the vocabulary.
var ErrUnknownCharacter = errors.New("tui: unknown character")
