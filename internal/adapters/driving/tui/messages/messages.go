// Package messages defines Bubbletea message types for the quote browser.
package messages

import (
	"github.com/custodia-labs/quotebank/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewCharacters is the character picker shown at start-up.
	ViewCharacters ViewType = iota
	// ViewSearch is the snippet input and ranked quotes for one character.
	ViewSearch
	// ViewHelp lists the keybindings.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewCharacters:
		return "characters"
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// CharactersLoaded carries corpus coverage for the character picker.
type CharactersLoaded struct {
	Stats domain.CorpusStats
	Err   error
}

// CharacterSelected opens the search view for a character.
type CharacterSelected struct {
	Character string
}

// SearchCompleted carries ranked quotes back to the search view.
// Query identifies the snippet so stale results can be dropped.
type SearchCompleted struct {
	Query   domain.Query
	Results []domain.RankedQuote
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
