package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui"
	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/messages"
)

func TestBrowseCmd_Flags(t *testing.T) {
	character := browseCmd.Flags().Lookup("character")
	require.NotNil(t, character)
	assert.Equal(t, "c", character.Shorthand)

	limit := browseCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "0", limit.DefValue)
}

func TestNewBrowser_OpensOnPicker(t *testing.T) {
	setupTestServices(t)
	browseCmd.SetContext(t.Context())

	app, err := newBrowser(browseCmd)

	require.NoError(t, err)
	assert.Equal(t, messages.ViewCharacters, app.CurrentView())
}

func TestNewBrowser_StartsOnCharacter(t *testing.T) {
	setupTestServices(t)
	browseCmd.SetContext(t.Context())
	require.NoError(t, browseCmd.Flags().Set("character", "kramer"))

	app, err := newBrowser(browseCmd)

	require.NoError(t, err)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Equal(t, "Kramer", app.Character())
}

func TestNewBrowser_UnknownCharacter(t *testing.T) {
	setupTestServices(t)
	browseCmd.SetContext(t.Context())
	require.NoError(t, browseCmd.Flags().Set("character", "Bania"))

	_, err := newBrowser(browseCmd)

	assert.ErrorIs(t, err, tui.ErrUnknownCharacter)
}

func TestNewBrowser_NoSearchService(t *testing.T) {
	setupTestServices(t)
	setServices(&Services{})
	browseCmd.SetContext(t.Context())

	_, err := newBrowser(browseCmd)

	assert.ErrorIs(t, err, tui.ErrMissingSearchService)
}
