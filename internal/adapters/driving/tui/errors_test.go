package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	assert.NotErrorIs(t, ErrMissingSearchService, ErrUnknownCharacter)
	assert.Equal(t, "tui: search service is required", ErrMissingSearchService.Error())
	assert.Equal(t, "tui: unknown character", ErrUnknownCharacter.Error())
}
