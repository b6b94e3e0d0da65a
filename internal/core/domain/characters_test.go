package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCharacter(t *testing.T) {
	tests := []struct {
		in        string
		expected  string
		wantKnown bool
	}{
		{"Jerry", "Jerry", true},
		{"  jerry ", "Jerry", true},
		{"JERRY", "Jerry", true},
		{"uncle   leo", "Uncle Leo", true},
		{"Leo", "Uncle Leo", true},
		{"Cosmo Kramer", "Kramer", true},
		{"soup nazi", "Soup Nazi", true},
		{"bob sacamano", "bob sacamano", false},
		{"  Bob   Sacamano ", "Bob Sacamano", false},
		{"DeMarco", "DeMarco", false},
		{"Jackie Chiles", "Jackie", true},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, known := NormalizeCharacter(tt.in)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.wantKnown, known)
		})
	}
}

func TestKnownCharacters_ReturnsCopy(t *testing.T) {
	chars := KnownCharacters()
	assert.Contains(t, chars, "Jerry")
	assert.Contains(t, chars, "Newman")

	chars[0] = "Mutated"
	assert.Equal(t, "Jerry", KnownCharacters()[0])
}

func TestCharacterRoster(t *testing.T) {
	stats := CorpusStats{
		Total:    6,
		Embedded: 3,
		Characters: []CharacterStats{
			{Character: "Bob Sacamano", Lines: 1},
			{Character: "George", Lines: 3, Embedded: 2},
			{Character: "Jerry", Lines: 2, Embedded: 1},
		},
	}

	roster := CharacterRoster([]string{"Jerry", "George", "Elaine"}, stats)

	assert.Equal(t, []CharacterStats{
		{Character: "Jerry", Lines: 2, Embedded: 1},
		{Character: "George", Lines: 3, Embedded: 2},
		{Character: "Elaine"},
		{Character: "Bob Sacamano", Lines: 1},
	}, roster)
}

func TestCharacterRoster_Empty(t *testing.T) {
	assert.Empty(t, CharacterRoster(nil, CorpusStats{}))
	assert.Len(t, CharacterRoster(KnownCharacters(), CorpusStats{}), len(KnownCharacters()))
}
