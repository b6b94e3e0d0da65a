package characters

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotebank/internal/core/domain"
)

type stubCorpus struct {
	stats domain.CorpusStats
	err   error
}

func (s *stubCorpus) Stats(_ context.Context) (domain.CorpusStats, error) {
	return s.stats, s.err
}

func (s *stubCorpus) Characters() []string {
	return []string{"Jerry", "George"}
}

func (s *stubCorpus) LastBackfill(_ context.Context) (*domain.TaskRun, error) {
	return nil, nil
}

func readyView(corpus *stubCorpus) *View {
	var v *View
	if corpus == nil {
		v = NewView(nil, nil)
	} else {
		v = NewView(nil, corpus)
	}
	v.SetDimensions(100, 40)
	return v
}

func TestNewView_ListsKnownCharacters(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.Len(t, v.Roster(), len(domain.KnownCharacters()))
	assert.Nil(t, v.Init())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_LoadsStats(t *testing.T) {
	corpus := &stubCorpus{stats: domain.CorpusStats{
		Total:    3,
		Embedded: 2,
		Characters: []domain.CharacterStats{
			{Character: "Jerry", Lines: 2, Embedded: 2},
			{Character: "Bob Sacamano", Lines: 1},
		},
	}}
	v := readyView(corpus)

	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())

	require.Len(t, v.Roster(), 3)
	assert.Equal(t, "Bob Sacamano", v.Roster()[2].Character)
	view := v.View()
	assert.Contains(t, view, "Jerry")
	assert.Contains(t, view, "2 embedded")
	assert.Contains(t, view, "Bob Sacamano")
}

func TestView_StatsError(t *testing.T) {
	v := readyView(&stubCorpus{err: errors.New("database is locked")})

	v.Update(v.Init()())

	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "database is locked")
	assert.Len(t, v.Roster(), len(domain.KnownCharacters()))
}

func TestView_NavigateAndSelect(t *testing.T) {
	v := readyView(nil)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, v.Selected())

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, v.Selected())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.CharacterSelected{Character: "Elaine"}, cmd())
}

func TestView_SelectionStopsAtEnd(t *testing.T) {
	v := readyView(nil)
	n := len(v.Roster())

	for range n + 3 {
		v.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	assert.Equal(t, n-1, v.Selected())
}

func TestView_HelpAndQuit(t *testing.T) {
	v := readyView(nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewHelp}, cmd())

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
