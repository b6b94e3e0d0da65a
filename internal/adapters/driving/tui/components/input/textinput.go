// Package input provides the snippet input for the quote browser.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/styles"
)

const (
	defaultWidth = 50
	minWidth     = 20

	// charLimit bounds the snippet; long conversations only dilute the query embedding.
	charLimit = 500
)

// SnippetInput wraps a bubbles textinput labelled with the character being
// prompted.
type SnippetInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	character string
	width     int
}

// NewSnippetInput creates a focused input.
func NewSnippetInput(s *styles.Styles) *SnippetInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Say something..."
	ti.Focus()
	ti.CharLimit = charLimit
	ti.Width = defaultWidth

	return &SnippetInput{
		textinput: ti,
		styles:    s,
		width:     defaultWidth,
	}
}

// Init starts the cursor blinking.
func (s *SnippetInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *SnippetInput) Update(msg tea.Msg) (*SnippetInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the label and input box.
func (s *SnippetInput) View() string {
	label := s.styles.Title.Render("You: ")
	box := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, box)
}

// SetCharacter updates the placeholder to address the character.
func (s *SnippetInput) SetCharacter(character string) {
	s.character = character
	if character == "" {
		s.textinput.Placeholder = "Say something..."
		return
	}
	s.textinput.Placeholder = "Say something to " + character + "..."
}

// Character returns the character being addressed.
func (s *SnippetInput) Character() string {
	return s.character
}

// Value returns the current input value.
func (s *SnippetInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *SnippetInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Placeholder returns the prompt shown while the input is empty.
func (s *SnippetInput) Placeholder() string {
	return s.textinput.Placeholder
}

// Focus sets focus on the input.
func (s *SnippetInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *SnippetInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *SnippetInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the total width, label included.
func (s *SnippetInput) SetWidth(width int) {
	s.width = width
	s.textinput.Width = max(width-10, minWidth)
}

// Width returns the current width.
func (s *SnippetInput) Width() int {
	return s.width
}

// Reset clears the input.
func (s *SnippetInput) Reset() {
	s.textinput.Reset()
}
