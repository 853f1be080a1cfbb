package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnswerInput(t *testing.T) {
	in := NewAnswerInput(nil)

	require.NotNil(t, in)
	assert.NotNil(t, in.styles)
	assert.False(t, in.Focused())
	assert.Empty(t, in.Value())
	assert.Equal(t, 60, in.Width())
	assert.NotNil(t, in.Init())
}

func TestAnswerInput_TypingWhenFocused(t *testing.T) {
	in := NewAnswerInput(nil)
	in.Focus()

	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("LoRA")})
	in.Update(tea.KeyMsg{Type: tea.KeyEnter})
	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4-bit")})

	assert.Equal(t, "LoRA\n4-bit", in.Value())
}

func TestAnswerInput_IgnoresKeysWhenBlurred(t *testing.T) {
	in := NewAnswerInput(nil)

	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.Empty(t, in.Value())
}

func TestAnswerInput_SetValueAndReset(t *testing.T) {
	in := NewAnswerInput(nil)

	in.SetValue("draft")
	assert.Equal(t, "draft", in.Value())
	assert.Contains(t, in.View(), "draft")

	in.Reset()
	assert.Empty(t, in.Value())
}

func TestAnswerInput_FocusBlur(t *testing.T) {
	in := NewAnswerInput(nil)

	in.Focus()
	assert.True(t, in.Focused())

	in.Blur()
	assert.False(t, in.Focused())
}

func TestAnswerInput_SetWidth(t *testing.T) {
	in := NewAnswerInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())

	in.SetWidth(5)
	assert.Equal(t, 5, in.Width())
	assert.Positive(t, in.textarea.Width())
}
