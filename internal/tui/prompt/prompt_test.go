package prompt

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Kind(t *testing.T) {
	assert.Equal(t, "scatter", New("scatter").Kind())
	assert.Equal(t, "bar", New("pie").Kind())
	assert.Equal(t, "bar", New("").Kind())
}

func TestModel_Submit(t *testing.T) {
	m := New("line")
	m.SetFocused(true)
	m.SetValue("  How many unique customers do we have?  ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, AskMsg{Question: "How many unique customers do we have?", Kind: "line"}, cmd())

	m.SetBusy(true)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestModel_CycleKind(t *testing.T) {
	m := New("scatter")
	m.SetFocused(true)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	assert.Equal(t, KindChangedMsg{Kind: "bar"}, cmd())
	assert.Contains(t, m.View(), "bar")
}

func TestModel_IgnoresKeysWhenBlurred(t *testing.T) {
	m := New("bar")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
	assert.Empty(t, m.Value())
}
