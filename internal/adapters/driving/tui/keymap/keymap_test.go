package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"select", km.Select, []string{"enter"}},
		{"ignore", km.Ignore, []string{"i"}},
		{"fix", km.Fix, []string{"f"}},
		{"fix all", km.FixAll, []string{"F"}},
		{"revalidate", km.Revalidate, []string{"r"}},
		{"save", km.Save, []string{"s"}},
		{"toggle failed", km.ToggleFailed, []string{"tab"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding.Keys())
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()

	require.Len(t, help, 2)
	assert.Equal(t, "quit", help[0].Help().Desc)
	assert.Equal(t, "help", help[1].Help().Desc)
}

func TestKeyMap_ResultsHelp(t *testing.T) {
	km := DefaultKeyMap()

	var descs []string
	for _, b := range km.ResultsHelp() {
		descs = append(descs, b.Help().Desc)
	}

	assert.Equal(t, []string{"details", "fix", "ignore", "failed/all", "save", "help"}, descs)
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	groups := km.FullHelp()

	require.Len(t, groups, 3)
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	assert.Equal(t, 12, total)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		key      string
		binding  key.Binding
		expected bool
	}{
		{"q", km.Quit, true},
		{"ctrl+c", km.Quit, true},
		{"x", km.Quit, false},
		{"F", km.FixAll, true},
		{"f", km.FixAll, false},
		{"", km.Save, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, Matches(tt.key, tt.binding))
		})
	}
}
