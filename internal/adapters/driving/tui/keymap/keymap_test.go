package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		keys    []string
		binding func(*KeyMap) []string
	}{
		{"quit", []string{"q", "ctrl+c"}, func(k *KeyMap) []string { return k.Quit.Keys() }},
		{"filter", []string{"/"}, func(k *KeyMap) []string { return k.Filter.Keys() }},
		{"back", []string{"esc"}, func(k *KeyMap) []string { return k.Back.Keys() }},
		{"up", []string{"up", "k"}, func(k *KeyMap) []string { return k.Up.Keys() }},
		{"down", []string{"down", "j"}, func(k *KeyMap) []string { return k.Down.Keys() }},
		{"top", []string{"home", "g"}, func(k *KeyMap) []string { return k.Top.Keys() }},
		{"bottom", []string{"end", "G"}, func(k *KeyMap) []string { return k.Bottom.Keys() }},
		{"open", []string{"enter"}, func(k *KeyMap) []string { return k.Open.Keys() }},
		{"refresh", []string{"r"}, func(k *KeyMap) []string { return k.Refresh.Keys() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding(km))
		})
	}
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 3)
	assert.Len(t, km.FilterHelp(), 2)

	full := km.FullHelp()
	assert.Len(t, full, 3)
	assert.Len(t, full[0], 4)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("j", km.Down))
	assert.True(t, Matches("G", km.Bottom))
	assert.False(t, Matches("x", km.Down))
	assert.False(t, Matches("g", km.Bottom))
}
