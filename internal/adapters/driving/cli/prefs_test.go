package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

func TestPrefsCmd_Defaults(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "prefs")

	require.NoError(t, err)
	assert.Contains(t, out, "Sidebar width: 300")
	assert.Contains(t, out, "Button top:    50%")
	assert.Contains(t, out, "Open new tab:  true")
}

func TestPrefsSetCmd_OnlyChangedFlags(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "prefs", "set", "--sidebar-width", "360")
	require.NoError(t, err)
	assert.Contains(t, out, "Sidebar width: 360")
	assert.Contains(t, out, "Open new tab:  true")

	out, err = execute(t, "prefs", "set", "--open-new-tab=false", "--button-top", "20%")
	require.NoError(t, err)
	assert.Contains(t, out, "Sidebar width: 360")
	assert.Contains(t, out, "Button top:    20%")
	assert.Contains(t, out, "Open new tab:  false")

	out, err = execute(t, "prefs")
	require.NoError(t, err)
	assert.Contains(t, out, "Open new tab:  false")
}

func TestPrefsSetCmd_NegativeWidth(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "prefs", "set", "--sidebar-width=-1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
