package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeByName(t *testing.T) {
	for _, name := range ThemeNames() {
		theme := ThemeByName(name)
		require.NotNil(t, theme, name)
		assert.Equal(t, name, theme.Name)
		require.NotNil(t, theme.Colors.Selection)
		require.NotNil(t, theme.Colors.Drag)
		require.NotNil(t, theme.Colors.UI)
	}
	assert.Nil(t, ThemeByName("solarized"))
	assert.Equal(t, []string{"default", "high-contrast", "light"}, ThemeNames())
}

func TestSetThemeByName(t *testing.T) {
	m := NewManager()
	assert.Equal(t, "default", m.Theme().Name)

	require.NoError(t, m.SetThemeByName("light"))
	assert.Equal(t, "light", m.Theme().Name)

	err := m.SetThemeByName("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
	assert.Equal(t, "light", m.Theme().Name)
}

func TestStylesFollowTheme(t *testing.T) {
	m := NewManager()
	dark := m.Grid().Cursor.GetBackground()
	assert.Equal(t, DefaultTheme().Colors.Selection.Background, dark)

	m.SetTheme(HighContrastTheme())
	assert.Equal(t, HighContrastTheme().Colors.Selection.Background, m.Grid().Cursor.GetBackground())
	assert.Equal(t, HighContrastTheme().Colors.Drag.Dragged, m.Board().Dragged.GetBackground())
	assert.Equal(t, HighContrastTheme().Colors.UI.Border, m.List().ScrollbarTrack.GetForeground())
}

func TestCacheClears(t *testing.T) {
	m := NewManager()
	m.Title()
	m.Help()
	assert.Len(t, m.cache, 2)

	m.ClearCache()
	assert.Empty(t, m.cache)
}
