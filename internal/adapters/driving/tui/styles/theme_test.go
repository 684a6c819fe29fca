package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for _, c := range []lipgloss.Color{
		theme.Primary, theme.Secondary, theme.Foreground,
		theme.Muted, theme.Strong, theme.Weak, theme.Border,
	} {
		assert.NotEmpty(t, string(c))
	}
	assert.NotEqual(t, theme.Strong, theme.Weak)
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestStyles_Score(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.Strong.GetForeground(), s.Score(0.95).GetForeground())
	assert.Equal(t, s.Strong.GetForeground(), s.Score(StrongScore).GetForeground())
	assert.Equal(t, s.Weak.GetForeground(), s.Score(0.7).GetForeground())
}
