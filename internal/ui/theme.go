package ui

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Brand colors for dark terminals. Light-terminal counterparts live in
// the adaptive colors built by Theme.
const (
	ColorPrimary   = "#DA7756"
	ColorSecondary = "#7C3AED"
	ColorSuccess   = "#10B981"
	ColorError     = "#EF4444"
	ColorText      = "#E5E7EB"
	ColorMuted     = "#6B7280"
	ColorBorder    = "#4B5563"
)

// ColorPalette holds the hex colors a Theme renders with.
type ColorPalette struct {
	Primary   string
	Secondary string
	Success   string
	Error     string
	Text      string
	Muted     string
	Border    string
}

// ThemeConfig selects a Theme.
type ThemeConfig struct {
	// NoColor disables all color output, e.g. when NO_COLOR is set.
	NoColor bool
	// Mode is "dark" or "light". Anything else is treated as dark.
	Mode string
}

// Theme carries colors and styles shared by prompts, cards and progress bars.
type Theme struct {
	NoColor bool
	Colors  ColorPalette
}

// NewTheme builds a Theme from cfg.
func NewTheme(cfg ThemeConfig) *Theme {
	colors := ColorPalette{
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Success:   ColorSuccess,
		Error:     ColorError,
		Text:      ColorText,
		Muted:     ColorMuted,
		Border:    ColorBorder,
	}
	if cfg.Mode == "light" {
		colors = ColorPalette{
			Primary:   "#C45A3C",
			Secondary: "#5B21B6",
			Success:   "#059669",
			Error:     "#DC2626",
			Text:      "#111827",
			Muted:     "#9CA3AF",
			Border:    "#D1D5DB",
		}
	}
	return &Theme{NoColor: cfg.NoColor, Colors: colors}
}

func (t *Theme) style(hex string) lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

func (t *Theme) cardStyle() lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2)
	if !t.NoColor {
		s = s.BorderForeground(lipgloss.Color(t.Colors.Border))
	}
	return s
}

// Card renders content inside a rounded border box with a styled title.
func (t *Theme) Card(title, content string) string {
	body := t.style(t.Colors.Primary).Bold(true).Render(title) + "\n\n" + content
	return t.cardStyle().Render(body)
}

// SuccessCard renders a check-marked title followed by detail lines.
func (t *Theme) SuccessCard(title string, details ...string) string {
	var body strings.Builder
	body.WriteString(t.style(t.Colors.Success).Render("✓") + " " + title)
	if len(details) > 0 {
		body.WriteString("\n\n")
		body.WriteString(strings.Join(details, "\n"))
	}
	return t.cardStyle().Render(body.String())
}

// Muted renders s in the muted color.
func (t *Theme) Muted(s string) string {
	return t.style(t.Colors.Muted).Render(s)
}

// huhTheme maps the palette onto a huh form theme.
func (t *Theme) huhTheme() *huh.Theme {
	h := huh.ThemeBase()
	if t.NoColor {
		return h
	}

	primary := lipgloss.Color(t.Colors.Primary)
	secondary := lipgloss.Color(t.Colors.Secondary)
	green := lipgloss.Color(t.Colors.Success)
	red := lipgloss.Color(t.Colors.Error)
	text := lipgloss.Color(t.Colors.Text)
	muted := lipgloss.Color(t.Colors.Muted)

	h.Focused.Base = h.Focused.Base.BorderForeground(lipgloss.Color(t.Colors.Border))
	h.Focused.Title = h.Focused.Title.Foreground(primary).Bold(true)
	h.Focused.Description = h.Focused.Description.Foreground(muted)
	h.Focused.ErrorIndicator = h.Focused.ErrorIndicator.Foreground(red)
	h.Focused.ErrorMessage = h.Focused.ErrorMessage.Foreground(red)
	h.Focused.SelectSelector = h.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	h.Focused.Option = h.Focused.Option.Foreground(text)
	h.Focused.SelectedOption = h.Focused.SelectedOption.Foreground(green)
	h.Focused.TextInput.Cursor = h.Focused.TextInput.Cursor.Foreground(primary)
	h.Focused.TextInput.Placeholder = h.Focused.TextInput.Placeholder.Foreground(muted)
	h.Focused.TextInput.Prompt = h.Focused.TextInput.Prompt.Foreground(secondary)

	h.Blurred = h.Focused
	h.Blurred.Base = h.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	return h
}
