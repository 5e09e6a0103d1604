package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// Gruvbox palette, named by what each color marks in plan output.
var (
	ColorDone    = lipgloss.Color("#8ec07c")
	ColorWarn    = lipgloss.Color("#fabd2f")
	ColorError   = lipgloss.Color("#fb4934")
	ColorMeal    = lipgloss.Color("#83a598")
	ColorWorkout = lipgloss.Color("#d3869b")
	ColorDim     = lipgloss.Color("#928374")
	ColorFg      = lipgloss.Color("#ebdbb2")
	ColorHeader  = lipgloss.Color("#fe8019")
)

var (
	StyleDone    = lipgloss.NewStyle().Foreground(ColorDone)
	StyleWarn    = lipgloss.NewStyle().Foreground(ColorWarn)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleMeal    = lipgloss.NewStyle().Foreground(ColorMeal)
	StyleWorkout = lipgloss.NewStyle().Foreground(ColorWorkout)
	StyleDim     = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader  = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold    = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// KindBadge renders a meal in blue and a workout in purple.
func KindBadge(kind domain.Kind) string {
	switch kind {
	case domain.KindMeal:
		return StyleMeal.Render("meal")
	case domain.KindWorkout:
		return StyleWorkout.Render("workout")
	default:
		return StyleDim.Render(string(kind))
	}
}

// CompletionPill returns "✔ Done" for completed slots and "○ Planned" otherwise.
func CompletionPill(done bool) string {
	if done {
		return StyleDone.Render("✔ Done")
	}
	return StyleMeal.Render("○ Planned")
}

// StreakColor picks green for a week or more, yellow for a running streak
// and dim for none.
func StreakColor(days int) lipgloss.Style {
	switch {
	case days >= 7:
		return StyleDone
	case days > 0:
		return StyleWarn
	default:
		return StyleDim
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
