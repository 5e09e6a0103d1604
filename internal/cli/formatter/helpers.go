package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		inner := StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
		return boxStyle.Render(inner)
	}
	return boxStyle.Render(content)
}

// RelativeDay describes a plan date relative to today, by calendar day.
func RelativeDay(date, now time.Time) string {
	days := int(math.Round(domain.Day(date).Sub(domain.Day(now)).Hours() / 24))
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0:
		return fmt.Sprintf("In %dd", days)
	default:
		return fmt.Sprintf("%dd ago", -days)
	}
}

// PlanDate renders "2024-01-01 Mon (Today)".
func PlanDate(date, now time.Time) string {
	return fmt.Sprintf("%s %s %s",
		Bold(date.Format(domain.DateLayout)),
		Dim(date.Format("Mon")),
		Dim("("+RelativeDay(date, now)+")"))
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// Kcal renders whole kilocalories.
func Kcal(v float64) string {
	return fmt.Sprintf("%.0f kcal", v)
}

// Grams renders grams without trailing zeros for whole amounts.
func Grams(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0fg", v)
	}
	return fmt.Sprintf("%.1fg", v)
}
