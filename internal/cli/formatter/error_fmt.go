package formatter

import (
	"errors"

	"github.com/alexanderramin/plateplan/internal/app"
)

// FormatError renders a command failure for stderr. Plan errors lead with
// their code so scripts can grep for it.
func FormatError(err error) string {
	var (
		pe *app.PlanError
		rl *app.RateLimitError
	)
	switch {
	case errors.As(err, &pe):
		return StyleError.Render("✖ "+string(pe.Code)) + " " + pe.Message + "\n"
	case errors.As(err, &rl):
		return StyleWarn.Render("▲ Slow down:") + " " + rl.Error() + "\n"
	default:
		return StyleError.Render("Error:") + " " + err.Error() + "\n"
	}
}
