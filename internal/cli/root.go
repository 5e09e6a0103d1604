package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/plateplan/internal/app"
)

// App holds the use cases CLI commands drive.
type App struct {
	Personalize app.PersonalizeUseCase
	Allocate    app.AllocateUseCase
	Adjust      app.AdjustUseCase
	Streak      app.StreakUseCase
	Plans       app.PlanUseCase
	Deviations  app.DeviationUseCase
	Catalog     app.CatalogUseCase

	// CatalogDir is the default directory for `catalog import`.
	CatalogDir string
	// DefaultUser is used when --user is not given.
	DefaultUser string

	// Serve runs the HTTP API until ctx is cancelled.
	Serve func(ctx context.Context) error

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "plateplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "plateplan",
		Short:         "Personalized meal and workout plans that adapt to you",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("user", "u", app.DefaultUser, "User ID to act on")

	root.AddCommand(
		newPersonalizeCmd(app),
		newPlanCmd(app),
		newAllocateCmd(app),
		newSlotCmd(app),
		newAdjustCmd(app),
		newStreakCmd(app),
		newDeviationCmd(app),
		newCatalogCmd(app),
		newServeCmd(app),
	)

	return root
}
