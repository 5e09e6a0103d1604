package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/cli/formatter"
)

func newPersonalizeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "personalize [date]",
		Short: "Regenerate the plan for a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userFrom(cmd)
			if err != nil {
				return err
			}
			now := a.now()
			date, err := dateArg(args, now)
			if err != nil {
				return err
			}

			stop := a.spinner(cmd, "Personalizing "+date.Format("Mon Jan 2"))
			resp, err := a.Personalize.PersonalizeForDate(cmd.Context(), app.PersonalizeRequest{
				UserID: user,
				Date:   date,
				Now:    &now,
			})
			stop()
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPersonalize(resp, now))
			return nil
		},
	}
}

func newPlanCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect stored plans",
	}
	cmd.AddCommand(newPlanShowCmd(a))
	return cmd
}

func newPlanShowCmd(a *App) *cobra.Command {
	var detail bool

	cmd := &cobra.Command{
		Use:   "show [date]",
		Short: "Show the plan for a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userFrom(cmd)
			if err != nil {
				return err
			}
			now := a.now()
			date, err := dateArg(args, now)
			if err != nil {
				return err
			}

			resp, err := a.Plans.PlanForDate(cmd.Context(), app.PlanRequest{UserID: user, Date: date})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan(resp.Date, now, resp.Slots, detail))
			return nil
		},
	}

	cmd.Flags().BoolVar(&detail, "detail", false, "List ingredients and exercises")
	return cmd
}

func newAllocateCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "allocate [start-date]",
		Short: "Plan seven days starting at start-date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userFrom(cmd)
			if err != nil {
				return err
			}
			now := a.now()
			start, err := dateArg(args, now)
			if err != nil {
				return err
			}

			stop := a.spinner(cmd, "Allocating week of "+start.Format("Jan 2"))
			resp, err := a.Allocate.AllocateWeek(cmd.Context(), app.AllocateRequest{
				UserID:    user,
				StartDate: start,
				Now:       &now,
			})
			stop()
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAllocate(resp))
			return nil
		},
	}
}

func newSlotCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Work with scheduled slots",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "complete <slot-id>",
		Short: "Mark a slot as eaten or done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.Plans.CompleteSlot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatComplete(resp))
			return nil
		},
	})
	return cmd
}

// spinner animates on stderr when attached to a terminal.
func (a *App) spinner(cmd *cobra.Command, message string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), message)
}
