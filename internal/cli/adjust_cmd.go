package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/cli/formatter"
	"github.com/alexanderramin/plateplan/internal/domain"
)

func newAdjustCmd(a *App) *cobra.Command {
	trigger := newEnumFlag(string(domain.TriggerManual), triggerNames()...)

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Run the adaptive adjustment rules over recent deviations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userFrom(cmd)
			if err != nil {
				return err
			}
			now := a.now()
			resp, err := a.Adjust.ApplyAdjustments(cmd.Context(), app.AdjustRequest{
				UserID:  user,
				Trigger: domain.AdjustTrigger(trigger.String()),
				Now:     &now,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAdjust(resp))
			return nil
		},
	}

	cmd.Flags().Var(trigger, "trigger", "What prompted the pass: "+strings.Join(triggerNames(), ", "))
	return cmd
}

func newStreakCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show consecutive fully completed days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userFrom(cmd)
			if err != nil {
				return err
			}
			now := a.now()
			resp, err := a.Streak.ComputeStreak(cmd.Context(), app.StreakRequest{UserID: user, Now: &now})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStreak(resp))
			return nil
		},
	}
}
