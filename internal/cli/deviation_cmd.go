package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/cli/formatter"
	"github.com/alexanderramin/plateplan/internal/domain"
)

// deviationInput collects the fields of a deviation from flags or a form.
type deviationInput struct {
	Type     string
	Reason   string
	Calories string
	Budget   string
	At       string
}

func newDeviationCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deviation",
		Aliases: []string{"dev"},
		Short:   "Record times you did not follow the plan",
	}
	cmd.AddCommand(newDeviationLogCmd(a))
	return cmd
}

func newDeviationLogCmd(a *App) *cobra.Command {
	var (
		devType  = newEnumFlag("", deviationTypeNames()...)
		reason   = newEnumFlag("", reasonNames()...)
		calories int
		budget   float64
		at       string
		noAdjust bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a deviation and adapt the plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userFrom(cmd)
			if err != nil {
				return err
			}

			in := deviationInput{
				Type:   devType.String(),
				Reason: reason.String(),
				At:     at,
			}
			if cmd.Flags().Changed("calories") {
				in.Calories = strconv.Itoa(calories)
			}
			if cmd.Flags().Changed("budget") {
				in.Budget = strconv.FormatFloat(budget, 'f', -1, 64)
			}

			if in.Type == "" {
				if !a.interactive() {
					return fmt.Errorf("--type is required: %s", strings.Join(deviationTypeNames(), ", "))
				}
				if err := deviationForm(&in).Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
			}

			now := a.now()
			ev, err := in.event(user, now)
			if err != nil {
				return err
			}

			resp, err := a.Deviations.Log(cmd.Context(), app.LogDeviationRequest{
				Event:            ev,
				ApplyAdjustments: !noAdjust,
				Now:              &now,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDeviation(resp))
			return nil
		},
	}

	cmd.Flags().Var(devType, "type", "Deviation type: "+strings.Join(deviationTypeNames(), ", "))
	cmd.Flags().Var(reason, "reason", "Reason: "+strings.Join(reasonNames(), ", "))
	cmd.Flags().IntVar(&calories, "calories", 0, "Calorie impact (dining out)")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Budget impact")
	cmd.Flags().StringVar(&at, "at", "", "When it happened (YYYY-MM-DD or RFC3339, default now)")
	cmd.Flags().BoolVar(&noAdjust, "no-adjust", false, "Record only, do not run adjustment rules")
	return cmd
}

func (in deviationInput) event(user string, now time.Time) (domain.DeviationEvent, error) {
	ev := domain.DeviationEvent{
		UserID: user,
		Type:   domain.DeviationType(in.Type),
		Reason: domain.ReasonCode(in.Reason),
	}
	if s := strings.TrimSpace(in.Calories); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return ev, fmt.Errorf("calories: %w", err)
		}
		ev.ImpactCalories = n
	}
	if s := strings.TrimSpace(in.Budget); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return ev, fmt.Errorf("budget: %w", err)
		}
		ev.ImpactBudget = f
	}
	occurred, err := parseWhen(in.At, now)
	if err != nil {
		return ev, err
	}
	ev.OccurredAt = occurred
	return ev, nil
}

func parseWhen(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	d, err := domain.ParseDay(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return d, nil
}
