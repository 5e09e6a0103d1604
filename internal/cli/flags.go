package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// enumFlag is a string flag restricted to a fixed set of values.
type enumFlag struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*enumFlag)(nil)

func newEnumFlag(def string, allowed ...string) *enumFlag {
	sorted := append([]string(nil), allowed...)
	sort.Strings(sorted)
	return &enumFlag{value: def, allowed: sorted}
}

func (f *enumFlag) String() string { return f.value }

func (f *enumFlag) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range f.allowed {
		if a == v {
			f.value = v
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(f.allowed, ", "))
}

func (f *enumFlag) Type() string { return "string" }

func deviationTypeNames() []string {
	out := make([]string, 0, len(domain.ValidDeviationTypes))
	for t := range domain.ValidDeviationTypes {
		out = append(out, string(t))
	}
	sort.Strings(out)
	return out
}

func reasonNames() []string {
	out := make([]string, 0, len(domain.ValidReasonCodes))
	for r := range domain.ValidReasonCodes {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}

func triggerNames() []string {
	out := make([]string, 0, len(domain.ValidAdjustTriggers))
	for tr := range domain.ValidAdjustTriggers {
		out = append(out, string(tr))
	}
	sort.Strings(out)
	return out
}

func userFrom(cmd *cobra.Command) (string, error) {
	user, err := cmd.Flags().GetString("user")
	if err != nil {
		return "", err
	}
	user = strings.TrimSpace(user)
	if user == "" {
		return "", fmt.Errorf("--user is required (or set PLATEPLAN_USER)")
	}
	return user, nil
}

// dateArg parses an optional YYYY-MM-DD positional argument. "today",
// "tomorrow" and "yesterday" are accepted; no argument means today.
func dateArg(args []string, now time.Time) (time.Time, error) {
	if len(args) == 0 {
		return domain.Day(now), nil
	}
	switch strings.ToLower(args[0]) {
	case "today":
		return domain.Day(now), nil
	case "tomorrow":
		return domain.Day(now).AddDate(0, 0, 1), nil
	case "yesterday":
		return domain.Day(now).AddDate(0, 0, -1), nil
	}
	return domain.ParseDay(args[0])
}
