package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/plateplan/internal/cli/formatter"
	"github.com/alexanderramin/plateplan/internal/domain"
)

func newCatalogCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage meal and workout templates",
	}
	cmd.AddCommand(newCatalogImportCmd(a), newCatalogListCmd(a))
	return cmd
}

func newCatalogImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import [dir]",
		Short: "Load YAML catalog files into the template store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.CatalogDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return errors.New("catalog directory required")
			}
			res, err := a.Catalog.Import(cmd.Context(), dir)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImport(dir, res))
			return nil
		},
	}
}

func newCatalogListCmd(a *App) *cobra.Command {
	kind := newEnumFlag("", string(domain.KindMeal), string(domain.KindWorkout))

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := a.Catalog.List(cmd.Context(), domain.Kind(kind.String()))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTemplateList(templates))
			return nil
		},
	}

	cmd.Flags().Var(kind, "kind", "Only meal or workout templates")
	return cmd
}
