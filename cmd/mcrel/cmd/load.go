package cmd

import (
	"errors"
	"fmt"

	"github.com/materials-commons/mcrel/pkg/model"
	"github.com/spf13/cobra"
)

var (
	loadShow     []string
	loadData     []string
	loadNavigate bool
)

var loadCmd = &cobra.Command{
	Use:   "load <kind> <id>",
	Short: "Load a model and print it with its related models",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		return e.load(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringSliceVar(&loadShow, "show", nil, "related models to load after the model itself")
	loadCmd.Flags().StringSliceVarP(&loadData, "data", "d", nil, "extra query params as key=value")
	loadCmd.Flags().BoolVar(&loadNavigate, "navigate", false, "print the model's view url")
}

func (e *env) load(cmd *cobra.Command, kind, id string) error {
	ctx := cmd.Context()

	data, err := parseAssignments(loadData)
	if err != nil {
		return err
	}

	m, err := e.client.NewModel(kind, model.Attrs{"id": id})
	if err != nil {
		return err
	}

	// A failed related load still leaves the model itself loaded.
	if err := m.Load(ctx, model.WithData(toStringMap(data))); err != nil && !errors.Is(err, model.ErrRelatedLoad) {
		return err
	} else if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", err)
	}

	for _, name := range loadShow {
		rel := m.GetRelated(name)
		if rel == nil {
			return fmt.Errorf("%s has no related %q", kind, name)
		}
		if err := rel.Load(ctx); err != nil {
			return err
		}
	}

	if loadNavigate {
		if err := m.Navigate(); err != nil {
			return err
		}
		fmt.Fprintln(e.out, e.history.Current())
	}

	return e.printJSON(m.ToViewJSON())
}
