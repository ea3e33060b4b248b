package cmd

import (
	"errors"
	"fmt"

	"github.com/materials-commons/mcrel/pkg/model"
	"github.com/spf13/cobra"
)

var saveSet []string

var saveCmd = &cobra.Command{
	Use:   "save <kind> <id|new>",
	Short: "Set attributes on a model and save it",
	Long: `Set attributes on a model and save it. An existing model is loaded
first, "new" creates one.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		return e.save(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().StringSliceVarP(&saveSet, "set", "s", nil, "attributes to set as key=value")
}

func (e *env) save(cmd *cobra.Command, kind, id string) error {
	ctx := cmd.Context()

	attrs, err := parseAssignments(saveSet)
	if err != nil {
		return err
	}

	var m *model.Model
	if id == model.NewSegment {
		if m, err = e.client.NewModel(kind, nil); err != nil {
			return err
		}
	} else {
		if m, err = e.client.NewModel(kind, model.Attrs{"id": id}); err != nil {
			return err
		}
		if err := m.Load(ctx); err != nil && !errors.Is(err, model.ErrRelatedLoad) {
			return err
		}
	}

	if err := m.Set(attrs); err != nil {
		return err
	}

	err = m.Save(ctx)

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		for field, msg := range verr.Fields {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
		}
		return err
	}

	if err != nil {
		return err
	}

	return e.printJSON(m.ToViewJSON())
}
