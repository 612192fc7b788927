package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/formstate"
	"github.com/aretw0/formstate/internal/cli"
	"github.com/aretw0/formstate/pkg/form"
	"github.com/spf13/cobra"
)

var errInvalidData = errors.New("data does not satisfy the form rules")

var validateCmd = &cobra.Command{
	Use:   "validate <definition>",
	Short: "Check a definition, and optionally data against it",
	Long: `Parses the definition and reports structural problems (unknown kinds,
duplicate names, malformed rules). With --data the document is assigned to
a fresh form and every validation error is reported by field path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataPath, _ := cmd.Flags().GetString("data")

		eng, err := formstate.NewFromFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if dataPath == "" {
			fmt.Fprintln(out, "Definition is valid! ✅")
			return nil
		}

		data, err := cli.ReadData(dataPath)
		if err != nil {
			return err
		}
		g, err := eng.NewForm(cmd.Context())
		if err != nil {
			return err
		}
		if err := g.SetValue(cmd.Context(), data); err != nil {
			return err
		}
		if err := g.Validate(cmd.Context()); err != nil {
			return err
		}

		errs := form.ErrorsByPath(g)
		if len(errs) == 0 {
			fmt.Fprintln(out, "Data is valid! ✅")
			return nil
		}
		if err := cli.WriteValue(out, errs, cli.OutputYAML); err != nil {
			return err
		}
		return errInvalidData
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("data", "", "YAML or JSON document to validate")
}
