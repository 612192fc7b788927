package main

import (
	"os"

	"github.com/aretw0/formstate/internal/cli"
	"github.com/aretw0/formstate/pkg/form"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <definition>",
	Short: "Print a form tree",
	Long: `Builds the form described by the definition and prints it. With --form the
stored instance with that ID is printed instead of the built-in values.
On a terminal the tree is rendered as a table; otherwise its value is
written as JSON (or YAML with --output yaml).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formID, _ := cmd.Flags().GetString("form")
		full, _ := cmd.Flags().GetBool("full")
		output, _ := cmd.Flags().GetString("output")

		app, err := loadApp(cmd, args[0], false)
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		title := app.Engine.Definition().Title
		if title == "" {
			title = app.Engine.Name
		}

		if formID == "" {
			g, err := app.Engine.NewForm(cmd.Context())
			if err != nil {
				return err
			}
			return cli.WriteForm(os.Stdout, title, g, output, full)
		}
		return app.Engine.View(cmd.Context(), formID, func(g *form.Group) error {
			return cli.WriteForm(os.Stdout, title+" / "+formID, g, output, full)
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().String("form", "", "ID of a stored form instance")
	showCmd.Flags().Bool("full", false, "Include disabled fields in the value")
	showCmd.Flags().StringP("output", "o", cli.OutputAuto, "Output: auto, json, yaml or markdown")
}
