package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/formstate/internal/cli"
	"github.com/spf13/cobra"
)

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Manage stored form instances",
	Long:  `List, update, execute actions on and remove the form instances kept by the configured store.`,
}

var formsLsCmd = &cobra.Command{
	Use:   "ls <definition>",
	Short: "List stored form instances",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd, args[0], false)
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		ids, err := app.Engine.List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No stored forms found.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	},
}

var formsSetCmd = &cobra.Command{
	Use:   "set <definition> <form-id>",
	Short: "Assign a (partial) value to a form instance and save it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataPath, _ := cmd.Flags().GetString("data")
		if dataPath == "" {
			return fmt.Errorf("--data is required")
		}
		data, err := cli.ReadData(dataPath)
		if err != nil {
			return err
		}

		app, err := loadApp(cmd, args[0], false)
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		snap, err := app.Engine.SetValue(cmd.Context(), args[1], data)
		if err != nil {
			return err
		}
		return cli.WriteValue(cmd.OutOrStdout(), snap, cli.OutputJSON)
	},
}

var formsExecCmd = &cobra.Command{
	Use:   "exec <definition> <form-id> <action-path>",
	Short: "Execute an action of a form instance and save it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawParams, _ := cmd.Flags().GetString("params")
		var params any
		if rawParams != "" {
			if err := json.Unmarshal([]byte(rawParams), &params); err != nil {
				return fmt.Errorf("error parsing --params JSON: %w", err)
			}
		}

		app, err := loadApp(cmd, args[0], false)
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		snap, err := app.Engine.Execute(cmd.Context(), args[1], args[2], params)
		if err != nil {
			return err
		}
		return cli.WriteValue(cmd.OutOrStdout(), snap, cli.OutputJSON)
	},
}

var formsRmCmd = &cobra.Command{
	Use:   "rm <definition> <form-id>...",
	Short: "Remove stored form instances",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd, args[0], false)
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		for _, id := range args[1:] {
			if err := app.Engine.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete form %q: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Form '%s' deleted.\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formsCmd)
	formsCmd.AddCommand(formsLsCmd, formsSetCmd, formsExecCmd, formsRmCmd)

	formsSetCmd.Flags().String("data", "", "YAML or JSON document holding the value")
	formsExecCmd.Flags().String("params", "", "JSON params passed to the action")
}
