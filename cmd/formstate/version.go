package main

import (
	"fmt"

	"github.com/aretw0/formstate"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of formstate",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "formstate version %s\n", formstate.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
