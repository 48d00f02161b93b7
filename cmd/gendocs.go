/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var gendocsCmd = &cobra.Command{
	Use:    "gendocs [DIR]",
	Short:  "Generate markdown documentation for the CLI",
	Hidden: true,
	Args:   cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "./docs/minutar"
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0o775); err != nil {
			return errors.Wrap(err, "failed to make dir")
		}
		return errors.Wrap(doc.GenMarkdownTree(rootCmd, dir), "failed to make docs")
	},
}

func init() {
	rootCmd.AddCommand(gendocsCmd)
}
