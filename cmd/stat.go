/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/pkg/xattr"
	"github.com/spf13/cobra"
)

// statCmd dumps what the filesystem holds for an extracted node.
var statCmd = &cobra.Command{
	Use:   "stat PATH...",
	Short: "Show the metadata of extracted files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := false
		for _, name := range args {
			stat, err := os.Lstat(name)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "failed to stat", name, err)
				failed = true
				continue
			}
			spew.Fdump(out, stat)
			listXattrs(out, name)
		}
		if failed {
			return withCode(EXIT_OPEN, errors.New("could not stat every path"))
		}
		return nil
	},
}

func listXattrs(w io.Writer, file string) {
	attrs, err := xattr.LList(file)
	if err != nil {
		return
	}
	for _, attrname := range attrs {
		value, err := xattr.LGet(file, attrname)
		if err != nil {
			fmt.Fprintln(w, attrname, " = ? (couldn't list: ", err, ")")
		} else {
			fmt.Fprintln(w, attrname, "=", value)
		}
	}
}

func init() {
	rootCmd.AddCommand(statCmd)
}
