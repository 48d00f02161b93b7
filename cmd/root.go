/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	EXIT_OK         = 0
	EXIT_USAGE      = 1
	EXIT_OPEN       = 2
	EXIT_PROCESSING = 3
)

// exitError carries the exit code a command wants the process to end with.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minutar",
	Short: "minutar is a small tar extractor",
	Long: `minutar reads ustar/GNU tar archives and extracts them into the
current directory. GNU long names and long links are understood,
PAX extended headers are refused.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
	},
}

func configureLogging(cmd *cobra.Command) {
	logrus.SetOutput(cmd.ErrOrStderr())
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetLevel(logrus.WarnLevel)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logrus.SetLevel(logrus.InfoLevel)
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return EXIT_OK
	}
	fmt.Fprintln(rootCmd.ErrOrStderr(), "minutar:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return EXIT_USAGE
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Write detailed information to the terminal")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every decoded header")
}
