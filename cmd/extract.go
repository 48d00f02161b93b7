/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/indrora/minutar/minutar/extract"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract ARCHIVE",
	Short: "Unwrap a tar archive",
	Long: `Unwrap a given archive into the current directory (or the one given
with --directory). Extraction carries on past nodes that cannot be created
and exits with status 3 if any entry failed.`,
	Example: "minutar extract -C out/ release.tar.zst",
	Args:    cobra.ExactArgs(1),
	RunE:    runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	compression, _ := cmd.Flags().GetString("decompress")
	directory, _ := cmd.Flags().GetString("directory")
	quiet, _ := cmd.Flags().GetBool("quiet")
	digest, _ := cmd.Flags().GetBool("digest")

	stream, err := openArchive(args[0], compression)
	if err != nil {
		return err
	}
	defer stream.Close()

	if directory != "" {
		if err := os.MkdirAll(directory, extract.DefaultDirMode); err != nil {
			return withCode(EXIT_OPEN, errors.Wrap(err, "create directory"))
		}
	}

	var reporter extract.Reporter = extract.LineReporter{W: cmd.OutOrStdout()}
	if quiet {
		reporter = nil
	}

	ok := extract.ExtractAll(stream,
		extract.WithDirectory(directory),
		extract.WithReporter(reporter),
		extract.WithDigests(digest),
		extract.WithLogger(logrus.StandardLogger()),
	)
	if !ok {
		return withCode(EXIT_PROCESSING, errors.New("errors while processing the file"))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("directory", "C", "", "Extract into this directory")
	extractCmd.Flags().String("decompress", "auto", "Input compression: auto, none, gzip, zstd, xz or brotli")
	extractCmd.Flags().BoolP("quiet", "q", false, "Do not list extracted nodes")
	extractCmd.Flags().Bool("digest", false, "Show the BLAKE2b-256 digest of each extracted file")
}
