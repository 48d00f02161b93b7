/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/indrora/minutar/minutar/format"
	"github.com/indrora/minutar/minutar/reader"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect ARCHIVE...",
	Short: "Investigate the contents of a tar archive",
	Long: `Decode every header of the archive without touching the filesystem
and show the resolved records, including GNU long names and the
byte offset of each header.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		compression, _ := cmd.Flags().GetString("decompress")
		asCBOR, _ := cmd.Flags().GetBool("cbor")

		var show func(*format.FileRecord) error
		if asCBOR {
			enc := cbor.NewEncoder(cmd.OutOrStdout())
			show = func(rec *format.FileRecord) error { return enc.Encode(rec) }
		} else {
			show = func(rec *format.FileRecord) error {
				explainRecord(cmd.OutOrStdout(), rec)
				return nil
			}
		}

		for _, filename := range args {
			if !asCBOR {
				fmt.Fprintln(cmd.OutOrStdout(), filename)
			}
			if err := inspectArchive(filename, compression, show); err != nil {
				return err
			}
		}
		return nil
	},
}

func inspectArchive(filename, compression string, show func(*format.FileRecord) error) error {
	stream, err := openArchive(filename, compression)
	if err != nil {
		return err
	}
	defer stream.Close()

	archiveReader := reader.NewReader(stream)
	for {
		rec, err := archiveReader.Next()
		if err != nil {
			return withCode(EXIT_PROCESSING, errors.Wrapf(err, "failed to read record header in %s", filename))
		}
		if rec.Type == format.TYPE_END_OF_ARCHIVE {
			return nil
		}
		if err := show(rec); err != nil {
			return errors.Wrap(err, "failed to write record")
		}
	}
}

func explainRecord(w io.Writer, rec *format.FileRecord) {
	fmt.Fprintf(w, "====== Record @%d ======\n", rec.Offset)
	fmt.Fprintf(w, "Type: %s\n", rec.Type)
	fmt.Fprintf(w, "Name: %s\n", rec.Name)
	if rec.LinkTarget != "" {
		fmt.Fprintf(w, "Link: %s\n", rec.LinkTarget)
	}
	fmt.Fprintf(w, "Size: %d, mode %#o\n", rec.Size, rec.Mode)

	spew.Fdump(w, rec)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("decompress", "auto", "Input compression: auto, none, gzip, zstd, xz or brotli")
	inspectCmd.Flags().Bool("cbor", false, "Write records as a CBOR stream instead of a dump")
}
