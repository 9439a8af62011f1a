package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrjoshuak/go-lrgb/fitsutil"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "List the header-data units of FITS files",
		Long: `List the header-data units of FITS files and report whether each file
can serve as one channel of a merge.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for i, path := range args {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if err := printInfo(out, path); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), FormatError(err))
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be read", failed, len(args))
			}
			return nil
		},
	}
}

func printInfo(w io.Writer, path string) error {
	info, err := fitsutil.GetFileInfo(path)
	if err != nil {
		return err
	}

	printHeader(w, info.Path)
	size := info.HumanSize()
	if info.Compressed {
		size += fmt.Sprintf(" (gzip, %s decoded)", humanize.Bytes(uint64(info.DecodedSize)))
	}
	printLabelValue(w, "Size", size)
	printLabelValue(w, "HDUs", len(info.HDUs))

	for _, h := range info.HDUs {
		line := fmt.Sprintf("  [%d] %-8s %-11s %-20s %8s", h.Index, h.Kind, h.Encoding,
			fitsutil.FormatShape(h.Shape), humanize.Bytes(uint64(h.DataSize)))
		if h.Filter != "" {
			line += "  filter=" + h.Filter
		}
		if h.Object != "" {
			line += "  object=" + h.Object
		}
		if h.Candidate {
			fmt.Fprintln(w, valueColor.Sprint(line+"  grayscale"))
		} else {
			fmt.Fprintln(w, dimColor.Sprint(line))
		}
	}

	res, err := fitsutil.ValidateInput(path)
	if err != nil {
		return err
	}
	for _, msg := range res.Warnings {
		printWarning(w, "%s", msg)
	}
	if res.Valid {
		printSuccess(w, "usable as a merge input")
	} else {
		for _, msg := range res.Errors {
			fmt.Fprintln(w, FormatError(fmt.Errorf("%s", msg)))
		}
	}
	return nil
}
