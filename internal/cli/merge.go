package cli

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrjoshuak/go-lrgb/compression"
	"github.com/mrjoshuak/go-lrgb/lrgb"
)

var mergeFlags = [...]struct {
	name, short string
	ch          lrgb.Channel
}{
	{"lum-file", "l", lrgb.Luminance},
	{"red-file", "r", lrgb.Red},
	{"green-file", "g", lrgb.Green},
	{"blue-file", "b", lrgb.Blue},
}

func newMergeCmd(a *app) *cobra.Command {
	var in lrgb.Inputs
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Compose four grayscale FITS files into one RGB FITS file",
		Long: `Compose luminance, red, green and blue FITS files into one RGB FITS file.

Each output pixel is the luminance sample scaled by the share each colour
channel contributes to R+G+B. Pixels with a missing sample, or whose colour
sum is zero, are black. An output path ending in .gz is gzip compressed.`,
		Example: "  lrgb merge -l L.fits -r R.fits -g G.fits -b B.fits -o M27.fits",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMerge(cmd, in)
		},
	}

	targets := map[lrgb.Channel]*string{
		lrgb.Luminance: &in.Luminance,
		lrgb.Red:       &in.Red,
		lrgb.Green:     &in.Green,
		lrgb.Blue:      &in.Blue,
	}
	f := cmd.Flags()
	for _, fl := range mergeFlags {
		f.StringVarP(targets[fl.ch], fl.name, fl.short, "", fl.ch.String()+" FITS file")
		_ = cmd.MarkFlagRequired(fl.name)
		_ = cmd.MarkFlagFilename(fl.name, "fits", "fit", "fts", "gz")
	}
	f.StringVarP(&in.Output, "out-file", "o", "", "output FITS file")
	_ = cmd.MarkFlagRequired("out-file")
	return cmd
}

func (a *app) runMerge(cmd *cobra.Command, in lrgb.Inputs) error {
	res, err := lrgb.Merge(cmd.Context(), in,
		lrgb.WithWorkers(a.cfg.Compose.Workers),
		lrgb.WithGzipLevel(compression.Level(a.cfg.Output.GzipLevel)),
		lrgb.WithHistory(a.cfg.Output.History),
	)
	if err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "wrote %s (%dx%d %s, %s)",
		in.Output, res.Width, res.Height, res.Encoding, humanize.Bytes(uint64(res.Size)))
	return nil
}
