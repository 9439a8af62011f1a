package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrjoshuak/go-lrgb/fits"
	"github.com/mrjoshuak/go-lrgb/internal/logging"
	"github.com/mrjoshuak/go-lrgb/lrgb"
	"github.com/mrjoshuak/go-lrgb/preview"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		inFile, outFile string
		width           int
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Write a JPEG 2000 preview of a composite",
		Long: `Write a lossless JPEG 2000 codestream of an RGB composite for viewing.

Samples are scaled so the brightest sample is full scale. Negative and NaN
samples are black. The width defaults to [preview].width from the
configuration file, where 0 keeps the composite size.`,
		Example: "  lrgb preview -i M27.fits -o M27.j2k -w 1024",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := preview.Options{Width: a.cfg.Preview.Width, Filter: a.cfg.Preview.Filter}
			if cmd.Flags().Changed("width") {
				if width < 0 {
					return fmt.Errorf("--width must not be negative, got %d", width)
				}
				opts.Width = width
			}
			c, err := readComposite(inFile)
			if err != nil {
				return err
			}
			tl := logging.NewTimeLog()
			if err := preview.Write(outFile, c, opts); err != nil {
				return fmt.Errorf("%s: %w", outFile, err)
			}
			tl.Debugf("preview of %s written", inFile)
			printSuccess(cmd.OutOrStdout(), "wrote %s", outFile)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&inFile, "in-file", "i", "", "composite FITS file")
	f.StringVarP(&outFile, "out-file", "o", "", "output JPEG 2000 file")
	f.IntVarP(&width, "width", "w", 0, "preview width in pixels")
	_ = cmd.MarkFlagRequired("in-file")
	_ = cmd.MarkFlagRequired("out-file")
	return cmd
}

// readComposite returns the first RGB colour cube in the file at path.
func readComposite(path string) (*lrgb.Composite, error) {
	f, err := fits.OpenFile(path)
	if err != nil {
		return nil, err
	}
	for _, hdu := range f.HDUs() {
		shape := hdu.Shape()
		if !hdu.IsImage() || !hdu.Encoding().Supported() || len(shape) != 3 || shape[2] != 3 {
			continue
		}
		p, err := hdu.ReadPlane()
		if err != nil {
			return nil, fmt.Errorf("%s: HDU %d: %w", path, hdu.Index(), err)
		}
		logging.Debugf("%s: composite in HDU %d, %s", path, hdu.Index(), humanize.Bytes(uint64(hdu.DataSize())))
		return lrgb.CompositeFromPlane(p)
	}
	return nil, fmt.Errorf("%s: no RGB image found", path)
}
