package lrgb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mrjoshuak/go-lrgb/fits"
	"github.com/mrjoshuak/go-lrgb/fitsmeta"
	"github.com/mrjoshuak/go-lrgb/internal/logging"
)

// Inputs names the four input files and the output file of a merge.
type Inputs struct {
	Luminance string
	Red       string
	Green     string
	Blue      string
	Output    string
}

// Path returns the input file for ch.
func (in Inputs) Path(ch Channel) string {
	switch ch {
	case Luminance:
		return in.Luminance
	case Red:
		return in.Red
	case Green:
		return in.Green
	case Blue:
		return in.Blue
	}
	return ""
}

// Result describes a completed merge.
type Result struct {
	RunID    string
	Width    int
	Height   int
	Encoding fits.Encoding
	// Size is the size of the written file in bytes.
	Size int64
}

// source is one selected input.
type source struct {
	plane   fits.Plane
	primary *fits.Header
	header  *fits.Header
}

// Merge reads the grayscale plane of each input file, composes them and
// writes the composite as the primary HDU of in.Output. The output file is
// only created once composition has succeeded; an existing file is replaced.
func Merge(ctx context.Context, in Inputs, opts ...Option) (*Result, error) {
	o := buildOptions(opts)
	runID := uuid.NewString()
	tlog := logging.NewTimeLog()

	var sources [4]source
	g, gctx := errgroup.WithContext(ctx)
	for _, ch := range Channels {
		ch := ch
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := readSource(in.Path(ch))
			if err != nil {
				return fmt.Errorf("%s file: %w", ch, err)
			}
			sources[ch] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	tlog.Debugf("[%s] read %d inputs", runID, len(sources))

	comp, err := ComposeContext(ctx, sources[Luminance].plane, sources[Red].plane,
		sources[Green].plane, sources[Blue].plane, opts...)
	if err != nil {
		return nil, err
	}
	tlog.Debugf("[%s] composed %dx%d %s", runID, comp.Width, comp.Height, comp.Encoding())

	hdr := provenance(in, sources[Luminance], runID, o)
	if err := fits.Create(in.Output, comp.Plane, hdr, fits.WithGzipLevel(o.gzipLevel)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, in.Output, err)
	}

	res := &Result{
		RunID:    runID,
		Width:    comp.Width,
		Height:   comp.Height,
		Encoding: comp.Encoding(),
	}
	if st, err := os.Stat(in.Output); err == nil {
		res.Size = st.Size()
	}
	tlog.Infof("[%s] wrote %s (%dx%d %s, %s)", runID, in.Output, res.Width, res.Height,
		res.Encoding, humanize.Bytes(uint64(res.Size)))
	return res, nil
}

func readSource(path string) (source, error) {
	f, err := fits.OpenFile(path)
	if err != nil {
		return source{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	ext, err := FindGrayscale(FromFITS(f))
	if err != nil {
		return source{}, fmt.Errorf("%s: %w", path, err)
	}
	plane, err := ext.ReadPlane()
	if err != nil {
		return source{}, fmt.Errorf("%w: %s: HDU %d: %w", ErrIO, path, ext.Index(), err)
	}
	logging.Debugf("selected HDU %d of %s: %s %v", ext.Index(), path, plane.Encoding(), plane.Shape())
	return source{
		plane:   plane,
		primary: f.HDU(0).Header(),
		header:  f.HDU(ext.Index()).Header(),
	}, nil
}

// provenance builds the extra header cards of the composite: the
// observation keywords of the luminance frame and a record of the run.
func provenance(in Inputs, lum source, runID string, o options) *fits.Header {
	h := fits.NewHeader()
	fitsmeta.CopyObservation(lum.primary, h)
	if lum.header != lum.primary {
		fitsmeta.CopyObservation(lum.header, h)
	}
	if o.origin != "" {
		fitsmeta.SetOrigin(h, o.origin)
	}
	fitsmeta.SetDate(h, time.Now())
	fitsmeta.SetRunID(h, runID)
	if o.history {
		for _, ch := range Channels {
			fitsmeta.AddHistory(h, fmt.Sprintf("%s: %s", ch, filepath.Base(in.Path(ch))))
		}
	}
	return h
}
