// Package preview renders LRGB composites as JPEG 2000 images for viewing.
//
// A preview is a display copy: samples are scaled linearly so the brightest
// sample of the composite maps to full scale, negative and NaN samples are
// black, and the result is quantized to 16 bits per component. The
// composite itself is not modified.
package preview

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mrjoshuak/go-jpeg2000"
	"github.com/nfnt/resize"

	"github.com/mrjoshuak/go-lrgb/fits"
	"github.com/mrjoshuak/go-lrgb/lrgb"
)

// Errors
var (
	ErrEmpty         = errors.New("preview: composite has no pixels")
	ErrUnknownFilter = errors.New("preview: unknown resize filter")
)

// Options controls preview rendering.
type Options struct {
	// Width of the preview in pixels. 0 keeps the composite width; the
	// height follows the aspect ratio.
	Width int

	// Filter names the resampling filter used when resizing.
	Filter string
}

// ParseFilter returns the interpolation function named by s.
func ParseFilter(s string) (resize.InterpolationFunction, error) {
	switch strings.ToLower(s) {
	case "nearest":
		return resize.NearestNeighbor, nil
	case "bilinear":
		return resize.Bilinear, nil
	case "bicubic":
		return resize.Bicubic, nil
	case "mitchell":
		return resize.MitchellNetravali, nil
	case "lanczos2":
		return resize.Lanczos2, nil
	case "", "lanczos3":
		return resize.Lanczos3, nil
	}
	return resize.Lanczos3, fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// ToImage converts a composite to an opaque 16-bit RGB image.
func ToImage(c *lrgb.Composite) (*image.NRGBA64, error) {
	total := c.Width * c.Height
	if total == 0 {
		return nil, ErrEmpty
	}
	samples, err := asFloats(c.Plane)
	if err != nil {
		return nil, err
	}
	if len(samples) != 3*total {
		return nil, fmt.Errorf("%w: %d samples for %dx%d", lrgb.ErrShapeMismatch, len(samples), c.Width, c.Height)
	}

	peak := 0.0
	for _, v := range samples {
		if v > peak && !math.IsInf(v, 1) {
			peak = v
		}
	}

	img := image.NewNRGBA64(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			i := y*c.Width + x
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: quantize(samples[i], peak),
				G: quantize(samples[i+total], peak),
				B: quantize(samples[i+2*total], peak),
				A: math.MaxUint16,
			})
		}
	}
	return img, nil
}

// quantize maps [0, peak] to [0, 65535].
func quantize(v, peak float64) uint16 {
	if peak <= 0 || math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= peak {
		return math.MaxUint16
	}
	return uint16(math.Round(v / peak * math.MaxUint16))
}

// asFloats returns the samples of p as float64. Missing integer samples
// are 0.
func asFloats(p fits.Plane) ([]float64, error) {
	switch p := p.(type) {
	case *fits.FloatPlane[float32]:
		return widen(p.Samples, func(v float32) float64 { return float64(v) }), nil
	case *fits.FloatPlane[float64]:
		return p.Samples, nil
	case *fits.IntPlane[int32]:
		return widen(p.Samples, func(v fits.Nullable[int32]) float64 { return float64(v.Or(0)) }), nil
	case *fits.IntPlane[uint32]:
		return widen(p.Samples, func(v fits.Nullable[uint32]) float64 { return float64(v.Or(0)) }), nil
	}
	return nil, fmt.Errorf("%w: %T", fits.ErrUnsupportedEncoding, p)
}

func widen[S any](in []S, f func(S) float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

// Render converts a composite and applies the resize in opts.
func Render(c *lrgb.Composite, opts Options) (image.Image, error) {
	img, err := ToImage(c)
	if err != nil {
		return nil, err
	}
	if opts.Width <= 0 || opts.Width == c.Width {
		return img, nil
	}
	interp, err := ParseFilter(opts.Filter)
	if err != nil {
		return nil, err
	}
	return resize.Resize(uint(opts.Width), 0, img, interp), nil
}

// Encode writes a lossless JPEG 2000 codestream of the composite to w.
func Encode(w io.Writer, c *lrgb.Composite, opts Options) error {
	img, err := Render(c, opts)
	if err != nil {
		return err
	}
	b := img.Bounds()
	err = jpeg2000.Encode(w, img, &jpeg2000.Options{
		Format:         jpeg2000.FormatJ2K,
		Lossless:       true,
		NumResolutions: resolutions(b.Dx(), b.Dy()),
	})
	if err != nil {
		return fmt.Errorf("preview: jpeg2000 encode failed: %w", err)
	}
	return nil
}

// resolutions returns the number of wavelet resolution levels for an image,
// at most 6 and never more than its smaller side can be halved.
func resolutions(w, h int) int {
	n := 1
	for side := min(w, h); side > 1 && n < 6; side /= 2 {
		n++
	}
	return n
}

// Write encodes the preview to the file at path.
func Write(path string, c *lrgb.Composite, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	bw := bufio.NewWriter(f)
	if err = Encode(bw, c, opts); err != nil {
		return err
	}
	return bw.Flush()
}
