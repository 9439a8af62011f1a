package lrgb

import (
	"context"
	"fmt"
	"math"

	"github.com/mrjoshuak/go-lrgb/fits"
)

// Composite is a colour image stored as one planar sample buffer: the red
// plane, then green, then blue, each Width*Height samples long.
type Composite struct {
	Width  int
	Height int

	// Plane has shape [Width, Height, 3] and the encoding of the inputs.
	// Integer composites never hold missing samples.
	Plane fits.Plane
}

// Shape returns [Width, Height, 3].
func (c *Composite) Shape() []int {
	return []int{c.Width, c.Height, 3}
}

// Encoding returns the sample encoding of the composite.
func (c *Composite) Encoding() fits.Encoding {
	return c.Plane.Encoding()
}

// Compose computes the LRGB composite of four planes. The width and height
// are the first two axes of l; every plane must hold width*height samples
// of the same encoding.
func Compose(l, r, g, b fits.Plane, opts ...Option) (*Composite, error) {
	return ComposeContext(context.Background(), l, r, g, b, opts...)
}

// ComposeContext is like Compose but stops early when ctx is cancelled.
func ComposeContext(ctx context.Context, l, r, g, b fits.Plane, opts ...Option) (*Composite, error) {
	o := buildOptions(opts)
	planes := [4]fits.Plane{l, r, g, b}
	for i, p := range planes {
		if p == nil {
			return nil, fmt.Errorf("%w: no %s plane", ErrShapeMismatch, Channel(i))
		}
	}

	enc := l.Encoding()
	if !enc.Supported() {
		return nil, fmt.Errorf("%w: %s", fits.ErrUnsupportedEncoding, enc)
	}
	for _, ch := range Channels[1:] {
		if e := planes[ch].Encoding(); e != enc {
			return nil, fmt.Errorf("%w: %s is %s, luminance is %s", ErrEncodingMismatch, ch, e, enc)
		}
	}

	shape := l.Shape()
	if len(shape) < 2 {
		return nil, fmt.Errorf("%w: luminance has %d axes", ErrShapeMismatch, len(shape))
	}
	width, height := shape[0], shape[1]
	total := width * height
	for _, ch := range Channels {
		if n := planes[ch].Len(); n != total {
			return nil, fmt.Errorf("%w: %s has %d samples, want %dx%d", ErrShapeMismatch, ch, n, width, height)
		}
	}

	var (
		out fits.Plane
		err error
	)
	switch enc {
	case fits.EncodingInt32:
		out, err = composeNullable[int32](ctx, o, planes, total)
	case fits.EncodingUint32:
		out, err = composeNullable[uint32](ctx, o, planes, total)
	case fits.EncodingFloat32:
		out, err = composeFloat[float32](ctx, o, planes, total)
	default:
		out, err = composeFloat[float64](ctx, o, planes, total)
	}
	if err != nil {
		return nil, err
	}
	return &Composite{Width: width, Height: height, Plane: out}, nil
}

// samplesOf extracts the sample buffers of four planes of concrete type P.
func samplesOf[P fits.Plane, S any](planes [4]fits.Plane, get func(P) []S) ([4][]S, error) {
	var out [4][]S
	for i, p := range planes {
		tp, ok := p.(P)
		if !ok {
			return out, fmt.Errorf("%w: %s plane has type %T", ErrEncodingMismatch, Channel(i), p)
		}
		out[i] = get(tp)
	}
	return out, nil
}

// run applies pixel to every index in [0, total) and stores the results
// planar: red at i, green at i+total, blue at i+2*total.
func run[S, T any](ctx context.Context, o options, in [4][]S, total int, pixel func(l, r, g, b S) (T, T, T)) ([]T, error) {
	out := make([]T, 3*total)
	l, r, g, b := in[Luminance], in[Red], in[Green], in[Blue]
	err := parallelRanges(ctx, total, o.effectiveWorkers(), func(start, end int) {
		for i := start; i < end; i++ {
			out[i], out[i+total], out[i+2*total] = pixel(l[i], r[i], g[i], b[i])
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func composeFloat[T fits.Float](ctx context.Context, o options, planes [4]fits.Plane, total int) (fits.Plane, error) {
	in, err := samplesOf(planes, func(p *fits.FloatPlane[T]) []T { return p.Samples })
	if err != nil {
		return nil, err
	}
	out, err := run(ctx, o, in, total, floatPixel[T])
	if err != nil {
		return nil, err
	}
	plane, err := fits.NewFloatPlane([]int{planeWidth(planes), planeHeight(planes), 3}, out)
	if err != nil {
		return nil, err
	}
	return plane, nil
}

// floatPixel computes one pixel in the native floating-point type. NaN
// inputs propagate.
func floatPixel[T fits.Float](l, r, g, b T) (T, T, T) {
	sum := r + g + b
	if sum == 0 {
		return 0, 0, 0
	}
	return l * (r / sum), l * (g / sum), l * (b / sum)
}

func composeNullable[T fits.Integer](ctx context.Context, o options, planes [4]fits.Plane, total int) (fits.Plane, error) {
	in, err := samplesOf(planes, func(p *fits.IntPlane[T]) []fits.Nullable[T] { return p.Samples })
	if err != nil {
		return nil, err
	}
	conv := newIntAdapter[T]()
	out, err := run(ctx, o, in, total, func(l, r, g, b fits.Nullable[T]) (fits.Nullable[T], fits.Nullable[T], fits.Nullable[T]) {
		lv, lok := l.Get()
		rv, rok := r.Get()
		gv, gok := g.Get()
		bv, bok := b.Get()
		black := fits.Present[T](0)
		if !lok || !rok || !gok || !bok {
			return black, black, black
		}
		rf, gf, bf := float64(rv), float64(gv), float64(bv)
		sum := rf + gf + bf
		if sum == 0 {
			return black, black, black
		}
		lf := float64(lv)
		return fits.Present(conv.fromWork(lf * (rf / sum))),
			fits.Present(conv.fromWork(lf * (gf / sum))),
			fits.Present(conv.fromWork(lf * (bf / sum)))
	})
	if err != nil {
		return nil, err
	}
	plane, err := fits.NewIntPlane([]int{planeWidth(planes), planeHeight(planes), 3}, out)
	if err != nil {
		return nil, err
	}
	return plane, nil
}

// intAdapter converts float64 working values back to an integer type.
type intAdapter[T fits.Integer] struct {
	lo, hi float64
}

func newIntAdapter[T fits.Integer]() intAdapter[T] {
	var zero T
	switch any(zero).(type) {
	case uint32:
		return intAdapter[T]{lo: 0, hi: math.MaxUint32}
	default:
		return intAdapter[T]{lo: math.MinInt32, hi: math.MaxInt32}
	}
}

// fromWork rounds half to even and saturates to the range of T.
func (a intAdapter[T]) fromWork(v float64) T {
	v = math.RoundToEven(v)
	switch {
	case v < a.lo:
		v = a.lo
	case v > a.hi:
		v = a.hi
	}
	return T(v)
}

func planeWidth(planes [4]fits.Plane) int {
	return planes[Luminance].Shape()[0]
}

func planeHeight(planes [4]fits.Plane) int {
	return planes[Luminance].Shape()[1]
}

// CompositeFromPlane wraps a decoded [width, height, 3] plane, such as one
// read back from a file written by Merge.
func CompositeFromPlane(p fits.Plane) (*Composite, error) {
	shape := p.Shape()
	if len(shape) != 3 || shape[2] != 3 {
		return nil, fmt.Errorf("%w: %v is not a colour cube", ErrShapeMismatch, shape)
	}
	return &Composite{Width: shape[0], Height: shape[1], Plane: p}, nil
}
