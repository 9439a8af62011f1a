package lrgb_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrjoshuak/go-lrgb/fits"
	"github.com/mrjoshuak/go-lrgb/fitsmeta"
	"github.com/mrjoshuak/go-lrgb/lrgb"
)

// Example_compose composes a two-pixel image from floating-point planes.
func Example_compose() {
	shape := []int{2, 1}
	l, _ := fits.NewFloatPlane(shape, []float64{6, 9})
	r, _ := fits.NewFloatPlane(shape, []float64{1, 1})
	g, _ := fits.NewFloatPlane(shape, []float64{1, 2})
	b, _ := fits.NewFloatPlane(shape, []float64{1, 3})

	c, err := lrgb.Compose(l, r, g, b)
	if err != nil {
		fmt.Println("compose:", err)
		return
	}
	s := c.Plane.(*fits.FloatPlane[float64]).Samples
	n := c.Width * c.Height
	for i := 0; i < n; i++ {
		fmt.Printf("pixel %d: %.2f %.2f %.2f\n", i, s[i], s[i+n], s[i+2*n])
	}
	// Output:
	// pixel 0: 2.00 2.00 2.00
	// pixel 1: 1.50 3.00 4.50
}

// Example_missingSamples shows that a missing integer sample yields black.
func Example_missingSamples() {
	shape := []int{2, 1}
	present := func(v ...int32) []fits.Nullable[int32] {
		out := make([]fits.Nullable[int32], len(v))
		for i, x := range v {
			out[i] = fits.Present(x)
		}
		return out
	}
	red := present(10, 10)
	red[1] = fits.Missing[int32]()

	l, _ := fits.NewIntPlane(shape, present(300, 300))
	r, _ := fits.NewIntPlane(shape, red)
	g, _ := fits.NewIntPlane(shape, present(10, 10))
	b, _ := fits.NewIntPlane(shape, present(10, 10))

	c, err := lrgb.Compose(l, r, g, b)
	if err != nil {
		fmt.Println("compose:", err)
		return
	}
	fmt.Println(c.Encoding(), c.Plane.(*fits.IntPlane[int32]).Samples)
	// Output:
	// int32 [100 0 100 0 100 0]
}

// Example_merge composes four FITS files into one.
func Example_merge() {
	dir, err := os.MkdirTemp("", "lrgb-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	in := lrgb.Inputs{Output: filepath.Join(dir, "M27.fits")}
	values := map[lrgb.Channel][]float32{
		lrgb.Luminance: {8, 8},
		lrgb.Red:       {1, 0},
		lrgb.Green:     {1, 0},
		lrgb.Blue:      {2, 0},
	}
	for _, ch := range lrgb.Channels {
		p, _ := fits.NewFloatPlane([]int{2, 1}, values[ch])
		path := filepath.Join(dir, ch.String()+".fits")
		if err := fits.Create(path, p, nil); err != nil {
			fmt.Println(err)
			return
		}
		switch ch {
		case lrgb.Luminance:
			in.Luminance = path
		case lrgb.Red:
			in.Red = path
		case lrgb.Green:
			in.Green = path
		case lrgb.Blue:
			in.Blue = path
		}
	}

	res, err := lrgb.Merge(context.Background(), in)
	if err != nil {
		fmt.Println("merge:", err)
		return
	}
	fmt.Printf("%dx%d %s\n", res.Width, res.Height, res.Encoding)

	f, err := fits.OpenFile(in.Output)
	if err != nil {
		fmt.Println(err)
		return
	}
	hdu := f.HDU(0)
	p, _ := hdu.ReadPlane()
	fmt.Println(hdu.Shape(), p.(*fits.FloatPlane[float32]).Samples)
	fmt.Println(fitsmeta.Origin(hdu.Header()))
	for _, h := range fitsmeta.History(hdu.Header()) {
		fmt.Println(h)
	}
	// Output:
	// 2x1 float32
	// [2 1 3] [2 0 2 0 4 0]
	// lrgb
	// luminance: luminance.fits
	// red: red.fits
	// green: green.fits
	// blue: blue.fits
}
