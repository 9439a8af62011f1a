package preview

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrjoshuak/go-lrgb/fits"
	"github.com/mrjoshuak/go-lrgb/lrgb"
)

func composite(t *testing.T, w, h int, samples []float64) *lrgb.Composite {
	t.Helper()
	p, err := fits.NewFloatPlane([]int{w, h, 3}, samples)
	if err != nil {
		t.Fatalf("NewFloatPlane() error = %v", err)
	}
	c, err := lrgb.CompositeFromPlane(p)
	if err != nil {
		t.Fatalf("CompositeFromPlane() error = %v", err)
	}
	return c
}

func gradient(t *testing.T, w, h int) *lrgb.Composite {
	t.Helper()
	n := w * h
	s := make([]float64, 3*n)
	for i := 0; i < n; i++ {
		s[i] = float64(i)
		s[i+n] = float64(n - i)
		s[i+2*n] = float64(i % 7)
	}
	return composite(t, w, h, s)
}

func TestToImageScaling(t *testing.T) {
	nan := math.NaN()
	// Two pixels: red plane, green plane, blue plane.
	c := composite(t, 2, 1, []float64{
		4, -1,
		2, nan,
		0, 1,
	})
	img, err := ToImage(c)
	if err != nil {
		t.Fatalf("ToImage() error = %v", err)
	}

	tests := []struct {
		x       int
		r, g, b uint16
	}{
		{0, 65535, 32768, 0},
		{1, 0, 0, 16384},
	}
	for _, tt := range tests {
		px := img.NRGBA64At(tt.x, 0)
		if px.R != tt.r || px.G != tt.g || px.B != tt.b || px.A != 65535 {
			t.Errorf("pixel %d = %+v, want R=%d G=%d B=%d", tt.x, px, tt.r, tt.g, tt.b)
		}
	}
}

func TestToImageIntegerComposite(t *testing.T) {
	s := []fits.Nullable[uint32]{
		fits.Present[uint32](10), fits.Present[uint32](0), fits.Present[uint32](5),
	}
	p, err := fits.NewIntPlane([]int{1, 1, 3}, s)
	if err != nil {
		t.Fatal(err)
	}
	c, err := lrgb.CompositeFromPlane(p)
	if err != nil {
		t.Fatal(err)
	}
	img, err := ToImage(c)
	if err != nil {
		t.Fatalf("ToImage() error = %v", err)
	}
	if px := img.NRGBA64At(0, 0); px.R != 65535 || px.G != 0 || px.B != 32768 {
		t.Errorf("pixel = %+v", px)
	}
}

func TestToImageBlack(t *testing.T) {
	img, err := ToImage(composite(t, 1, 1, []float64{0, -2, 0}))
	if err != nil {
		t.Fatalf("ToImage() error = %v", err)
	}
	if px := img.NRGBA64At(0, 0); px.R != 0 || px.G != 0 || px.B != 0 {
		t.Errorf("pixel = %+v, want black", px)
	}
}

func TestToImageEmpty(t *testing.T) {
	c := composite(t, 0, 4, nil)
	if _, err := ToImage(c); !errors.Is(err, ErrEmpty) {
		t.Errorf("ToImage() error = %v, want ErrEmpty", err)
	}
}

func TestRenderResize(t *testing.T) {
	img, err := Render(gradient(t, 64, 32), Options{Width: 16, Filter: "bilinear"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("Bounds() = %v, want 16x8", b)
	}

	if _, err := Render(gradient(t, 8, 8), Options{Width: 4, Filter: "sinc"}); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("Render() error = %v, want ErrUnknownFilter", err)
	}
}

func TestParseFilter(t *testing.T) {
	for _, name := range []string{"", "nearest", "bilinear", "bicubic", "mitchell", "lanczos2", "Lanczos3"} {
		if _, err := ParseFilter(name); err != nil {
			t.Errorf("ParseFilter(%q) error = %v", name, err)
		}
	}
}

func TestResolutions(t *testing.T) {
	tests := []struct{ w, h, want int }{
		{1, 1, 1},
		{2, 100, 2},
		{16, 16, 5},
		{4096, 2048, 6},
	}
	for _, tt := range tests {
		if got := resolutions(tt.w, tt.h); got != tt.want {
			t.Errorf("resolutions(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, gradient(t, 32, 32), Options{}); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	// A raw codestream starts with the SOC marker.
	if b := buf.Bytes(); len(b) < 2 || b[0] != 0xff || b[1] != 0x4f {
		t.Errorf("codestream starts with % x", buf.Bytes()[:min(4, buf.Len())])
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.j2k")
	if err := Write(path, gradient(t, 32, 16), Options{Width: 16}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() == 0 {
		t.Error("preview file is empty")
	}

	bad := filepath.Join(t.TempDir(), "bad.j2k")
	empty := composite(t, 0, 1, nil)
	if err := Write(bad, empty, Options{}); !errors.Is(err, ErrEmpty) {
		t.Errorf("Write() error = %v, want ErrEmpty", err)
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("failed Write() left a file behind")
	}
}
