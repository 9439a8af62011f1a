package compression

import (
	"bytes"
	"errors"
	"testing"
)

func TestGzipRoundTrip(t *testing.T) {
	src := bytes.Repeat([]byte("SIMPLE  =                    T"), 200)

	levels := []Level{LevelHuffmanOnly, LevelDefault, LevelNone, LevelBestSpeed, 5, LevelBestSize}
	for _, level := range levels {
		compressed, err := Gzip(src, level)
		if err != nil {
			t.Fatalf("Gzip(level %d) error = %v", level, err)
		}
		if !IsGzip(compressed) {
			t.Fatalf("Gzip(level %d) output missing gzip magic", level)
		}
		got, err := Gunzip(compressed)
		if err != nil {
			t.Fatalf("Gunzip(level %d) error = %v", level, err)
		}
		if !bytes.Equal(got, src) {
			t.Errorf("Gunzip(level %d) mismatch: got %d bytes, want %d", level, len(got), len(src))
		}
	}
}

func TestGzipPoolReuse(t *testing.T) {
	// Run twice per level so the second pass exercises recycled encoders.
	for i := 0; i < 2; i++ {
		for _, payload := range [][]byte{[]byte("first"), []byte("second payload")} {
			c, err := Gzip(payload, LevelBestSpeed)
			if err != nil {
				t.Fatalf("Gzip() error = %v", err)
			}
			got, err := Gunzip(c)
			if err != nil {
				t.Fatalf("Gunzip() error = %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("round trip = %q, want %q", got, payload)
			}
		}
	}
}

func TestInvalidLevel(t *testing.T) {
	for _, level := range []Level{-3, 10} {
		if _, err := NewWriter(&bytes.Buffer{}, level); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("NewWriter(level %d) error = %v, want ErrInvalidLevel", level, err)
		}
	}
}

func TestGunzipCorrupted(t *testing.T) {
	c, err := Gzip([]byte("some data that will be truncated"), LevelDefault)
	if err != nil {
		t.Fatalf("Gzip() error = %v", err)
	}

	tests := map[string][]byte{
		"not gzip":  []byte("SIMPLE"),
		"truncated": c[:len(c)/2],
	}
	for name, data := range tests {
		if _, err := Gunzip(data); !errors.Is(err, ErrGzipCorrupted) {
			t.Errorf("%s: Gunzip() error = %v, want ErrGzipCorrupted", name, err)
		}
	}
}

func TestIsGzipPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"out.fits", false},
		{"out.fits.gz", true},
		{"OUT.FIT.GZ", true},
		{"gz", false},
	}
	for _, tt := range tests {
		if got := IsGzipPath(tt.path); got != tt.want {
			t.Errorf("IsGzipPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWriterCloseTwice(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, LevelDefault)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if _, err := w.Write([]byte("x")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := w.Write([]byte("y")); err == nil {
		t.Error("Write() after Close should fail")
	}
}
