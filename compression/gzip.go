// Package compression provides the gzip layer used for compressed FITS files.
//
// FITS files are commonly distributed as whole-file gzip streams
// (".fits.gz"). Readers detect the stream by its magic bytes; writers
// choose compression from the output file name.
package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// Gzip errors
var (
	ErrGzipCorrupted = errors.New("compression: corrupted gzip data")
	ErrInvalidLevel  = errors.New("compression: invalid gzip level")
)

// Level represents a gzip compression level.
// Valid values are -2 to 9, where:
//   - -2: Huffman-only compression (klauspost extension)
//   - -1: Default compression
//   - 0: No compression (store)
//   - 1: Best speed
//   - 9: Best compression
type Level int

// Standard compression levels
const (
	LevelHuffmanOnly Level = gzip.HuffmanOnly
	LevelDefault     Level = gzip.DefaultCompression
	LevelNone        Level = gzip.NoCompression
	LevelBestSpeed   Level = gzip.BestSpeed
	LevelBestSize    Level = gzip.BestCompression
)

// Valid reports whether l is a level the encoder accepts.
func (l Level) Valid() bool {
	return l >= LevelHuffmanOnly && l <= LevelBestSize
}

// gzipMagic is the two-byte member header of every gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// IsGzip reports whether data starts with a gzip member header.
func IsGzip(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic)
}

// IsGzipPath reports whether a file name asks for gzip output.
func IsGzipPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

var readerPool sync.Pool

// Gunzip decompresses a complete gzip stream held in memory.
func Gunzip(data []byte) ([]byte, error) {
	src := bytes.NewReader(data)

	var zr *gzip.Reader
	if v := readerPool.Get(); v != nil {
		zr = v.(*gzip.Reader)
		if err := zr.Reset(src); err != nil {
			readerPool.Put(zr)
			return nil, fmt.Errorf("%w: %v", ErrGzipCorrupted, err)
		}
	} else {
		var err error
		zr, err = gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGzipCorrupted, err)
		}
	}
	defer readerPool.Put(zr)

	var out bytes.Buffer
	// Compressed FITS are usually 2-4x smaller than the raw data.
	out.Grow(len(data) * 3)
	if _, err := io.Copy(&out, zr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGzipCorrupted, err)
	}
	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGzipCorrupted, err)
	}
	return out.Bytes(), nil
}

// Writer wraps a gzip writer and returns it to a per-level pool on Close.
type Writer struct {
	zw    *gzip.Writer
	level Level
}

var writerPools [LevelBestSize - LevelHuffmanOnly + 1]sync.Pool

// NewWriter returns a gzip writer at the given level that writes to w.
// Close must be called to flush the stream; it does not close w.
func NewWriter(w io.Writer, level Level) (*Writer, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	pool := &writerPools[level-LevelHuffmanOnly]
	if v := pool.Get(); v != nil {
		zw := v.(*gzip.Writer)
		zw.Reset(w)
		return &Writer{zw: zw, level: level}, nil
	}
	zw, err := gzip.NewWriterLevel(w, int(level))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	return &Writer{zw: zw, level: level}, nil
}

// Write compresses p.
func (w *Writer) Write(p []byte) (int, error) {
	if w.zw == nil {
		return 0, io.ErrClosedPipe
	}
	return w.zw.Write(p)
}

// Close flushes the stream and recycles the encoder.
func (w *Writer) Close() error {
	if w.zw == nil {
		return nil
	}
	err := w.zw.Close()
	writerPools[w.level-LevelHuffmanOnly].Put(w.zw)
	w.zw = nil
	return err
}

// Gzip compresses data in memory at the given level.
func Gzip(data []byte, level Level) ([]byte, error) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
