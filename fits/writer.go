package fits

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/mrjoshuak/go-lrgb/compression"
	"github.com/mrjoshuak/go-lrgb/internal/xdr"
)

// reservedKeys are written by the encoder from the plane itself and are
// dropped from caller-supplied headers.
var reservedKeys = map[string]bool{
	"SIMPLE": true, "XTENSION": true, "BITPIX": true, "NAXIS": true,
	"EXTEND": true, "PCOUNT": true, "GCOUNT": true, "GROUPS": true,
	"BZERO": true, "BSCALE": true, "BLANK": true, KeyEnd: true,
}

func isReserved(key string) bool {
	if reservedKeys[key] {
		return true
	}
	if len(key) > 5 && key[:5] == "NAXIS" {
		return true
	}
	return false
}

// Writer writes a sequence of HDUs. The first HDU written is the primary
// HDU; later ones are IMAGE extensions.
type Writer struct {
	w   io.Writer
	n   int
	buf *xdr.BufferWriter
}

// NewWriter creates a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buf: xdr.NewBufferWriter(BlockSize)}
}

// NumHDUs returns the number of HDUs written so far.
func (w *Writer) NumHDUs() int {
	return w.n
}

// WriteEmptyPrimary writes a primary HDU without data, as used by files
// that keep their images in extensions.
func (w *Writer) WriteEmptyPrimary(extra *Header) error {
	if w.n != 0 {
		return fmt.Errorf("%w: primary HDU already written", ErrInvalidHeader)
	}
	h := NewHeader()
	h.Set("SIMPLE", true, "conforms to FITS standard")
	h.Set("BITPIX", 8, "")
	h.Set("NAXIS", 0, "")
	h.Set("EXTEND", true, "")
	appendExtra(h, extra)
	return w.WriteRaw(h, nil)
}

// WritePlane writes plane as the next HDU, followed by the non-structural
// cards of extra.
func (w *Writer) WritePlane(plane Plane, extra *Header) error {
	h, data, err := w.encodePlane(plane)
	if err != nil {
		return err
	}
	appendExtra(h, extra)
	return w.WriteRaw(h, data)
}

// WriteRaw writes a header exactly as given followed by data. The caller is
// responsible for the structural keywords matching data.
func (w *Writer) WriteRaw(h *Header, data []byte) error {
	w.buf.Reset()
	for _, c := range h.Cards() {
		card, err := formatCard(c)
		if err != nil {
			return err
		}
		w.buf.WriteBytes(card)
	}
	w.buf.WriteBytes(padCard(KeyEnd))
	w.buf.Pad(BlockSize, ' ')
	if _, err := w.w.Write(w.buf.Bytes()); err != nil {
		return err
	}

	if len(data) > 0 {
		if _, err := w.w.Write(data); err != nil {
			return err
		}
		if pad := paddedSize(len(data)) - len(data); pad > 0 {
			if _, err := w.w.Write(make([]byte, pad)); err != nil {
				return err
			}
		}
	}
	w.n++
	return nil
}

func (w *Writer) encodePlane(plane Plane) (*Header, []byte, error) {
	shape := plane.Shape()
	if err := checkShape(shape, plane.Len()); err != nil {
		return nil, nil, err
	}
	enc := plane.Encoding()

	h := NewHeader()
	if w.n == 0 {
		h.Set("SIMPLE", true, "conforms to FITS standard")
	} else {
		h.Set("XTENSION", KindImage, "image extension")
	}
	h.Set("BITPIX", enc.Bitpix(), "")
	h.Set("NAXIS", len(shape), "")
	for i, n := range shape {
		h.Set(fmt.Sprintf("NAXIS%d", i+1), n, "")
	}
	if w.n == 0 {
		h.Set("EXTEND", true, "")
	} else {
		h.Set("PCOUNT", 0, "")
		h.Set("GCOUNT", 1, "")
	}

	out := xdr.NewBufferWriter(plane.Len() * enc.BytesPerSample())
	switch p := plane.(type) {
	case *IntPlane[int32]:
		blank, used, err := chooseBlank(p.Samples, math.MinInt32)
		if err != nil {
			return nil, nil, err
		}
		if used {
			h.Set("BLANK", int64(blank), "missing samples")
		}
		for _, s := range p.Samples {
			out.WriteInt32(s.Or(blank))
		}
	case *IntPlane[uint32]:
		h.Set("BZERO", int64(uint32Zero), "data are unsigned")
		h.Set("BSCALE", 1, "")
		blank, used, err := chooseBlank(p.Samples, math.MaxUint32)
		if err != nil {
			return nil, nil, err
		}
		if used {
			// BLANK is compared with the stored value.
			h.Set("BLANK", int64(int32(blank^0x80000000)), "missing samples")
		}
		for _, s := range p.Samples {
			out.WriteUint32(s.Or(blank) ^ 0x80000000)
		}
	case *FloatPlane[float32]:
		for _, v := range p.Samples {
			out.WriteFloat32(v)
		}
	case *FloatPlane[float64]:
		for _, v := range p.Samples {
			out.WriteFloat64(v)
		}
	default:
		return nil, nil, fmt.Errorf("%w: %s plane of type %T", ErrUnsupportedEncoding, enc, plane)
	}
	return h, out.Bytes(), nil
}

// chooseBlank reports whether any sample is missing, and fails if a present
// sample would be read back as missing.
func chooseBlank[T Integer](samples []Nullable[T], blank T) (T, bool, error) {
	missing := false
	for _, s := range samples {
		if s.IsMissing() {
			missing = true
			break
		}
	}
	if !missing {
		return blank, false, nil
	}
	for _, s := range samples {
		if v, ok := s.Get(); ok && v == blank {
			return blank, true, fmt.Errorf("%w: %v", ErrBlankCollision, v)
		}
	}
	return blank, true, nil
}

func appendExtra(h, extra *Header) {
	if extra == nil {
		return
	}
	for _, c := range extra.Cards() {
		if !c.IsCommentary() && isReserved(c.Keyword) {
			continue
		}
		h.cards = append(h.cards, c)
	}
}

// Encode writes plane as the primary HDU of a new file.
func Encode(w io.Writer, plane Plane, extra *Header) error {
	return NewWriter(w).WritePlane(plane, extra)
}

// CreateOptions controls Create.
type CreateOptions struct {
	// GzipLevel is used when the output path ends in ".gz".
	GzipLevel compression.Level
}

// CreateOption configures Create.
type CreateOption func(*CreateOptions)

// WithGzipLevel sets the compression level for ".gz" outputs.
func WithGzipLevel(level compression.Level) CreateOption {
	return func(o *CreateOptions) {
		o.GzipLevel = level
	}
}

// Create writes plane as the sole HDU of the file at path, replacing any
// existing file. The data is written to a temporary file in the same
// directory first, so a failed write leaves no output behind.
func Create(path string, plane Plane, extra *Header, opts ...CreateOption) (err error) {
	o := CreateOptions{GzipLevel: compression.LevelDefault}
	for _, opt := range opts {
		opt(&o)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriterSize(tmp, 1<<20)
	var dst io.Writer = bw
	var zw *compression.Writer
	if compression.IsGzipPath(path) {
		if zw, err = compression.NewWriter(bw, o.GzipLevel); err != nil {
			return err
		}
		dst = zw
	}

	if err = Encode(dst, plane, extra); err != nil {
		return err
	}
	if zw != nil {
		if err = zw.Close(); err != nil {
			return err
		}
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
