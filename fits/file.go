package fits

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrjoshuak/go-lrgb/compression"
	"github.com/mrjoshuak/go-lrgb/internal/xdr"
)

// HDU kinds
const (
	KindPrimary  = "PRIMARY"
	KindImage    = "IMAGE"
	KindBinTable = "BINTABLE"
	KindTable    = "TABLE"
	KindGroups   = "GROUPS"
)

// File is a parsed FITS file. Headers are decoded when the file is opened;
// sample data stays in its stored form until an HDU's ReadPlane is called.
type File struct {
	data []byte
	hdus []*HDU
}

// HDU is one header-data unit of a file.
type HDU struct {
	index  int
	kind   string
	header *Header
	bitpix int
	axes   []int
	data   []byte
}

// Open reads a FITS file from r. gzip-compressed input is decompressed.
func Open(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// OpenFile reads a FITS file from the filesystem.
func OpenFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode parses a FITS file held in memory. The file keeps a reference to
// data; callers must not modify it afterwards.
func Decode(data []byte) (*File, error) {
	if compression.IsGzip(data) {
		raw, err := compression.Gunzip(data)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	if !bytes.HasPrefix(data, []byte("SIMPLE  =")) {
		return nil, ErrNotFITS
	}

	f := &File{data: data}
	r := xdr.NewReader(data)
	for r.Len() >= BlockSize {
		if len(f.hdus) > 0 {
			// Anything after the last HDU that is not an extension is a
			// special record and ends the file.
			next, _ := r.Peek(9)
			if string(next) != "XTENSION=" {
				break
			}
		}
		hdu, err := readHDU(r, len(f.hdus))
		if err != nil {
			return nil, fmt.Errorf("HDU %d: %w", len(f.hdus), err)
		}
		f.hdus = append(f.hdus, hdu)
	}
	if len(f.hdus) == 0 {
		return nil, ErrTruncated
	}
	return f, nil
}

func readHDU(r *xdr.Reader, index int) (*HDU, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	hdu := &HDU{index: index, header: h}
	if err := hdu.parseStructure(); err != nil {
		return nil, err
	}

	size, err := hdu.dataSize()
	if err != nil {
		return nil, err
	}
	if size > r.Len() {
		return nil, fmt.Errorf("%w: data unit needs %d bytes, %d left", ErrTruncated, size, r.Len())
	}
	hdu.data, _ = r.Next(size)

	// The final block may be stored without its padding.
	pad := paddedSize(size) - size
	if pad > r.Len() {
		pad = r.Len()
	}
	_ = r.Skip(pad)
	return hdu, nil
}

func readHeader(r *xdr.Reader) (*Header, error) {
	h := NewHeader()
	for {
		block, err := r.Next(BlockSize)
		if err != nil {
			return nil, fmt.Errorf("%w: header without END card", ErrTruncated)
		}
		for i := 0; i < cardsPerBlock; i++ {
			card, err := parseCard(block[i*CardSize : (i+1)*CardSize])
			if err != nil {
				return nil, err
			}
			if card.Keyword == KeyEnd {
				return h, nil
			}
			h.cards = append(h.cards, card)
		}
	}
}

// parseStructure reads the mandatory keywords that describe the data unit.
func (hdu *HDU) parseStructure() error {
	h := hdu.header
	if len(h.cards) == 0 {
		return fmt.Errorf("%w: empty header", ErrInvalidHeader)
	}

	switch first := h.cards[0]; first.Keyword {
	case "SIMPLE":
		if hdu.index != 0 {
			return fmt.Errorf("%w: SIMPLE in extension", ErrInvalidHeader)
		}
		if v, ok := first.Value.(bool); !ok || !v {
			return fmt.Errorf("%w: SIMPLE is not T", ErrNotFITS)
		}
		hdu.kind = KindPrimary
		if g, _ := h.Bool("GROUPS"); g {
			hdu.kind = KindGroups
		}
	case "XTENSION":
		name, ok := first.Value.(string)
		if !ok || name == "" {
			return fmt.Errorf("%w: XTENSION has no name", ErrInvalidHeader)
		}
		hdu.kind = strings.ToUpper(strings.TrimSpace(name))
	default:
		return fmt.Errorf("%w: first keyword is %q", ErrInvalidHeader, first.Keyword)
	}

	bitpix, ok := h.Int("BITPIX")
	if !ok || !validBitpix(int(bitpix)) {
		return fmt.Errorf("%w: bad BITPIX", ErrInvalidHeader)
	}
	hdu.bitpix = int(bitpix)

	naxis, ok := h.Int("NAXIS")
	if !ok || naxis < 0 || naxis > maxAxes {
		return fmt.Errorf("%w: bad NAXIS", ErrInvalidHeader)
	}
	hdu.axes = make([]int, naxis)
	for i := range hdu.axes {
		n, ok := h.Int(fmt.Sprintf("NAXIS%d", i+1))
		if !ok || n < 0 {
			return fmt.Errorf("%w: bad NAXIS%d", ErrInvalidHeader, i+1)
		}
		hdu.axes[i] = int(n)
	}
	return nil
}

// dataSize returns the stored size of the data unit without padding.
func (hdu *HDU) dataSize() (int, error) {
	if len(hdu.axes) == 0 {
		return 0, nil
	}
	axes := hdu.axes
	if hdu.kind == KindGroups && axes[0] == 0 {
		axes = axes[1:]
	}

	pcount, gcount := int64(0), int64(1)
	if hdu.kind != KindPrimary {
		if v, ok := hdu.header.Int("PCOUNT"); ok {
			pcount = v
		}
		if v, ok := hdu.header.Int("GCOUNT"); ok {
			gcount = v
		}
	}
	if pcount < 0 || gcount < 0 {
		return 0, fmt.Errorf("%w: negative PCOUNT or GCOUNT", ErrInvalidHeader)
	}

	const limit = int64(1) << 40
	n := int64(1)
	for _, a := range axes {
		n *= int64(a)
		if n > limit {
			return 0, fmt.Errorf("%w: data unit too large", ErrInvalidHeader)
		}
	}
	bytesPer := int64(hdu.bitpix)
	if bytesPer < 0 {
		bytesPer = -bytesPer
	}
	bytesPer /= 8
	size := bytesPer * gcount * (pcount + n)
	if size > limit {
		return 0, fmt.Errorf("%w: data unit too large", ErrInvalidHeader)
	}
	return int(size), nil
}

// NumHDUs returns the number of HDUs in the file.
func (f *File) NumHDUs() int {
	return len(f.hdus)
}

// HDU returns the HDU at index i, or nil if out of range.
func (f *File) HDU(i int) *HDU {
	if i < 0 || i >= len(f.hdus) {
		return nil
	}
	return f.hdus[i]
}

// HDUs returns all HDUs in file order.
func (f *File) HDUs() []*HDU {
	return f.hdus
}

// Size returns the size of the decoded (uncompressed) file.
func (f *File) Size() int {
	return len(f.data)
}

// Index returns the position of the HDU in its file.
func (hdu *HDU) Index() int {
	return hdu.index
}

// Kind returns PRIMARY, GROUPS, or the XTENSION name.
func (hdu *HDU) Kind() string {
	return hdu.kind
}

// Header returns the HDU's header.
func (hdu *HDU) Header() *Header {
	return hdu.header
}

// Bitpix returns the stored BITPIX value.
func (hdu *HDU) Bitpix() int {
	return hdu.bitpix
}

// Shape returns the axis lengths, NAXIS1 first.
func (hdu *HDU) Shape() []int {
	return cloneShape(hdu.axes)
}

// DataSize returns the size of the stored data in bytes.
func (hdu *HDU) DataSize() int {
	return len(hdu.data)
}

// IsImage reports whether the HDU holds an image array.
func (hdu *HDU) IsImage() bool {
	return hdu.kind == KindPrimary || hdu.kind == KindImage
}

// Encoding returns the sample encoding of an image HDU.
//
// 32-bit integer data with BZERO = 2147483648 and BSCALE = 1 is unsigned.
// Other scaling keywords are not applied; samples are returned as stored.
func (hdu *HDU) Encoding() Encoding {
	if !hdu.IsImage() {
		return EncodingUnsupported
	}
	switch hdu.bitpix {
	case 32:
		if hdu.isUnsigned() {
			return EncodingUint32
		}
		return EncodingInt32
	case -32:
		return EncodingFloat32
	case -64:
		return EncodingFloat64
	}
	return EncodingUnsupported
}

func (hdu *HDU) isUnsigned() bool {
	zero, ok := hdu.header.Float("BZERO")
	if !ok || zero != uint32Zero {
		return false
	}
	scale, ok := hdu.header.Float("BSCALE")
	return !ok || scale == 1
}

// ReadPlane decodes the HDU's image data. Every call decodes afresh and
// returns a plane owned by the caller.
func (hdu *HDU) ReadPlane() (Plane, error) {
	enc := hdu.Encoding()
	if !enc.Supported() {
		return nil, fmt.Errorf("%w: %s HDU with BITPIX %d", ErrUnsupportedEncoding, hdu.kind, hdu.bitpix)
	}
	n := ShapeProduct(hdu.axes)
	if n == 0 {
		return nil, ErrNoData
	}
	if len(hdu.data) < n*enc.BytesPerSample() {
		return nil, ErrTruncated
	}

	var (
		plane Plane
		err   error
	)
	switch enc {
	case EncodingInt32:
		var samples []Nullable[int32]
		if samples, err = decodeInts(hdu, n, func(raw int32) int32 { return raw }); err == nil {
			plane, err = NewIntPlane(hdu.axes, samples)
		}
	case EncodingUint32:
		var samples []Nullable[uint32]
		if samples, err = decodeInts(hdu, n, func(raw int32) uint32 { return uint32(raw) ^ 0x80000000 }); err == nil {
			plane, err = NewIntPlane(hdu.axes, samples)
		}
	case EncodingFloat32:
		samples := make([]float32, n)
		if err = xdr.DecodeFloat32s(samples, hdu.data); err == nil {
			plane, err = NewFloatPlane(hdu.axes, samples)
		}
	default:
		samples := make([]float64, n)
		if err = xdr.DecodeFloat64s(samples, hdu.data); err == nil {
			plane, err = NewFloatPlane(hdu.axes, samples)
		}
	}
	if err != nil {
		return nil, err
	}
	return plane, nil
}

// decodeInts decodes stored 32-bit integers, marking BLANK values missing.
func decodeInts[T Integer](hdu *HDU, n int, convert func(int32) T) ([]Nullable[T], error) {
	raw := make([]int32, n)
	if err := xdr.DecodeInt32s(raw, hdu.data); err != nil {
		return nil, ErrTruncated
	}
	blank, hasBlank := hdu.header.Int("BLANK")
	out := make([]Nullable[T], n)
	for i, v := range raw {
		if hasBlank && int64(v) == blank {
			continue
		}
		out[i] = Present(convert(v))
	}
	return out, nil
}
