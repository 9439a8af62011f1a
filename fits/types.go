// Package fits provides reading and writing of FITS image files.
//
// FITS (Flexible Image Transport System) is the standard container for
// astronomical data. A file is a sequence of header-data units (HDUs): a
// primary HDU followed by any number of extensions. Headers are 80-column
// ASCII cards in 2880-byte blocks; image data is stored as big-endian
// samples whose encoding is given by the BITPIX keyword.
//
// This package reads every HDU's header eagerly and decodes image data on
// demand. It supports the 32-bit integer (signed, and unsigned through the
// BZERO convention) and 32/64-bit floating-point image encodings; other
// encodings and non-image extensions are reported but not decoded.
package fits

import (
	"errors"
	"fmt"
)

// Format constants.
const (
	// BlockSize is the size of every FITS logical record.
	BlockSize = 2880

	// CardSize is the size of one header card.
	CardSize = 80

	cardsPerBlock = BlockSize / CardSize
	maxAxes       = 999

	// uint32Zero is the BZERO offset that marks 32-bit integer data as unsigned.
	uint32Zero = 2147483648
)

// Format errors
var (
	ErrNotFITS             = errors.New("fits: not a FITS file")
	ErrTruncated           = errors.New("fits: file truncated")
	ErrInvalidHeader       = errors.New("fits: invalid header")
	ErrInvalidCard         = errors.New("fits: invalid header card")
	ErrCardTooLong         = errors.New("fits: header card value too long")
	ErrUnsupportedEncoding = errors.New("fits: unsupported data encoding")
	ErrNoData              = errors.New("fits: HDU has no data")
	ErrShapeLength         = errors.New("fits: sample count does not match shape")
	ErrBlankCollision      = errors.New("fits: sample value collides with BLANK marker")
)

// Encoding identifies the numeric encoding of image samples.
type Encoding int

// Sample encodings
const (
	// EncodingUnsupported marks data this package reports but does not decode:
	// 8, 16 and 64-bit integer images, random groups and table extensions.
	EncodingUnsupported Encoding = iota
	EncodingInt32
	EncodingUint32
	EncodingFloat32
	EncodingFloat64
)

// String returns a string representation of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingInt32:
		return "int32"
	case EncodingUint32:
		return "uint32"
	case EncodingFloat32:
		return "float32"
	case EncodingFloat64:
		return "float64"
	case EncodingUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// Supported reports whether samples of this encoding can be decoded.
func (e Encoding) Supported() bool {
	switch e {
	case EncodingInt32, EncodingUint32, EncodingFloat32, EncodingFloat64:
		return true
	}
	return false
}

// Nullable reports whether samples of this encoding may be missing.
// Only integer encodings carry a BLANK marker.
func (e Encoding) Nullable() bool {
	return e == EncodingInt32 || e == EncodingUint32
}

// Bitpix returns the BITPIX value used to store the encoding.
func (e Encoding) Bitpix() int {
	switch e {
	case EncodingInt32, EncodingUint32:
		return 32
	case EncodingFloat32:
		return -32
	case EncodingFloat64:
		return -64
	default:
		return 0
	}
}

// BytesPerSample returns the stored size of one sample.
func (e Encoding) BytesPerSample() int {
	switch e {
	case EncodingInt32, EncodingUint32, EncodingFloat32:
		return 4
	case EncodingFloat64:
		return 8
	default:
		return 0
	}
}

// validBitpix reports whether v is one of the BITPIX values FITS defines.
func validBitpix(v int) bool {
	switch v {
	case 8, 16, 32, 64, -32, -64:
		return true
	}
	return false
}

// paddedSize rounds n up to a whole number of blocks.
func paddedSize(n int) int {
	return (n + BlockSize - 1) / BlockSize * BlockSize
}
