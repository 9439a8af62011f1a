// Package lrgb builds colour images from luminance and chrominance frames.
//
// LRGB composition takes a luminance (L) exposure and three colour
// exposures (R, G, B) of the same field and redistributes each pixel's
// luminance across the colour planes in proportion to their share of the
// pixel's total colour signal:
//
//	out_c = L * C / (R + G + B)    for c in {R, G, B}
//
// Pixels whose colour sum is zero, or with a missing sample in any input,
// are black.
//
// Basic usage:
//
//	l, _ := lrgb.SelectGrayscale(lrgb.FromFITS(lumFile))
//	...
//	comp, err := lrgb.Compose(l, r, g, b)
package lrgb

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrAmbiguousGrayscale = errors.New("lrgb: ambiguous grayscale data")
	ErrGrayscaleNotFound  = errors.New("lrgb: grayscale data not found")
	ErrEncodingMismatch   = errors.New("lrgb: sample encoding mismatch")
	ErrShapeMismatch      = errors.New("lrgb: shape mismatch")
	ErrIO                 = errors.New("lrgb: i/o failure")
)

// Channel identifies the role of an input frame.
type Channel int

// Channels in composition order.
const (
	Luminance Channel = iota
	Red
	Green
	Blue
)

// Channels lists every channel in composition order.
var Channels = [4]Channel{Luminance, Red, Green, Blue}

// String returns a string representation of the channel.
func (c Channel) String() string {
	switch c {
	case Luminance:
		return "luminance"
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}
