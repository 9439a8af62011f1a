package lrgb

import (
	"fmt"

	"github.com/mrjoshuak/go-lrgb/fits"
)

// Extension is one data unit of a container. Shape and Encoding come from
// the header; ReadPlane decodes the data.
type Extension interface {
	Index() int
	Shape() []int
	Encoding() fits.Encoding
	ReadPlane() (fits.Plane, error)
}

// Container is an ordered sequence of extensions.
type Container interface {
	Extensions() []Extension
}

type fitsContainer struct {
	f *fits.File
}

// FromFITS exposes the HDUs of a FITS file as a Container.
func FromFITS(f *fits.File) Container {
	return fitsContainer{f}
}

func (c fitsContainer) Extensions() []Extension {
	hdus := c.f.HDUs()
	out := make([]Extension, len(hdus))
	for i, hdu := range hdus {
		out[i] = hdu
	}
	return out
}

// IsGrayscale reports whether shape describes a single grayscale plane:
// two axes, or three with a trailing axis of length 1.
func IsGrayscale(shape []int) bool {
	switch len(shape) {
	case 2:
		return true
	case 3:
		return shape[2] == 1
	}
	return false
}

// IsCandidate reports whether an extension can be the grayscale source of
// its file. Extensions with an unsupported encoding never qualify.
func IsCandidate(ext Extension) bool {
	return ext.Encoding().Supported() && IsGrayscale(ext.Shape())
}

// FindGrayscale returns the only grayscale candidate of c. It stops at the
// second candidate with ErrAmbiguousGrayscale.
func FindGrayscale(c Container) (Extension, error) {
	var found Extension
	for _, ext := range c.Extensions() {
		if !IsCandidate(ext) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: extensions %d and %d", ErrAmbiguousGrayscale, found.Index(), ext.Index())
		}
		found = ext
	}
	if found == nil {
		return nil, ErrGrayscaleNotFound
	}
	return found, nil
}

// SelectGrayscale returns the decoded plane of the only grayscale candidate
// of c.
func SelectGrayscale(c Container) (fits.Plane, error) {
	ext, err := FindGrayscale(c)
	if err != nil {
		return nil, err
	}
	plane, err := ext.ReadPlane()
	if err != nil {
		return nil, fmt.Errorf("extension %d: %w", ext.Index(), err)
	}
	return plane, nil
}
