// Package fitsutil provides FITS file inspection helpers.
//
// Example usage:
//
//	info, _ := fitsutil.GetFileInfo("m31_L.fits")
//	for _, hdu := range info.HDUs {
//		fmt.Println(hdu.Index, hdu.Kind, hdu.Encoding, hdu.Shape)
//	}
package fitsutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mrjoshuak/go-lrgb/compression"
	"github.com/mrjoshuak/go-lrgb/fits"
	"github.com/mrjoshuak/go-lrgb/fitsmeta"
	"github.com/mrjoshuak/go-lrgb/lrgb"
)

// ===========================================
// File Information
// ===========================================

// HDUInfo summarizes one header-data unit.
type HDUInfo struct {
	Index    int
	Kind     string
	Bitpix   int
	Encoding fits.Encoding
	Shape    []int
	DataSize int
	// Candidate is set when the HDU qualifies as the grayscale source of
	// its file.
	Candidate bool
	Object    string
	Filter    string
}

// FileInfo provides a summary of a FITS file.
type FileInfo struct {
	Path       string
	FileSize   int64
	Compressed bool
	// DecodedSize is the size after decompression.
	DecodedSize int
	HDUs        []HDUInfo
}

// GetFileInfo returns summary information about a FITS file.
func GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := fits.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	info := &FileInfo{
		Path:        path,
		FileSize:    stat.Size(),
		Compressed:  compression.IsGzip(raw),
		DecodedSize: f.Size(),
	}
	for _, hdu := range f.HDUs() {
		info.HDUs = append(info.HDUs, HDUInfo{
			Index:     hdu.Index(),
			Kind:      hdu.Kind(),
			Bitpix:    hdu.Bitpix(),
			Encoding:  hdu.Encoding(),
			Shape:     hdu.Shape(),
			DataSize:  hdu.DataSize(),
			Candidate: lrgb.IsCandidate(hdu),
			Object:    fitsmeta.Object(hdu.Header()),
			Filter:    fitsmeta.Filter(hdu.Header()),
		})
	}
	return info, nil
}

// Candidates returns the indices of the grayscale candidates.
func (fi *FileInfo) Candidates() []int {
	var out []int
	for _, h := range fi.HDUs {
		if h.Candidate {
			out = append(out, h.Index)
		}
	}
	return out
}

// HumanSize returns the file size in human-readable form.
func (fi *FileInfo) HumanSize() string {
	return humanize.Bytes(uint64(fi.FileSize))
}

// FormatShape renders a shape as "W x H x D".
func FormatShape(shape []int) string {
	if len(shape) == 0 {
		return "-"
	}
	parts := make([]string, len(shape))
	for i, n := range shape {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, " x ")
}

// ===========================================
// Validation
// ===========================================

// ValidationResult contains the results of checking a file as an LRGB
// input.
type ValidationResult struct {
	Valid    bool
	Warnings []string
	Errors   []string
}

// ValidateInput reports whether path can serve as one channel of an LRGB
// composition: it must decode and hold exactly one grayscale candidate.
func ValidateInput(path string) (*ValidationResult, error) {
	result := &ValidationResult{Valid: true}

	info, err := GetFileInfo(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open file: %v", err))
		return result, nil
	}

	switch c := info.Candidates(); len(c) {
	case 0:
		result.Valid = false
		result.Errors = append(result.Errors, lrgb.ErrGrayscaleNotFound.Error())
	case 1:
	default:
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("%v: HDUs %v", lrgb.ErrAmbiguousGrayscale, c))
	}

	for _, h := range info.HDUs {
		if h.IsImage() && h.DataSize > 0 && !h.Encoding.Supported() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("HDU %d: BITPIX %d images are not read", h.Index, h.Bitpix))
		}
	}
	return result, nil
}

// IsImage reports whether the HDU holds an image array.
func (h HDUInfo) IsImage() bool {
	return h.Kind == fits.KindPrimary || h.Kind == fits.KindImage
}
