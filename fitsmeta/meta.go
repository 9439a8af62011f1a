// Package fitsmeta provides typed accessors for standard FITS header keywords.
//
// This package offers a discoverable API for reading and writing the
// descriptive keywords found in astronomical images without growing the core
// fits.Header type. All functions operate on *fits.Header.
//
// Example usage:
//
//	h := fits.NewHeader()
//	fitsmeta.SetObject(h, "M31")
//	fitsmeta.SetExposureTime(h, 300)
//	fitsmeta.SetFilter(h, "Ha")
package fitsmeta

import (
	"strings"
	"time"

	"github.com/mrjoshuak/go-lrgb/fits"
)

// Standard keyword names
const (
	// Observation
	KeyObject       = "OBJECT"
	KeyDateObs      = "DATE-OBS"
	KeyExposureTime = "EXPTIME"
	KeyFilter       = "FILTER"

	// Instrument identification
	KeyTelescope  = "TELESCOP"
	KeyInstrument = "INSTRUME"
	KeyObserver   = "OBSERVER"

	// File provenance
	KeyOrigin = "ORIGIN"
	KeyDate   = "DATE"

	// KeyRunID identifies the composition run that produced a file.
	KeyRunID = "LRGBRUN"
)

// DateLayout is the ISO 8601 form used by DATE and DATE-OBS.
const DateLayout = "2006-01-02T15:04:05"

// ObservationKeys are the descriptive keywords carried from an input image
// to a derived one.
var ObservationKeys = []string{KeyObject, KeyDateObs, KeyTelescope, KeyInstrument, KeyObserver}

// ===========================================
// Observation
// ===========================================

// SetObject sets the name of the observed object.
func SetObject(h *fits.Header, v string) {
	h.Set(KeyObject, v, "observed object")
}

// Object returns the name of the observed object, or "" if not set.
func Object(h *fits.Header) string {
	v, _ := h.Text(KeyObject)
	return v
}

// SetDateObs sets the start time of the observation, in UTC.
func SetDateObs(h *fits.Header, t time.Time) {
	h.Set(KeyDateObs, t.UTC().Format(DateLayout), "start of observation (UTC)")
}

// DateObs returns the start time of the observation.
// Returns the zero time and false if not set or not parseable.
func DateObs(h *fits.Header) (time.Time, bool) {
	return parseDate(h, KeyDateObs)
}

// SetExposureTime sets the exposure time in seconds.
func SetExposureTime(h *fits.Header, seconds float64) {
	h.Set(KeyExposureTime, seconds, "exposure time [s]")
}

// ExposureTime returns the exposure time in seconds, or 0 if not set.
func ExposureTime(h *fits.Header) float64 {
	v, _ := h.Float(KeyExposureTime)
	return v
}

// SetFilter sets the name of the optical filter.
func SetFilter(h *fits.Header, v string) {
	h.Set(KeyFilter, v, "filter")
}

// Filter returns the name of the optical filter, or "" if not set.
func Filter(h *fits.Header) string {
	v, _ := h.Text(KeyFilter)
	return strings.TrimSpace(v)
}

// ===========================================
// Instrument
// ===========================================

// SetTelescope sets the telescope name.
func SetTelescope(h *fits.Header, v string) {
	h.Set(KeyTelescope, v, "telescope")
}

// Telescope returns the telescope name, or "" if not set.
func Telescope(h *fits.Header) string {
	v, _ := h.Text(KeyTelescope)
	return v
}

// SetInstrument sets the instrument (camera) name.
func SetInstrument(h *fits.Header, v string) {
	h.Set(KeyInstrument, v, "instrument")
}

// Instrument returns the instrument name, or "" if not set.
func Instrument(h *fits.Header) string {
	v, _ := h.Text(KeyInstrument)
	return v
}

// SetObserver sets the observer name.
func SetObserver(h *fits.Header, v string) {
	h.Set(KeyObserver, v, "observer")
}

// Observer returns the observer name, or "" if not set.
func Observer(h *fits.Header) string {
	v, _ := h.Text(KeyObserver)
	return v
}

// ===========================================
// Provenance
// ===========================================

// SetOrigin sets the organization or program that created the file.
func SetOrigin(h *fits.Header, v string) {
	h.Set(KeyOrigin, v, "file creator")
}

// Origin returns the file creator, or "" if not set.
func Origin(h *fits.Header) string {
	v, _ := h.Text(KeyOrigin)
	return v
}

// SetDate sets the file creation time, in UTC.
func SetDate(h *fits.Header, t time.Time) {
	h.Set(KeyDate, t.UTC().Format(DateLayout), "file creation date (UTC)")
}

// Date returns the file creation time.
func Date(h *fits.Header) (time.Time, bool) {
	return parseDate(h, KeyDate)
}

// SetRunID records the identifier of the run that produced the file.
func SetRunID(h *fits.Header, id string) {
	h.Set(KeyRunID, id, "composition run")
}

// RunID returns the run identifier, or "" if not set.
func RunID(h *fits.Header) string {
	v, _ := h.Text(KeyRunID)
	return v
}

// AddHistory appends a HISTORY card.
func AddHistory(h *fits.Header, text string) {
	h.AddHistory(text)
}

// History returns the text of every HISTORY card.
func History(h *fits.Header) []string {
	return h.History()
}

// CopyObservation copies the observation keywords present in src to dst.
func CopyObservation(src, dst *fits.Header) {
	for _, key := range ObservationKeys {
		if c, ok := src.Get(key); ok {
			dst.Set(key, c.Value, c.Comment)
		}
	}
}

// parseDate accepts the full timestamp form and the date-only form.
func parseDate(h *fits.Header, key string) (time.Time, bool) {
	v, ok := h.Text(key)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range []string{DateLayout, "2006-01-02T15:04:05.999999999", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
