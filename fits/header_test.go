package fits

import (
	"errors"
	"strings"
	"testing"
)

func card(s string) []byte {
	return padCard(s)
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		key     string
		value   any
		comment string
	}{
		{"logical", "SIMPLE  =                    T / conforms", "SIMPLE", true, "conforms"},
		{"false", "EXTEND  =                    F", "EXTEND", false, ""},
		{"integer", "BITPIX  =                  -32 / bits per sample", "BITPIX", int64(-32), "bits per sample"},
		{"float", "EXPTIME =                300.5", "EXPTIME", 300.5, ""},
		{"d exponent", "BZERO   =         3.2768D+04", "BZERO", 32768.0, ""},
		{"string", "FILTER  = 'Red     '           / filter name", "FILTER", "Red", "filter name"},
		{"quote escape", "OBJECT  = 'M31 ''core'''", "OBJECT", "M31 'core'", ""},
		{"slash in string", "DATE-OBS= '2024/01/02'", "DATE-OBS", "2024/01/02", ""},
		{"undefined", "UNDEF   =", "UNDEF", nil, ""},
		{"complex", "CPLX    = (1.0, 2.0)", "CPLX", Raw("(1.0, 2.0)"), ""},
		{"history", "HISTORY calibrated with flats", "HISTORY", nil, "calibrated with flats"},
		{"blank keyword", "        free text", "", nil, "free text"},
		{"end", "END", "END", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := parseCard(card(tt.line))
			if err != nil {
				t.Fatalf("parseCard() error = %v", err)
			}
			if c.Keyword != tt.key {
				t.Errorf("Keyword = %q, want %q", c.Keyword, tt.key)
			}
			if c.Value != tt.value {
				t.Errorf("Value = %#v, want %#v", c.Value, tt.value)
			}
			if c.Comment != tt.comment {
				t.Errorf("Comment = %q, want %q", c.Comment, tt.comment)
			}
		})
	}
}

func TestParseCardErrors(t *testing.T) {
	if _, err := parseCard([]byte("SHORT")); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("short card error = %v, want ErrInvalidCard", err)
	}
	if _, err := parseCard(card("OBJECT  = 'unterminated")); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("unterminated string error = %v, want ErrInvalidCard", err)
	}
	bad := card("OBJECT  = 'x'")
	bad[20] = 0x01
	if _, err := parseCard(bad); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("control byte error = %v, want ErrInvalidCard", err)
	}
}

func TestFormatCardRoundTrip(t *testing.T) {
	cards := []Card{
		{Keyword: "SIMPLE", Value: true, Comment: "conforms to FITS standard"},
		{Keyword: "NAXIS1", Value: int64(4096)},
		{Keyword: "BZERO", Value: int64(2147483648)},
		{Keyword: "EXPTIME", Value: 300.0, Comment: "seconds"},
		{Keyword: "GAIN", Value: 1e-7},
		{Keyword: "OBJECT", Value: "NGC 7000 'North America'"},
		{Keyword: "HISTORY", Comment: "red channel from r.fits"},
		{Keyword: "UNDEF"},
	}

	for _, want := range cards {
		raw, err := formatCard(want)
		if err != nil {
			t.Fatalf("formatCard(%s) error = %v", want.Keyword, err)
		}
		if len(raw) != CardSize {
			t.Fatalf("formatCard(%s) length = %d, want %d", want.Keyword, len(raw), CardSize)
		}
		got, err := parseCard(raw)
		if err != nil {
			t.Fatalf("parseCard(%q) error = %v", raw, err)
		}
		if got != want {
			t.Errorf("round trip = %#v, want %#v", got, want)
		}
	}
}

func TestFormatCardLayout(t *testing.T) {
	raw, err := formatCard(Card{Keyword: "naxis", Value: int64(2)})
	if err != nil {
		t.Fatalf("formatCard() error = %v", err)
	}
	// Fixed format: integer right-justified ending in column 30.
	if got := string(raw[:30]); got != "NAXIS   =                    2" {
		t.Errorf("formatCard() = %q", got)
	}

	raw, err = formatCard(Card{Keyword: "FILTER", Value: "L"})
	if err != nil {
		t.Fatalf("formatCard() error = %v", err)
	}
	if got := string(raw[:20]); got != "FILTER  = 'L       '" {
		t.Errorf("formatCard() = %q", got)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		2.5:    "2.5",
		3:      "3.0",
		-0.125: "-0.125",
		1e21:   "1.0E+21",
		1e-7:   "1.0E-07",
	}
	for v, want := range tests {
		if got := formatFloat(v); got != want {
			t.Errorf("formatFloat(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestFormatCardErrors(t *testing.T) {
	if _, err := formatCard(Card{Keyword: "TOOLONGKEY", Value: int64(1)}); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("long keyword error = %v, want ErrInvalidCard", err)
	}
	if _, err := formatCard(Card{Keyword: "OBJECT", Value: strings.Repeat("x", 70)}); !errors.Is(err, ErrCardTooLong) {
		t.Errorf("long string error = %v, want ErrCardTooLong", err)
	}
	if _, err := formatCard(Card{Keyword: "VEC", Value: []int{1}}); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("unsupported value error = %v, want ErrInvalidCard", err)
	}
}

func TestHeaderAccessors(t *testing.T) {
	h := NewHeader()
	h.Set("object", "M42", "target")
	h.Set("EXPTIME", 120, "")
	h.Set("XPIXSZ", float32(3.75), "")
	h.Set("FLIPPED", false, "")
	h.AddHistory("first")
	h.AddComment("a comment")
	h.AddHistory("second")

	if v, ok := h.Text("OBJECT"); !ok || v != "M42" {
		t.Errorf("Text(OBJECT) = %q, %v", v, ok)
	}
	if v, ok := h.Int("EXPTIME"); !ok || v != 120 {
		t.Errorf("Int(EXPTIME) = %d, %v", v, ok)
	}
	if v, ok := h.Float("EXPTIME"); !ok || v != 120 {
		t.Errorf("Float(EXPTIME) = %v, %v", v, ok)
	}
	if v, ok := h.Float("XPIXSZ"); !ok || v != 3.75 {
		t.Errorf("Float(XPIXSZ) = %v, %v", v, ok)
	}
	if v, ok := h.Bool("FLIPPED"); !ok || v {
		t.Errorf("Bool(FLIPPED) = %v, %v", v, ok)
	}
	if _, ok := h.Int("OBJECT"); ok {
		t.Error("Int(OBJECT) should fail for a string value")
	}
	if got := h.History(); len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("History() = %v", got)
	}
	if h.Has("HISTORY") {
		t.Error("Has(HISTORY) should ignore commentary cards")
	}

	h.Set("OBJECT", "M43", "")
	if v, _ := h.Text("OBJECT"); v != "M43" {
		t.Errorf("Set() did not replace: %q", v)
	}
	n := h.Len()
	h.Delete("OBJECT")
	if h.Has("OBJECT") || h.Len() != n-1 {
		t.Errorf("Delete() left %d cards, want %d", h.Len(), n-1)
	}

	clone := h.Clone()
	clone.Set("EXPTIME", 1, "")
	if v, _ := h.Int("EXPTIME"); v != 120 {
		t.Error("Clone() shares cards with the original")
	}
}
