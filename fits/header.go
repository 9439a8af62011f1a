package fits

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Commentary keywords carry free text instead of a value.
const (
	KeyComment = "COMMENT"
	KeyHistory = "HISTORY"
	KeyEnd     = "END"
)

// Raw holds a card value this package does not interpret, such as a
// complex number. It is written back unchanged.
type Raw string

// Card is a single header record.
//
// Value is one of bool, int64, float64, string, Raw, or nil for commentary
// cards and undefined values.
type Card struct {
	Keyword string
	Value   any
	Comment string
}

// IsCommentary reports whether the card carries text rather than a value.
func (c Card) IsCommentary() bool {
	return isCommentaryKey(c.Keyword)
}

func isCommentaryKey(key string) bool {
	return key == KeyComment || key == KeyHistory || key == ""
}

// Header is an ordered list of cards.
type Header struct {
	cards []Card
}

// NewHeader creates an empty header.
func NewHeader() *Header {
	return &Header{}
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() *Header {
	if h == nil {
		return NewHeader()
	}
	return &Header{cards: append([]Card(nil), h.cards...)}
}

// Len returns the number of cards.
func (h *Header) Len() int {
	return len(h.cards)
}

// Cards returns the cards in order.
func (h *Header) Cards() []Card {
	return h.cards
}

// Get returns the first value card with the given keyword.
func (h *Header) Get(key string) (Card, bool) {
	key = strings.ToUpper(key)
	for _, c := range h.cards {
		if c.Keyword == key && !c.IsCommentary() {
			return c, true
		}
	}
	return Card{}, false
}

// Has reports whether a value card with the given keyword exists.
func (h *Header) Has(key string) bool {
	_, ok := h.Get(key)
	return ok
}

// Set replaces the value of the first card with the given keyword, or
// appends a new card.
func (h *Header) Set(key string, value any, comment string) {
	key = strings.ToUpper(key)
	value = normalizeValue(value)
	for i := range h.cards {
		if h.cards[i].Keyword == key && !h.cards[i].IsCommentary() {
			h.cards[i].Value = value
			h.cards[i].Comment = comment
			return
		}
	}
	h.cards = append(h.cards, Card{Keyword: key, Value: value, Comment: comment})
}

// Add appends a card without replacing existing ones.
func (h *Header) Add(c Card) {
	c.Keyword = strings.ToUpper(c.Keyword)
	c.Value = normalizeValue(c.Value)
	h.cards = append(h.cards, c)
}

// Delete removes every value card with the given keyword.
func (h *Header) Delete(key string) {
	key = strings.ToUpper(key)
	kept := h.cards[:0]
	for _, c := range h.cards {
		if c.Keyword == key && !c.IsCommentary() {
			continue
		}
		kept = append(kept, c)
	}
	h.cards = kept
}

// Int returns an integer value.
func (h *Header) Int(key string) (int64, bool) {
	c, ok := h.Get(key)
	if !ok {
		return 0, false
	}
	v, ok := c.Value.(int64)
	return v, ok
}

// Float returns a numeric value. Integer values are converted.
func (h *Header) Float(key string) (float64, bool) {
	c, ok := h.Get(key)
	if !ok {
		return 0, false
	}
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Text returns a string value.
func (h *Header) Text(key string) (string, bool) {
	c, ok := h.Get(key)
	if !ok {
		return "", false
	}
	v, ok := c.Value.(string)
	return v, ok
}

// Bool returns a logical value.
func (h *Header) Bool(key string) (bool, bool) {
	c, ok := h.Get(key)
	if !ok {
		return false, false
	}
	v, ok := c.Value.(bool)
	return v, ok
}

// AddHistory appends a HISTORY card.
func (h *Header) AddHistory(text string) {
	h.cards = append(h.cards, Card{Keyword: KeyHistory, Comment: text})
}

// AddComment appends a COMMENT card.
func (h *Header) AddComment(text string) {
	h.cards = append(h.cards, Card{Keyword: KeyComment, Comment: text})
}

// History returns the text of every HISTORY card in order.
func (h *Header) History() []string {
	var out []string
	for _, c := range h.cards {
		if c.Keyword == KeyHistory {
			out = append(out, c.Comment)
		}
	}
	return out
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return float64(x)
	}
	return v
}

// parseCard decodes one 80-byte card.
func parseCard(raw []byte) (Card, error) {
	if len(raw) != CardSize {
		return Card{}, fmt.Errorf("%w: %d bytes", ErrInvalidCard, len(raw))
	}
	for _, b := range raw {
		if b < 0x20 || b > 0x7e {
			return Card{}, fmt.Errorf("%w: non-ASCII byte 0x%02x", ErrInvalidCard, b)
		}
	}
	line := string(raw)
	key := strings.TrimRight(line[:8], " ")
	if isCommentaryKey(key) || line[8:10] != "= " {
		// Commentary or a keyword without a value indicator.
		return Card{Keyword: key, Comment: strings.TrimRight(line[8:], " ")}, nil
	}

	value, comment, err := parseValue(line[10:])
	if err != nil {
		return Card{}, fmt.Errorf("%w: %s: %v", ErrInvalidCard, key, err)
	}
	return Card{Keyword: key, Value: value, Comment: comment}, nil
}

// parseValue decodes the value field of a card and its trailing comment.
func parseValue(field string) (any, string, error) {
	s := strings.TrimLeft(field, " ")
	if s == "" {
		return nil, "", nil
	}

	if s[0] == '\'' {
		var b strings.Builder
		i := 1
		for {
			if i >= len(s) {
				return nil, "", fmt.Errorf("unterminated string")
			}
			if s[i] == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					b.WriteByte('\'')
					i += 2
					continue
				}
				break
			}
			b.WriteByte(s[i])
			i++
		}
		return strings.TrimRight(b.String(), " "), trailingComment(s[i+1:]), nil
	}

	token, rest, _ := strings.Cut(s, "/")
	token = strings.TrimSpace(token)
	comment := strings.TrimSpace(rest)
	switch token {
	case "":
		return nil, comment, nil
	case "T":
		return true, comment, nil
	case "F":
		return false, comment, nil
	}
	if v, err := strconv.ParseInt(token, 10, 64); err == nil {
		return v, comment, nil
	}
	// FITS allows a D exponent for double precision.
	if v, err := strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(token), 64); err == nil {
		return v, comment, nil
	}
	return Raw(token), comment, nil
}

func trailingComment(s string) string {
	_, c, ok := strings.Cut(s, "/")
	if !ok {
		return ""
	}
	return strings.TrimSpace(c)
}

// formatCard encodes a card as exactly 80 bytes.
func formatCard(c Card) ([]byte, error) {
	key := strings.ToUpper(c.Keyword)
	if len(key) > 8 {
		return nil, fmt.Errorf("%w: keyword %q longer than 8 characters", ErrInvalidCard, key)
	}

	var b strings.Builder
	b.Grow(CardSize)
	fmt.Fprintf(&b, "%-8s", key)

	if isCommentaryKey(key) {
		b.WriteString(truncate(c.Comment, CardSize-8))
		return padCard(b.String()), nil
	}

	b.WriteString("= ")
	value, err := formatValue(c.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, key)
	}
	b.WriteString(value)
	if b.Len() > CardSize {
		return nil, fmt.Errorf("%w: %s", ErrCardTooLong, key)
	}
	if c.Comment != "" && b.Len()+3 < CardSize {
		b.WriteString(" / ")
		b.WriteString(truncate(c.Comment, CardSize-b.Len()))
	}
	return padCard(b.String()), nil
}

func formatValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return strings.Repeat(" ", 20), nil
	case bool:
		if x {
			return fmt.Sprintf("%20s", "T"), nil
		}
		return fmt.Sprintf("%20s", "F"), nil
	case int64:
		return fmt.Sprintf("%20d", x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", fmt.Errorf("%w: non-finite value", ErrInvalidCard)
		}
		return fmt.Sprintf("%20s", formatFloat(x)), nil
	case string:
		for i := 0; i < len(x); i++ {
			if x[i] < 0x20 || x[i] > 0x7e {
				return "", fmt.Errorf("%w: non-ASCII string", ErrInvalidCard)
			}
		}
		s := strings.ReplaceAll(x, "'", "''")
		// The closing quote may not come before column 20.
		return fmt.Sprintf("'%-8s'", s), nil
	case Raw:
		return fmt.Sprintf("%20s", string(x)), nil
	default:
		return "", fmt.Errorf("%w: unsupported value type %T", ErrInvalidCard, v)
	}
}

// formatFloat renders a real value that always carries a decimal point.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'G', -1, 64)
	if strings.ContainsRune(s, '.') {
		return s
	}
	if mant, exp, ok := strings.Cut(s, "E"); ok {
		return mant + ".0E" + exp
	}
	return s + ".0"
}

func truncate(s string, n int) string {
	if n < 0 {
		return ""
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}

func padCard(s string) []byte {
	out := make([]byte, CardSize)
	n := copy(out, s)
	for i := n; i < CardSize; i++ {
		out[i] = ' '
	}
	return out
}
