package fits

import "fmt"

// Integer is the set of integer sample types a Plane can hold.
type Integer interface {
	int32 | uint32
}

// Float is the set of floating-point sample types a Plane can hold.
type Float interface {
	float32 | float64
}

// Nullable is an integer sample that is either present or missing.
// Missing samples are the ones stored as the HDU's BLANK value.
type Nullable[T Integer] struct {
	value T
	valid bool
}

// Present returns a sample holding v.
func Present[T Integer](v T) Nullable[T] {
	return Nullable[T]{value: v, valid: true}
}

// Missing returns a sample with no data.
func Missing[T Integer]() Nullable[T] {
	return Nullable[T]{}
}

// Get returns the value and whether it is present.
func (n Nullable[T]) Get() (T, bool) {
	return n.value, n.valid
}

// IsMissing reports whether the sample has no data.
func (n Nullable[T]) IsMissing() bool {
	return !n.valid
}

// Or returns the value, or def if the sample is missing.
func (n Nullable[T]) Or(def T) T {
	if !n.valid {
		return def
	}
	return n.value
}

func (n Nullable[T]) String() string {
	if !n.valid {
		return "<missing>"
	}
	return fmt.Sprint(n.value)
}

// Plane is a decoded image: an encoding, a shape in FITS axis order
// (NAXIS1 first) and a flat sample buffer with NAXIS1 varying fastest.
type Plane interface {
	Encoding() Encoding
	Shape() []int
	// Len returns the number of samples, the product of Shape.
	Len() int
}

// IntPlane is a plane of nullable integer samples.
type IntPlane[T Integer] struct {
	shape   []int
	Samples []Nullable[T]
}

// NewIntPlane creates an integer plane. The sample count must equal the
// product of the shape.
func NewIntPlane[T Integer](shape []int, samples []Nullable[T]) (*IntPlane[T], error) {
	if err := checkShape(shape, len(samples)); err != nil {
		return nil, err
	}
	return &IntPlane[T]{shape: cloneShape(shape), Samples: samples}, nil
}

// Encoding returns EncodingInt32 or EncodingUint32.
func (p *IntPlane[T]) Encoding() Encoding {
	var zero T
	switch any(zero).(type) {
	case int32:
		return EncodingInt32
	case uint32:
		return EncodingUint32
	}
	return EncodingUnsupported
}

// Shape returns a copy of the plane's axis lengths.
func (p *IntPlane[T]) Shape() []int {
	return cloneShape(p.shape)
}

// Len returns the number of samples.
func (p *IntPlane[T]) Len() int {
	return len(p.Samples)
}

// FloatPlane is a plane of floating-point samples.
type FloatPlane[T Float] struct {
	shape   []int
	Samples []T
}

// NewFloatPlane creates a floating-point plane. The sample count must equal
// the product of the shape.
func NewFloatPlane[T Float](shape []int, samples []T) (*FloatPlane[T], error) {
	if err := checkShape(shape, len(samples)); err != nil {
		return nil, err
	}
	return &FloatPlane[T]{shape: cloneShape(shape), Samples: samples}, nil
}

// Encoding returns EncodingFloat32 or EncodingFloat64.
func (p *FloatPlane[T]) Encoding() Encoding {
	var zero T
	switch any(zero).(type) {
	case float32:
		return EncodingFloat32
	case float64:
		return EncodingFloat64
	}
	return EncodingUnsupported
}

// Shape returns a copy of the plane's axis lengths.
func (p *FloatPlane[T]) Shape() []int {
	return cloneShape(p.shape)
}

// Len returns the number of samples.
func (p *FloatPlane[T]) Len() int {
	return len(p.Samples)
}

// ShapeProduct returns the number of samples described by shape.
// An empty shape describes no data.
func ShapeProduct(shape []int) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func checkShape(shape []int, n int) error {
	if len(shape) == 0 {
		return fmt.Errorf("%w: empty shape", ErrShapeLength)
	}
	for _, d := range shape {
		if d < 0 {
			return fmt.Errorf("%w: negative axis in %v", ErrShapeLength, shape)
		}
	}
	if want := ShapeProduct(shape); want != n {
		return fmt.Errorf("%w: shape %v needs %d samples, got %d", ErrShapeLength, shape, want, n)
	}
	return nil
}

func cloneShape(shape []int) []int {
	return append([]int(nil), shape...)
}
