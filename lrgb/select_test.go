package lrgb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrjoshuak/go-lrgb/fits"
)

type fakeExt struct {
	index int
	shape []int
	enc   fits.Encoding
	reads int
	err   error
}

func (e *fakeExt) Index() int              { return e.index }
func (e *fakeExt) Shape() []int            { return e.shape }
func (e *fakeExt) Encoding() fits.Encoding { return e.enc }

func (e *fakeExt) ReadPlane() (fits.Plane, error) {
	e.reads++
	if e.err != nil {
		return nil, e.err
	}
	n := fits.ShapeProduct(e.shape)
	return fits.NewFloatPlane(e.shape, make([]float32, n))
}

type fakeContainer []*fakeExt

func (c fakeContainer) Extensions() []Extension {
	out := make([]Extension, len(c))
	for i, e := range c {
		out[i] = e
	}
	return out
}

func TestIsGrayscale(t *testing.T) {
	tests := []struct {
		shape []int
		want  bool
	}{
		{nil, false},
		{[]int{100}, false},
		{[]int{100, 80}, true},
		{[]int{100, 80, 1}, true},
		{[]int{100, 80, 3}, false},
		{[]int{100, 80, 1, 1}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsGrayscale(tt.shape), "IsGrayscale(%v)", tt.shape)
	}
}

func TestSelectGrayscale(t *testing.T) {
	target := &fakeExt{index: 2, shape: []int{4, 3, 1}, enc: fits.EncodingFloat32}
	c := fakeContainer{
		{index: 0, shape: nil, enc: fits.EncodingUnsupported},
		{index: 1, shape: []int{4, 3}, enc: fits.EncodingUnsupported}, // 16-bit image
		target,
		{index: 3, shape: []int{4, 3, 3}, enc: fits.EncodingFloat32},
		{index: 4, shape: []int{8, 2}, enc: fits.EncodingUnsupported}, // table
	}

	plane, err := SelectGrayscale(c)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 1}, plane.Shape())
	assert.Equal(t, 1, target.reads)
	for _, e := range c {
		if e != target {
			assert.Zero(t, e.reads, "extension %d was decoded", e.index)
		}
	}
}

func TestSelectGrayscaleAmbiguous(t *testing.T) {
	c := fakeContainer{
		{index: 0, shape: []int{4, 3}, enc: fits.EncodingInt32},
		{index: 1, shape: []int{4, 3, 1}, enc: fits.EncodingFloat64},
		{index: 2, shape: []int{4, 3}, enc: fits.EncodingFloat64},
	}
	_, err := SelectGrayscale(c)
	require.ErrorIs(t, err, ErrAmbiguousGrayscale)
	assert.Contains(t, err.Error(), "extensions 0 and 1")
	for _, e := range c {
		assert.Zero(t, e.reads)
	}
}

func TestSelectGrayscaleNotFound(t *testing.T) {
	for name, c := range map[string]fakeContainer{
		"empty":       {},
		"colour only": {{index: 0, shape: []int{4, 3, 3}, enc: fits.EncodingUint32}},
		"unsupported": {{index: 0, shape: []int{4, 3}, enc: fits.EncodingUnsupported}},
	} {
		_, err := SelectGrayscale(c)
		assert.ErrorIs(t, err, ErrGrayscaleNotFound, name)
	}
}

func TestSelectGrayscaleReadError(t *testing.T) {
	boom := errors.New("boom")
	c := fakeContainer{{index: 5, shape: []int{2, 2}, enc: fits.EncodingInt32, err: boom}}
	_, err := SelectGrayscale(c)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "extension 5")
}

func TestSelectFromFITS(t *testing.T) {
	buf := writeFile(t, nil,
		nil,
		floats[float32](t, []int{3, 2}, 1, 2, 3, 4, 5, 6),
	)
	f, err := fits.Decode(buf)
	require.NoError(t, err)

	plane, err := SelectGrayscale(FromFITS(f))
	require.NoError(t, err)
	assert.Equal(t, fits.EncodingFloat32, plane.Encoding())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, plane.(*fits.FloatPlane[float32]).Samples)

	ext, err := FindGrayscale(FromFITS(f))
	require.NoError(t, err)
	assert.Equal(t, 1, ext.Index())
}
