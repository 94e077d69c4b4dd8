package tensor

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

var (
	pauliX = Matrix{{0, 1}, {1, 0}}
	pauliY = Matrix{{0, -1i}, {1i, 0}}
	pauliZ = Matrix{{1, 0}, {0, -1}}
)

func TestVectorKron(t *testing.T) {
	got := Vector{1, 2}.Kron(Vector{3, 4, 5})
	assert.Equal(t, Vector{3, 4, 5, 6, 8, 10}, got)
}

func TestMatrixKron(t *testing.T) {
	got := pauliX.Kron(Identity(2))
	want := Matrix{
		{0, 0, 1, 0},
		{0, 0, 0, 1},
		{1, 0, 0, 0},
		{0, 1, 0, 0},
	}
	assert.True(t, got.ApproxEqual(want, tol), "got:\n%s", got)

	got = Identity(2).Kron(pauliZ)
	want = Matrix{
		{1, 0, 0, 0},
		{0, -1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, -1},
	}
	assert.True(t, got.ApproxEqual(want, tol), "got:\n%s", got)
}

func TestComposeSingleReturnsCopy(t *testing.T) {
	items := []Vector{{1, 0}}
	got, err := Compose(items)
	require.NoError(t, err)
	assert.Equal(t, Vector{1, 0}, got)

	got[0] = 42
	assert.Equal(t, complex128(1), items[0][0], "result must not alias the input")
}

func TestComposeOrder(t *testing.T) {
	ket0 := Vector{1, 0}
	ket1 := Vector{0, 1}

	// |1⟩⊗|0⟩⊗|0⟩ = e_4: the first item is the most significant factor.
	got, err := Compose([]Vector{ket1, ket0, ket0})
	require.NoError(t, err)
	assert.Equal(t, Basis(8, 4), got)

	got, err = Compose([]Vector{ket0, ket0, ket1})
	require.NoError(t, err)
	assert.Equal(t, Basis(8, 1), got)
}

func TestComposeDoesNotMutateInput(t *testing.T) {
	items := []Matrix{pauliX, Identity(2), pauliZ}
	before := make([]Matrix, len(items))
	for i, m := range items {
		before[i] = m.Clone()
	}

	_, err := Compose(items)
	require.NoError(t, err)

	require.Len(t, items, 3)
	for i := range items {
		assert.Equal(t, before[i], items[i])
	}
}

func TestComposeAssociative(t *testing.T) {
	a, b, c := pauliX, pauliY, pauliZ

	abc, err := Compose([]Matrix{a, b, c})
	require.NoError(t, err)

	bc, err := Compose([]Matrix{b, c})
	require.NoError(t, err)
	aBC, err := Compose([]Matrix{a, bc})
	require.NoError(t, err)

	ab, err := Compose([]Matrix{a, b})
	require.NoError(t, err)
	abC, err := Compose([]Matrix{ab, c})
	require.NoError(t, err)

	assert.True(t, abc.ApproxEqual(aBC, tol))
	assert.True(t, abc.ApproxEqual(abC, tol))

	h := complex(1/math.Sqrt2, 0)
	u, v, w := Vector{h, h}, Vector{0, 1i}, Vector{h, -h}
	uvw, err := Compose([]Vector{u, v, w})
	require.NoError(t, err)
	vw, err := Compose([]Vector{v, w})
	require.NoError(t, err)
	uVW, err := Compose([]Vector{u, vw})
	require.NoError(t, err)
	assert.True(t, uvw.ApproxEqual(uVW, tol))
}

func TestComposeInvalidOperand(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"empty vector sequence", func() error { _, err := Compose([]Vector{}); return err }},
		{"nil matrix sequence", func() error { _, err := Compose[Matrix](nil); return err }},
		{"empty vector item", func() error { _, err := Compose([]Vector{{1, 0}, {}}); return err }},
		{"empty matrix item", func() error { _, err := Compose([]Matrix{Identity(2), {}}); return err }},
		{"ragged matrix", func() error { _, err := Compose([]Matrix{{{1, 0}, {1}}}); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidOperand), "got %v", err)
		})
	}
}

func TestMulVec(t *testing.T) {
	got, err := pauliY.MulVec(Vector{1, 0})
	require.NoError(t, err)
	assert.Equal(t, Vector{0, 1i}, got)

	_, err = pauliX.MulVec(Vector{1, 0, 0})
	assert.True(t, errors.Is(err, ErrInvalidOperand))
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5.0, Vector{3, 4i}.Norm(), tol)
	assert.InDelta(t, 1.0, Vector{complex(0.6, 0), complex(0, 0.8)}.Norm(), tol)
}

func TestFormatComplex(t *testing.T) {
	tests := []struct {
		in   complex128
		want string
	}{
		{1, "1.0000"},
		{complex(1/math.Sqrt2, 0), "0.7071"},
		{complex(0, -1), "0.0000-1.0000i"},
		{complex(math.Copysign(0, -1), 0), "0.0000"},
		{complex(0.5, 0.25), "0.5000+0.2500i"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatComplex(tt.in))
	}
}
