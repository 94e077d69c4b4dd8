// Package tensor implements the dense complex vectors and matrices used by the
// simulator, and the Kronecker (tensor) product that joins them.
package tensor

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidOperand is returned when a tensor operation receives an empty
// sequence or a malformed operand.
var ErrInvalidOperand = errors.New("invalid tensor operand")

// Operand is implemented by the types Compose can chain.
type Operand[T any] interface {
	Kron(other T) T
	Validate() error
	Clone() T
}

// Vector is a dense complex column vector.
type Vector []complex128

// Matrix is a dense complex matrix stored row-major.
type Matrix [][]complex128

// Compose returns items[0] ⊗ (items[1] ⊗ (... ⊗ items[n-1])).
// The first item is the most significant factor. items is never modified and
// the result never aliases it.
func Compose[T Operand[T]](items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, errors.Wrap(ErrInvalidOperand, "compose empty sequence")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return zero, errors.Wrapf(err, "compose item %d", i)
		}
	}
	return compose(items), nil
}

func compose[T Operand[T]](items []T) T {
	if len(items) == 1 {
		return items[0].Clone()
	}
	return items[0].Kron(compose(items[1:]))
}

// Basis returns the standard basis vector e_index of the given length.
func Basis(length, index int) Vector {
	v := make(Vector, length)
	v[index] = 1
	return v
}

// Validate reports whether v can take part in a tensor product.
func (v Vector) Validate() error {
	if len(v) == 0 {
		return errors.Wrap(ErrInvalidOperand, "empty vector")
	}
	return nil
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Kron returns the Kronecker product v ⊗ w, of length len(v)*len(w).
func (v Vector) Kron(w Vector) Vector {
	out := make(Vector, 0, len(v)*len(w))
	for _, a := range v {
		for _, b := range w {
			out = append(out, a*b)
		}
	}
	return out
}

// Norm returns the Euclidean norm of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, a := range v {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return math.Sqrt(sum)
}

// ApproxEqual reports whether v and w have the same length and every pair of
// entries differs by at most tol.
func (v Vector) ApproxEqual(w Vector, tol float64) bool {
	if len(v) != len(w) {
		return false
	}
	for i := range v {
		if cmplx.Abs(v[i]-w[i]) > tol {
			return false
		}
	}
	return true
}

// String formats v with four decimals per component.
func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, a := range v {
		parts[i] = FormatComplex(a)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Identity returns the n×n identity matrix.
func Identity(n int) Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}
	return m
}

// NewMatrix allocates a zero rows×cols matrix.
func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]complex128, cols)
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of columns, 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Validate reports whether m is non-empty and rectangular.
func (m Matrix) Validate() error {
	if len(m) == 0 || len(m[0]) == 0 {
		return errors.Wrap(ErrInvalidOperand, "empty matrix")
	}
	cols := len(m[0])
	for i, row := range m {
		if len(row) != cols {
			return errors.Wrapf(ErrInvalidOperand, "ragged matrix: row %d has %d columns, want %d", i, len(row), cols)
		}
	}
	return nil
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]complex128, len(row))
		copy(out[i], row)
	}
	return out
}

// Kron returns the Kronecker product m ⊗ o. Block (i, j) of the result is
// m[i][j]·o.
func (m Matrix) Kron(o Matrix) Matrix {
	or, oc := o.Rows(), o.Cols()
	out := NewMatrix(m.Rows()*or, m.Cols()*oc)
	for i, row := range m {
		for j, a := range row {
			if a == 0 {
				continue
			}
			for k := 0; k < or; k++ {
				for l := 0; l < oc; l++ {
					out[i*or+k][j*oc+l] = a * o[k][l]
				}
			}
		}
	}
	return out
}

// MulVec returns the matrix-vector product m·v.
func (m Matrix) MulVec(v Vector) (Vector, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Cols() != len(v) {
		return nil, errors.Wrapf(ErrInvalidOperand, "dimension mismatch: %dx%d matrix times length %d vector", m.Rows(), m.Cols(), len(v))
	}
	out := make(Vector, m.Rows())
	for i, row := range m {
		var sum complex128
		for j, a := range row {
			if a == 0 {
				continue
			}
			sum += a * v[j]
		}
		out[i] = sum
	}
	return out, nil
}

// ApproxEqual reports whether m and o have the same shape and every pair of
// entries differs by at most tol.
func (m Matrix) ApproxEqual(o Matrix, tol float64) bool {
	if m.Rows() != o.Rows() {
		return false
	}
	for i := range m {
		if !Vector(m[i]).ApproxEqual(Vector(o[i]), tol) {
			return false
		}
	}
	return true
}

// String formats m one row per line.
func (m Matrix) String() string {
	var sb strings.Builder
	for i, row := range m {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(Vector(row).String())
	}
	return sb.String()
}

// FormatComplex formats a with four decimals, dropping a zero imaginary part.
func FormatComplex(a complex128) string {
	re, im := real(a), imag(a)
	if re == 0 {
		re = 0 // no "-0.0000"
	}
	if im == 0 {
		return fmt.Sprintf("%.4f", re)
	}
	return fmt.Sprintf("%.4f%+.4fi", re, im)
}
