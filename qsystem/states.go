package qsystem

import (
	"strings"

	"qmechsim/tensor"
)

// Ket is a named single-qubit state.
type Ket struct {
	Name   string
	Label  string
	Vector tensor.Vector
}

// Named kets of the computational, Hadamard and circular bases.
var (
	Ket0      = Ket{Name: "0", Label: "|0⟩", Vector: tensor.Vector{1, 0}}
	Ket1      = Ket{Name: "1", Label: "|1⟩", Vector: tensor.Vector{0, 1}}
	KetPlus   = Ket{Name: "+", Label: "|+⟩", Vector: tensor.Vector{invSqrt2, invSqrt2}}
	KetMinus  = Ket{Name: "-", Label: "|−⟩", Vector: tensor.Vector{invSqrt2, -invSqrt2}}
	KetPlusI  = Ket{Name: "+i", Label: "|+i⟩", Vector: tensor.Vector{invSqrt2, invSqrt2 * 1i}}
	KetMinusI = Ket{Name: "-i", Label: "|−i⟩", Vector: tensor.Vector{invSqrt2, -invSqrt2 * 1i}}
)

// Kets lists the named states in menu order.
var Kets = []Ket{Ket0, Ket1, KetPlus, KetMinus, KetPlusI, KetMinusI}

// KetByName looks a named state up by Name ("0", "1", "+", "-", "+i", "-i").
// The returned vector is a copy.
func KetByName(name string) (tensor.Vector, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range Kets {
		if k.Name == name {
			return k.Vector.Clone(), true
		}
	}
	return nil, false
}
