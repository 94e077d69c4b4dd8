package qsystem

import (
	"math"
	"strings"

	"qmechsim/tensor"
)

// Gate is a named single-qubit operator.
type Gate struct {
	Name   string
	Matrix tensor.Matrix
}

var invSqrt2 = complex(1/math.Sqrt2, 0)

// The fixed gate library. The matrices are shared; Apply never modifies them.
var (
	// GateX is the Pauli-X bit flip.
	GateX = Gate{Name: "X", Matrix: tensor.Matrix{{0, 1}, {1, 0}}}
	// GateY is the Pauli-Y bit-and-phase flip.
	GateY = Gate{Name: "Y", Matrix: tensor.Matrix{{0, -1i}, {1i, 0}}}
	// GateZ is the Pauli-Z phase flip.
	GateZ = Gate{Name: "Z", Matrix: tensor.Matrix{{1, 0}, {0, -1}}}
	// GateH is the Hadamard basis change.
	GateH = Gate{Name: "H", Matrix: tensor.Matrix{{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}}}
	// GateI is the identity.
	GateI = Gate{Name: "I", Matrix: tensor.Identity(2)}
)

// Gates lists the library in menu order.
var Gates = []Gate{GateH, GateX, GateY, GateZ, GateI}

// GateByName looks a library gate up by name, ignoring case.
func GateByName(name string) (Gate, bool) {
	for _, g := range Gates {
		if strings.EqualFold(g.Name, strings.TrimSpace(name)) {
			return g, true
		}
	}
	return Gate{}, false
}
