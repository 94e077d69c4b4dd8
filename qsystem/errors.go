package qsystem

import (
	"github.com/pkg/errors"

	"qmechsim/tensor"
)

var (
	// ErrIndexOutOfRange is returned when a qubit index is outside [0, NumQubits).
	ErrIndexOutOfRange = errors.New("qubit index out of range")

	// ErrInvalidArgument is returned for bad register sizes, state vectors that
	// are not length 2, gates that are not 2x2 and batches of the wrong length.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidOperand is returned when tensor composition fails.
	ErrInvalidOperand = tensor.ErrInvalidOperand
)
