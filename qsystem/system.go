// Package qsystem holds a noiseless n-qubit register as one 2^n state vector
// and applies single-qubit gates to it by embedding each gate into the full
// space with Kronecker products.
package qsystem

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"qmechsim/tensor"
)

// Config configures a System.
type Config struct {
	// Verbose emits a Debug diagnostic at construction and at every mutating
	// call: slot changes, the embedded operator and the resulting state.
	Verbose bool

	// Logger receives diagnostics. Nil means zap.NewNop().
	Logger *zap.Logger
}

// System is a register of qubits and classical bits.
//
// The joint state has 2^n amplitudes and every gate builds a 2^n x 2^n
// operator, so memory and time grow exponentially with the qubit count.
// No sparse or lazy representation is used.
//
// A System is not safe for concurrent use.
type System struct {
	numQubits int
	slots     []tensor.Vector
	state     tensor.Vector
	cbits     []int

	verbose bool
	logger  *zap.Logger
}

// Snapshot is a read-only copy of a System's observable state.
type Snapshot struct {
	NumQubits        int
	NumClassicalBits int
	State            tensor.Vector
	ClassicalBits    []int
}

// New creates a register of qubits all in |0⟩ and classical bits all 0.
func New(qubits, classicalBits int, cfg Config) (*System, error) {
	if qubits < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "qubit count %d, need at least 1", qubits)
	}
	if classicalBits < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "classical bit count %d", classicalBits)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &System{
		numQubits: qubits,
		slots:     make([]tensor.Vector, qubits),
		cbits:     make([]int, classicalBits),
		verbose:   cfg.Verbose,
		logger:    logger,
	}
	for i := range s.slots {
		s.slots[i] = Ket0.Vector.Clone()
	}

	state, err := tensor.Compose(s.slots)
	if err != nil {
		return nil, errors.Wrap(err, "compose initial state")
	}
	s.state = state

	s.debug("register created",
		zap.Int("qubits", qubits),
		zap.Int("classical_bits", classicalBits),
	)
	return s, nil
}

// NumQubits returns the number of qubits.
func (s *System) NumQubits() int { return s.numQubits }

// NumClassicalBits returns the number of classical bits.
func (s *System) NumClassicalBits() int { return len(s.cbits) }

// State returns a copy of the joint state vector.
func (s *System) State() tensor.Vector { return s.state.Clone() }

// InitialStates returns a copy of the per-qubit initial state slots. They are
// not kept in sync with the joint state once gates have been applied.
func (s *System) InitialStates() []tensor.Vector {
	out := make([]tensor.Vector, len(s.slots))
	for i, v := range s.slots {
		out[i] = v.Clone()
	}
	return out
}

// ClassicalBits returns a copy of the classical bits. Nothing writes them.
func (s *System) ClassicalBits() []int {
	out := make([]int, len(s.cbits))
	copy(out, s.cbits)
	return out
}

// Snapshot copies the state the display layer reads.
func (s *System) Snapshot() Snapshot {
	return Snapshot{
		NumQubits:        s.numQubits,
		NumClassicalBits: len(s.cbits),
		State:            s.State(),
		ClassicalBits:    s.ClassicalBits(),
	}
}

// SetQubitInitialState overwrites qubit qn's slot and recomposes the joint
// state from all slots. Any gate applied since the last composition is lost.
// state must have length 2; normalisation is the caller's job.
func (s *System) SetQubitInitialState(state tensor.Vector, qn int) error {
	if err := s.checkIndex(qn); err != nil {
		return errors.Wrap(err, "set initial state")
	}
	if err := checkKet(state); err != nil {
		return errors.Wrapf(err, "set initial state of q%d", qn)
	}

	prev := s.slots[qn]
	s.slots[qn] = state.Clone()
	if err := s.recompose(); err != nil {
		s.slots[qn] = prev
		return err
	}

	s.debug("initial state changed",
		zap.Int("qubit", qn),
		zap.Stringer("from", prev),
		zap.Stringer("to", s.slots[qn]),
	)
	return nil
}

// SetAllInitialStates overwrites every slot and recomposes the joint state
// once. len(states) must equal NumQubits.
func (s *System) SetAllInitialStates(states []tensor.Vector) error {
	if len(states) != s.numQubits {
		return errors.Wrapf(ErrInvalidArgument, "set all initial states: got %d states for %d qubits", len(states), s.numQubits)
	}
	for i, st := range states {
		if err := checkKet(st); err != nil {
			return errors.Wrapf(err, "set all initial states: q%d", i)
		}
	}

	prev := s.slots
	s.slots = make([]tensor.Vector, len(states))
	for i, st := range states {
		s.slots[i] = st.Clone()
	}
	if err := s.recompose(); err != nil {
		s.slots = prev
		return err
	}

	s.debug("initial states changed", zap.Stringers("states", s.slots))
	return nil
}

// Apply applies gate to qubit qn: the joint state is left-multiplied by
// I ⊗ ... ⊗ gate ⊗ ... ⊗ I with gate at position qn (qubit 0 is the most
// significant factor).
func (s *System) Apply(gate Gate, qn int) error {
	if err := s.checkIndex(qn); err != nil {
		return errors.Wrapf(err, "apply %s", gate.Name)
	}
	if gate.Matrix.Validate() != nil || gate.Matrix.Rows() != 2 || gate.Matrix.Cols() != 2 {
		return errors.Wrapf(ErrInvalidArgument, "apply %s: gate must be 2x2", gate.Name)
	}

	op, err := s.Operator(gate, qn)
	if err != nil {
		return err
	}
	s.debug("operating",
		zap.String("gate", gate.Name),
		zap.Int("qubit", qn),
		zap.Stringer("operator", op),
		zap.Stringer("on", s.state),
	)

	next, err := op.MulVec(s.state)
	if err != nil {
		return errors.Wrapf(err, "apply %s", gate.Name)
	}
	s.state = next

	s.debug("gate done", zap.String("gate", gate.Name), zap.Stringer("state", s.state))
	return nil
}

// Operator returns the full-space operator Apply would use for gate on qn.
func (s *System) Operator(gate Gate, qn int) (tensor.Matrix, error) {
	if err := s.checkIndex(qn); err != nil {
		return nil, errors.Wrapf(err, "operator %s", gate.Name)
	}
	factors := make([]tensor.Matrix, s.numQubits)
	for i := range factors {
		factors[i] = GateI.Matrix
	}
	factors[qn] = gate.Matrix

	op, err := tensor.Compose(factors)
	if err != nil {
		return nil, errors.Wrapf(err, "embed %s on q%d", gate.Name, qn)
	}
	return op, nil
}

// X applies the Pauli-X gate to qubit qn.
func (s *System) X(qn int) error { return s.Apply(GateX, qn) }

// Y applies the Pauli-Y gate to qubit qn.
func (s *System) Y(qn int) error { return s.Apply(GateY, qn) }

// Z applies the Pauli-Z gate to qubit qn.
func (s *System) Z(qn int) error { return s.Apply(GateZ, qn) }

// H applies the Hadamard gate to qubit qn.
func (s *System) H(qn int) error { return s.Apply(GateH, qn) }

func (s *System) recompose() error {
	state, err := tensor.Compose(s.slots)
	if err != nil {
		return errors.Wrap(err, "recompose joint state")
	}
	s.state = state
	return nil
}

func (s *System) checkIndex(qn int) error {
	if qn < 0 || qn >= s.numQubits {
		return errors.Wrapf(ErrIndexOutOfRange, "qubit q%d, register has %d", qn, s.numQubits)
	}
	return nil
}

func (s *System) debug(msg string, fields ...zap.Field) {
	if !s.verbose {
		return
	}
	s.logger.Debug(msg, fields...)
}

func checkKet(v tensor.Vector) error {
	if len(v) != 2 {
		return errors.Wrapf(ErrInvalidArgument, "state vector has length %d, want 2", len(v))
	}
	return nil
}
