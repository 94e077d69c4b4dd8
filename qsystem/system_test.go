package qsystem

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"qmechsim/tensor"
)

const tol = 1e-9

func newSystem(t *testing.T, qubits int) *System {
	t.Helper()
	s, err := New(qubits, qubits, Config{})
	require.NoError(t, err)
	return s
}

func TestNewStartsInBasisZero(t *testing.T) {
	for n := 1; n <= 6; n++ {
		s := newSystem(t, n)
		assert.Equal(t, n, s.NumQubits())
		assert.Equal(t, n, s.NumClassicalBits())
		assert.Equal(t, tensor.Basis(1<<n, 0), s.State(), "n=%d", n)
		assert.Equal(t, make([]int, n), s.ClassicalBits())
	}
}

func TestNewRejectsBadSizes(t *testing.T) {
	_, err := New(0, 0, Config{})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = New(-1, 0, Config{})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = New(2, -1, Config{})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestXOnSingleQubit(t *testing.T) {
	s := newSystem(t, 1)
	require.NoError(t, s.X(0))
	assert.Equal(t, tensor.Vector{0, 1}, s.State())
}

func TestHadamardOnMostSignificantQubit(t *testing.T) {
	s := newSystem(t, 3)
	require.NoError(t, s.H(0))

	h := 1 / math.Sqrt2
	want := tensor.Vector{complex(h, 0), 0, 0, 0, complex(h, 0), 0, 0, 0}
	got := s.State()
	assert.True(t, got.ApproxEqual(want, tol), "got %s", got)

	nonzero := 0
	for _, a := range got {
		if a != 0 {
			nonzero++
		}
	}
	assert.Equal(t, 2, nonzero)
}

func TestHadamardOnLeastSignificantQubit(t *testing.T) {
	s := newSystem(t, 3)
	require.NoError(t, s.H(2))

	h := complex(1/math.Sqrt2, 0)
	want := tensor.Vector{h, h, 0, 0, 0, 0, 0, 0}
	assert.True(t, s.State().ApproxEqual(want, tol))
}

func TestGatesAreInvolutions(t *testing.T) {
	for _, g := range []Gate{GateX, GateY, GateZ, GateH} {
		t.Run(g.Name, func(t *testing.T) {
			s := newSystem(t, 3)
			require.NoError(t, s.SetAllInitialStates([]tensor.Vector{
				KetPlus.Vector, KetMinusI.Vector, {complex(0.6, 0), complex(0, 0.8)},
			}))
			before := s.State()

			require.NoError(t, s.Apply(g, 1))
			require.NoError(t, s.Apply(g, 1))
			assert.True(t, s.State().ApproxEqual(before, tol), "got %s want %s", s.State(), before)
		})
	}
}

func TestGatesPreserveNorm(t *testing.T) {
	starts := [][]tensor.Vector{
		{Ket0.Vector, Ket0.Vector},
		{KetPlus.Vector, Ket1.Vector},
		{KetPlusI.Vector, KetMinus.Vector},
		{{complex(0.6, 0), complex(0, 0.8)}, {complex(0, 0.28), complex(0.96, 0)}},
	}
	for _, start := range starts {
		s := newSystem(t, 2)
		require.NoError(t, s.SetAllInitialStates(start))
		for _, g := range []Gate{GateX, GateY, GateZ, GateH} {
			for qn := 0; qn < 2; qn++ {
				require.NoError(t, s.Apply(g, qn))
				assert.InDelta(t, 1.0, s.State().Norm(), tol, "after %s on q%d", g.Name, qn)
			}
		}
	}
}

func TestGateMatrices(t *testing.T) {
	tests := []struct {
		gate Gate
		in   tensor.Vector
		want tensor.Vector
	}{
		{GateX, tensor.Vector{1, 0}, tensor.Vector{0, 1}},
		{GateY, tensor.Vector{1, 0}, tensor.Vector{0, 1i}},
		{GateY, tensor.Vector{0, 1}, tensor.Vector{-1i, 0}},
		{GateZ, tensor.Vector{0, 1}, tensor.Vector{0, -1}},
		{GateH, tensor.Vector{1, 0}, KetPlus.Vector},
		{GateH, tensor.Vector{0, 1}, KetMinus.Vector},
		{GateI, tensor.Vector{0.6, 0.8}, tensor.Vector{0.6, 0.8}},
	}
	for _, tt := range tests {
		s := newSystem(t, 1)
		require.NoError(t, s.SetQubitInitialState(tt.in, 0))
		require.NoError(t, s.Apply(tt.gate, 0))
		assert.True(t, s.State().ApproxEqual(tt.want, tol), "%s%s = %s, want %s", tt.gate.Name, tt.in, s.State(), tt.want)
	}
}

func TestOperatorEmbedding(t *testing.T) {
	s := newSystem(t, 2)
	op, err := s.Operator(GateX, 1)
	require.NoError(t, err)
	want := tensor.Matrix{
		{0, 1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	}
	assert.True(t, op.ApproxEqual(want, tol), "got:\n%s", op)
}

func TestOutOfRangeLeavesStateUntouched(t *testing.T) {
	s := newSystem(t, 2)
	require.NoError(t, s.H(0))
	before := s.State()
	slots := s.InitialStates()

	for _, qn := range []int{-1, 2, 100} {
		assert.True(t, errors.Is(s.X(qn), ErrIndexOutOfRange), "X(%d)", qn)
		assert.True(t, errors.Is(s.Y(qn), ErrIndexOutOfRange), "Y(%d)", qn)
		assert.True(t, errors.Is(s.Z(qn), ErrIndexOutOfRange), "Z(%d)", qn)
		assert.True(t, errors.Is(s.H(qn), ErrIndexOutOfRange), "H(%d)", qn)
		assert.True(t, errors.Is(s.SetQubitInitialState(Ket1.Vector, qn), ErrIndexOutOfRange), "set(%d)", qn)

		_, err := s.Operator(GateX, qn)
		assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	}

	assert.Equal(t, before, s.State())
	assert.Equal(t, slots, s.InitialStates())
}

func TestInvalidArguments(t *testing.T) {
	s := newSystem(t, 2)
	before := s.State()

	err := s.SetQubitInitialState(tensor.Vector{1, 0, 0}, 0)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	err = s.SetAllInitialStates([]tensor.Vector{Ket1.Vector})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	err = s.SetAllInitialStates([]tensor.Vector{Ket1.Vector, Ket1.Vector, Ket1.Vector})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	err = s.SetAllInitialStates([]tensor.Vector{Ket1.Vector, {1}})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	err = s.Apply(Gate{Name: "big", Matrix: tensor.Identity(4)}, 0)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	err = s.Apply(Gate{Name: "ragged", Matrix: tensor.Matrix{{1, 0}, {1}}}, 0)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	assert.Equal(t, before, s.State())
}

func TestSetInitialStateDiscardsGates(t *testing.T) {
	s := newSystem(t, 2)
	require.NoError(t, s.H(0))
	require.NoError(t, s.X(1))

	require.NoError(t, s.SetQubitInitialState(Ket1.Vector, 1))
	assert.Equal(t, tensor.Basis(4, 1), s.State())
}

func TestSetAllMatchesPerQubitSets(t *testing.T) {
	states := []tensor.Vector{KetPlus.Vector, Ket1.Vector, KetMinusI.Vector}

	batch := newSystem(t, 3)
	require.NoError(t, batch.SetAllInitialStates(states))

	for _, order := range [][]int{{0, 1, 2}, {2, 1, 0}, {1, 2, 0}} {
		single := newSystem(t, 3)
		require.NoError(t, single.X(0))
		for _, qn := range order {
			require.NoError(t, single.SetQubitInitialState(states[qn], qn))
		}
		assert.True(t, single.State().ApproxEqual(batch.State(), tol), "order %v", order)
	}
}

func TestInputsAreCopied(t *testing.T) {
	s := newSystem(t, 1)
	v := tensor.Vector{0, 1}
	require.NoError(t, s.SetQubitInitialState(v, 0))
	v[0], v[1] = 1, 0
	assert.Equal(t, tensor.Vector{0, 1}, s.State())

	out := s.State()
	out[0] = 5
	assert.Equal(t, tensor.Vector{0, 1}, s.State())

	require.NoError(t, s.X(0))
	assert.Equal(t, tensor.Matrix{{0, 1}, {1, 0}}, GateX.Matrix)
}

func TestSnapshot(t *testing.T) {
	s, err := New(2, 3, Config{})
	require.NoError(t, err)
	require.NoError(t, s.X(1))

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.NumQubits)
	assert.Equal(t, 3, snap.NumClassicalBits)
	assert.Equal(t, tensor.Basis(4, 1), snap.State)
	assert.Equal(t, []int{0, 0, 0}, snap.ClassicalBits)

	snap.State[1] = 0
	assert.Equal(t, tensor.Basis(4, 1), s.State())
}

func TestVerboseDiagnostics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s, err := New(2, 1, Config{Verbose: true, Logger: zap.New(core)})
	require.NoError(t, err)

	created := logs.FilterMessage("register created").All()
	require.Len(t, created, 1)
	assert.Equal(t, int64(2), created[0].ContextMap()["qubits"])
	assert.Equal(t, int64(1), created[0].ContextMap()["classical_bits"])

	require.NoError(t, s.SetQubitInitialState(Ket1.Vector, 0))
	require.NoError(t, s.H(1))

	assert.Equal(t, 1, logs.FilterMessage("initial state changed").Len())
	ops := logs.FilterMessage("operating").All()
	require.Len(t, ops, 1)
	assert.Equal(t, "H", ops[0].ContextMap()["gate"])
	assert.Equal(t, int64(1), ops[0].ContextMap()["qubit"])
	assert.Equal(t, 1, logs.FilterMessage("gate done").Len())

	_ = s.X(7)
	assert.Equal(t, 1, logs.FilterMessage("operating").Len(), "failed calls emit nothing")
}

func TestQuietByDefault(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s, err := New(1, 0, Config{Logger: zap.New(core)})
	require.NoError(t, err)
	require.NoError(t, s.X(0))
	assert.Zero(t, logs.Len())
}

func TestLookups(t *testing.T) {
	g, ok := GateByName(" h ")
	require.True(t, ok)
	assert.Equal(t, "H", g.Name)

	_, ok = GateByName("cx")
	assert.False(t, ok)

	v, ok := KetByName("-i")
	require.True(t, ok)
	assert.True(t, v.ApproxEqual(KetMinusI.Vector, tol))
	v[0] = 9
	assert.NotEqual(t, complex128(9), KetMinusI.Vector[0])

	_, ok = KetByName("2")
	assert.False(t, ok)
}
