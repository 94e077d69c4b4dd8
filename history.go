package main

import (
	"fmt"
)

// opKind distinguishes the entries of a History.
type opKind int

const (
	opGate opKind = iota
	opInit
	opResize
	opReset
)

// Op is one mutating call made against the register.
type Op struct {
	Kind   opKind
	Name   string // gate name, ket label or empty
	Target int    // qubit index, or the new qubit count for opResize
	Step   int    // position in the session timeline
}

// History records the operations applied in a session, in order.
type History struct {
	Ops []Op
}

func (h *History) add(kind opKind, name string, target int) {
	h.Ops = append(h.Ops, Op{
		Kind:   kind,
		Name:   name,
		Target: target,
		Step:   len(h.Ops),
	})
}

// AddGate records a gate applied to a qubit.
func (h *History) AddGate(name string, target int) { h.add(opGate, name, target) }

// AddInit records an initial-state change. It discards earlier gates on the
// joint state, which Lines marks.
func (h *History) AddInit(label string, target int) { h.add(opInit, label, target) }

// AddResize records the register being rebuilt with a new qubit count.
func (h *History) AddResize(qubits int) { h.add(opResize, "", qubits) }

// AddReset records the register being rebuilt from scratch.
func (h *History) AddReset() { h.add(opReset, "", 0) }

// GatesSinceInit counts the gates applied since the joint state was last
// composed from the initial slots.
func (h History) GatesSinceInit() int {
	n := 0
	for i := len(h.Ops) - 1; i >= 0; i-- {
		if h.Ops[i].Kind != opGate {
			break
		}
		n++
	}
	return n
}

// Lines renders one line per op.
func (h History) Lines() []string {
	lines := make([]string, len(h.Ops))
	for i, op := range h.Ops {
		switch op.Kind {
		case opGate:
			lines[i] = fmt.Sprintf("%3d  %s q[%d]", op.Step, op.Name, op.Target)
		case opInit:
			lines[i] = fmt.Sprintf("%3d  init q[%d] ← %s  (recomposed)", op.Step, op.Target, op.Name)
		case opResize:
			lines[i] = fmt.Sprintf("%3d  resize to %d qubits", op.Step, op.Target)
		case opReset:
			lines[i] = fmt.Sprintf("%3d  reset", op.Step)
		}
	}
	return lines
}
