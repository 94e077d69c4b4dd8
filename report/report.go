// Package report renders a read-only view of a register snapshot.
package report

import (
	"fmt"
	"math/cmplx"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"qmechsim/qsystem"
	"qmechsim/tensor"
)

// BasisLabels returns the computational basis labels for n qubits, index 0
// to 2^n-1, as zero-padded binary strings with qubit 0 leftmost.
func BasisLabels(n int) []string {
	labels := make([]string, 1<<n)
	for i := range labels {
		s := strconv.FormatInt(int64(i), 2)
		labels[i] = strings.Repeat("0", n-len(s)) + s
	}
	return labels
}

// QubitProbability is the marginal probability of reading a qubit as 0 or 1.
type QubitProbability struct {
	Zero float64
	One  float64
}

// QubitProbabilities sums |amplitude|^2 per qubit. Qubit 0 is the most
// significant bit of the basis index.
func QubitProbabilities(snap qsystem.Snapshot) []QubitProbability {
	probs := make([]QubitProbability, snap.NumQubits)
	for i, amp := range snap.State {
		p := probability(amp)
		for q := 0; q < snap.NumQubits; q++ {
			if i&(1<<(snap.NumQubits-1-q)) != 0 {
				probs[q].One += p
			} else {
				probs[q].Zero += p
			}
		}
	}
	return probs
}

// Rows formats the state as basis | amplitude | probability rows. With
// nonZeroOnly, basis states with zero probability are skipped.
func Rows(snap qsystem.Snapshot, nonZeroOnly bool) [][]string {
	labels := BasisLabels(snap.NumQubits)
	rows := make([][]string, 0, len(snap.State))
	for i, amp := range snap.State {
		p := probability(amp)
		if nonZeroOnly && p < 1e-12 {
			continue
		}
		rows = append(rows, []string{
			"|" + labels[i] + "⟩",
			tensor.FormatComplex(amp),
			fmt.Sprintf("%.4f", p),
		})
	}
	return rows
}

// Headers are the column titles used by Table.
var Headers = []string{"Basis", "Amplitude", "Probability"}

// Table lays every basis state out in a table.
// Callers may restyle it with StyleFunc before rendering.
func Table(snap qsystem.Snapshot) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Headers...).
		Rows(Rows(snap, false)...)
}

// Render formats the snapshot as plain text.
func Render(snap qsystem.Snapshot) string {
	var sb strings.Builder

	sb.WriteString("Quantum Qubit System\n")
	sb.WriteString("====================\n")
	fmt.Fprintf(&sb, "Qubits: %d\n", snap.NumQubits)
	fmt.Fprintf(&sb, "Classical Bits: %d\n", snap.NumClassicalBits)
	fmt.Fprintf(&sb, "Basis: [%s]\n", strings.Join(BasisLabels(snap.NumQubits), " "))
	fmt.Fprintf(&sb, "Current State: %s\n", snap.State)
	fmt.Fprintf(&sb, "Classical Bit Values: %v\n", snap.ClassicalBits)

	sb.WriteString("\n")
	sb.WriteString(Table(snap).String())
	sb.WriteString("\n\n")

	for q, p := range QubitProbabilities(snap) {
		fmt.Fprintf(&sb, "q%d: P(0)=%.4f P(1)=%.4f\n", q, p.Zero, p.One)
	}
	return sb.String()
}

func probability(amp complex128) float64 {
	return real(amp * cmplx.Conj(amp))
}
