package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"qmechsim/report"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// padRight pads s with spaces to the given visible width.
func padRight(s string, width int) string {
	if n := visibleLen(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// probBar draws p as a bar of probBarW cells.
func probBar(p float64) string {
	filled := min(max(int(p*probBarW+0.5), 0), probBarW)
	return probBarStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", probBarW-filled))
}

// tail returns the last n entries of lines.
func tail(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderRegisterPanel renders one row per qubit: its initial slot and the
// marginal probability of reading 1.
func (m Model) renderRegisterPanel(width, height int) string {
	var sb strings.Builder
	snap := m.sys.Snapshot()

	sb.WriteString(titleStyle.Render("Quantum Register"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%d qubits · %d classical bits · state size %d", snap.NumQubits, snap.NumClassicalBits, len(snap.State))))
	sb.WriteString("\n\n")

	header := strings.Repeat(" ", labelVisualW+2) + padRight("initial", ketW) + padCenter("P(1)", probBarW)
	sb.WriteString(dimStyle.Render(header) + "\n")

	for q, p := range report.QubitProbabilities(snap) {
		marker := "  "
		label := qubitLabelStyle.Render(fmt.Sprintf("%-*s", labelVisualW, fmt.Sprintf("q[%d]", q)))
		if q == m.cursorQubit {
			marker = cursorStyle.Render("▸ ")
			label = cursorStyle.Render(fmt.Sprintf("%-*s", labelVisualW, fmt.Sprintf("q[%d]", q)))
		}
		slot := padRight(formatKet(m.sys.InitialStates()[q]), ketW)
		fmt.Fprintf(&sb, "%s%s%s%s %.3f\n", marker, label, ampStyle.Render(slot), probBar(p.One), p.One)
	}

	sb.WriteString("\n")
	sb.WriteString(cbitLabelStyle.Render(fmt.Sprintf("c%d", snap.NumClassicalBits)))
	fmt.Fprintf(&sb, " %v", snap.ClassicalBits)
	if n := m.history.GatesSinceInit(); n > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("   %d gate(s) since last composition", n)))
	}

	return registerStyle.Width(width).Height(height).Render(sb.String())
}

// renderStatePanel renders the joint state as a table. Zero amplitudes are
// hidden once the register has more than 16 basis states.
func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder
	snap := m.sys.Snapshot()

	sb.WriteString(titleStyle.Render("Joint State"))
	sb.WriteString("\n")

	nonZeroOnly := len(snap.State) > 16
	rows := report.Rows(snap, nonZeroOnly)
	maxRows := max(height-6, 1)
	hidden := 0
	if len(rows) > maxRows {
		hidden = len(rows) - maxRows
		rows = rows[:maxRows]
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(report.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return titleStyle.Padding(0, 1)
			case col == 0:
				return qubitLabelStyle.Padding(0, 1)
			default:
				return ampStyle.Padding(0, 1)
			}
		})
	sb.WriteString(t.String())

	if nonZeroOnly {
		sb.WriteString("\n" + dimStyle.Render("zero amplitudes hidden"))
	}
	if hidden > 0 {
		sb.WriteString("\n" + dimStyle.Render(fmt.Sprintf("… %d more", hidden)))
	}

	return stateStyle.Width(width).Height(height).Render(sb.String())
}

// renderHistoryPanel renders the most recent operations.
func (m Model) renderHistoryPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("History"))
	sb.WriteString("\n")

	lines := m.history.Lines()
	if len(lines) == 0 {
		sb.WriteString(dimStyle.Render("no operations yet"))
	}
	for _, line := range tail(lines, height-1) {
		sb.WriteString(gateStyle.Render(line) + "\n")
	}

	return historyStyle.Width(width).Height(height).Render(strings.TrimRight(sb.String(), "\n"))
}

// renderDiagPanel renders the tail of the verbose diagnostics.
func (m Model) renderDiagPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Diagnostics"))
	sb.WriteString("\n")

	if !m.cfg.Verbose {
		sb.WriteString(dimStyle.Render("verbose diagnostics off (run with --verbose)"))
		return diagStyle.Width(width).Height(height).Render(sb.String())
	}

	clip := lipgloss.NewStyle().MaxWidth(max(width-4, 10))
	for _, line := range tail(m.diag.Lines(), height-1) {
		sb.WriteString(clip.Render(dimStyle.Render(line)) + "\n")
	}

	return diagStyle.Width(width).Height(height).Render(strings.TrimRight(sb.String(), "\n"))
}

// renderControlsPanel renders the help bar and the status line.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(m.help.View(m.keys))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Qubit %d", m.cursorQubit)
	if m.statusMsg != "" {
		style := activeStyle
		if m.statusErr {
			style = errorStyle
		}
		fmt.Fprintf(&sb, "  │  %s", style.Render(m.statusMsg))
	}

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// renderStateInput renders the custom initial-state overlay.
func (m Model) renderStateInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Initial state of q[%d]", m.cursorQubit)))
	sb.WriteString("\n\n")
	sb.WriteString(m.stateInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Ket names: 0 1 + - +i -i"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("Amplitudes: 0.6, 0.8i  ·  1/sqrt2, -i/sqrt2"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("⏎ Ok  Esc ✕  (discards applied gates)"))
	if m.statusErr {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(m.statusMsg))
	}
	return menuBorderStyle.Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces visible columns starting at position x in bgLine with overlay content.
// It properly handles ANSI escape sequences in the background line.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix strings.Builder
	var suffix strings.Builder

	col := 0
	i := 0
	inEsc := false

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			inEsc = true
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				if inEsc && runes[i] != '\x1b' && runes[i] != '[' && ((runes[i] >= 'A' && runes[i] <= 'Z') || (runes[i] >= 'a' && runes[i] <= 'z')) {
					inEsc = false
					i++
					break
				}
				i++
			}
		} else {
			prefix.WriteRune(runes[i])
			col++
			i++
		}
	}

	// Pad prefix if bg line is shorter than x
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Skip over ovWidth visible columns in the background
	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				i++
				if i > 0 && runes[i-1] != '\x1b' && runes[i-1] != '[' && ((runes[i-1] >= 'A' && runes[i-1] <= 'Z') || (runes[i-1] >= 'a' && runes[i-1] <= 'z')) {
					break
				}
			}
		} else {
			skipped++
			i++
		}
	}

	// Collect suffix: rest of the background line
	for i < len(runes) {
		suffix.WriteRune(runes[i])
		i++
	}

	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
