package main

import (
	"fmt"
	"strings"

	"qmechsim/qsystem"
)

// itemKind says what choosing a menu item does.
type itemKind int

const (
	itemGate itemKind = iota
	itemKet
	itemCustomKet
)

// menuItem represents a single choice in the menu.
type menuItem struct {
	name   string
	symbol string
	kind   itemKind
	gate   qsystem.Gate
	ket    qsystem.Ket
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

var gateNames = map[string]string{
	"H": "Hadamard",
	"X": "Pauli-X (NOT)",
	"Y": "Pauli-Y",
	"Z": "Pauli-Z",
	"I": "Identity",
}

// gateMenu defines the picker categories: the gate library and the initial
// states a qubit slot can be set to.
var gateMenu = buildMenu()

func buildMenu() []menuCategory {
	gates := menuCategory{name: "Gates"}
	for _, g := range qsystem.Gates {
		gates.items = append(gates.items, menuItem{
			name:   gateNames[g.Name],
			symbol: g.Name,
			kind:   itemGate,
			gate:   g,
		})
	}

	kets := menuCategory{name: "Initial State"}
	for _, k := range qsystem.Kets {
		kets.items = append(kets.items, menuItem{
			name:   "Ket " + k.Name,
			symbol: k.Label,
			kind:   itemKet,
			ket:    k,
		})
	}
	kets.items = append(kets.items, menuItem{
		name:   "Custom…",
		symbol: "(a, b)",
		kind:   itemCustomKet,
	})

	return []menuCategory{gates, kets}
}

// renderMenu renders the floating picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("q[%d]", m.cursorQubit)))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 30)))
	sb.WriteString("\n")

	// Items in the selected category
	cat := gateMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
