package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/boxtree-io/boxtree/pkg/layout"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// algorithmDescriptions shown next to each algorithm in the picker.
var algorithmDescriptions = map[string]string{
	layout.AlgorithmGrid:      "uniform cells in a near-square grid",
	layout.AlgorithmFlow:      "word-wrap packing, orientation alternates by depth",
	layout.AlgorithmMixedFlow: "scored candidates: rows, columns, splits, matrices",
}

// =============================================================================
// AlgorithmPickerModel - Interactive algorithm selection
// =============================================================================

// AlgorithmPickerModel is the bubbletea model for interactive algorithm selection.
type AlgorithmPickerModel struct {
	Algorithms []string
	Cursor     int
	Selected   string
}

// NewAlgorithmPickerModel creates a picker over the registered algorithms,
// with the cursor on current when it is in the list.
func NewAlgorithmPickerModel(current string) AlgorithmPickerModel {
	m := AlgorithmPickerModel{Algorithms: layout.Available()}
	for i, name := range m.Algorithms {
		if name == current {
			m.Cursor = i
		}
	}
	return m
}

func (m AlgorithmPickerModel) Init() tea.Cmd {
	return nil
}

func (m AlgorithmPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Algorithms)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Algorithms[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m AlgorithmPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout Algorithm"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.Algorithms {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(name))
		if desc := algorithmDescriptions[name]; desc != "" {
			b.WriteString("  " + listDimStyle.Render(desc))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pickAlgorithm runs the interactive picker and returns the chosen
// algorithm name, or "" if the user quit without selecting.
func pickAlgorithm(current string) (string, error) {
	final, err := tea.NewProgram(NewAlgorithmPickerModel(current)).Run()
	if err != nil {
		return "", fmt.Errorf("run picker: %w", err)
	}
	m, ok := final.(AlgorithmPickerModel)
	if !ok {
		return "", nil
	}
	return m.Selected, nil
}
