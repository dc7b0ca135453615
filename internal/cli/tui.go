package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/weavr/pkg/audit"
	"github.com/matzehuels/weavr/pkg/model"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// violationModel - Interactive violation browser
// =============================================================================

// violationModel is the bubbletea model for browsing audit violations.
// Pressing t cycles a filter through the element types that have violations.
type violationModel struct {
	report  *audit.Report
	types   []model.InternalType // filter cycle; index 0 is "all"
	filter  int
	visible []audit.Violation
	cursor  int
	offset  int
	height  int
}

// newViolationModel creates a browser over rep's violations.
func newViolationModel(rep *audit.Report) violationModel {
	m := violationModel{report: rep, height: 15, types: []model.InternalType{""}}
	seen := make(map[model.InternalType]bool)
	for _, v := range rep.Violations {
		if !seen[v.Type] {
			seen[v.Type] = true
			m.types = append(m.types, v.Type)
		}
	}
	m.applyFilter()
	return m
}

func (m *violationModel) applyFilter() {
	want := m.types[m.filter]
	m.visible = nil
	for _, v := range m.report.Violations {
		if want == "" || v.Type == want {
			m.visible = append(m.visible, v)
		}
	}
	m.cursor, m.offset = 0, 0
}

func (m violationModel) Init() tea.Cmd {
	return nil
}

func (m violationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "t":
			m.filter = (m.filter + 1) % len(m.types)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m violationModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.report.Summary()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  t filter by type  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.visible))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		v := m.visible[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, v.SliceID, string(v.Type), v.Title, v.ElementID, v.Missing})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Slice", "Type", "Title", "ID", "Missing").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			if col == 5 {
				return StyleWarning
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if v, ok := m.selected(); ok {
		b.WriteString(StyleDim.Render(v.String()))
	}
	b.WriteString("\n\n")

	filter := "all types"
	if ft := m.types[m.filter]; ft != "" {
		filter = string(ft)
	}
	pos := 0
	if len(m.visible) > 0 {
		pos = m.cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %s", pos, len(m.visible), filter)))

	return b.String()
}

// selected returns the violation under the cursor.
func (m violationModel) selected() (audit.Violation, bool) {
	if m.cursor >= len(m.visible) {
		return audit.Violation{}, false
	}
	return m.visible[m.cursor], true
}
