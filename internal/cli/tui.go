package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// List styles
var (
	listKeyStyle = lipgloss.NewStyle().Foreground(colorCyan).Width(24)
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// NodeListModel is the bubbletea model for browsing the annotated nodes of
// a graph. Enter opens the property bag of the node under the cursor.
type NodeListModel struct {
	Title  string
	Rows   []nodeRow
	Cursor int
	Offset int
	Height int
	Detail bool
}

// NewNodeListModel creates a new node list model.
func NewNodeListModel(title string, rows []nodeRow) NodeListModel {
	return NodeListModel{
		Title:  title,
		Rows:   rows,
		Height: 15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.Detail && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.Detail && m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(m.Title)
	b.WriteString("\n")
	if m.Detail {
		b.WriteString(listDimStyle.Render("⏎/esc back  q quit"))
		b.WriteString("\n\n")
		b.WriteString(m.detailView())
		return b.String()
	}
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ properties  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	b.WriteString(renderNodeTable(m.Rows[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func (m NodeListModel) detailView() string {
	r := m.Rows[m.Cursor]
	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("%d|%s", r.ID, r.Class)))
	b.WriteString(" ")
	b.WriteString(lipgloss.NewStyle().Foreground(categoryColor(r.Category)).Render(string(r.Category)))
	b.WriteString("\n\n")
	for _, e := range r.Props {
		b.WriteString(listKeyStyle.Render(e.Key))
		b.WriteString(" ")
		b.WriteString(StyleValue.Render(fmt.Sprint(e.Value)))
		b.WriteString("\n")
	}
	return b.String()
}

func (c *CLI) browseCommand() *cobra.Command {
	var flags debugFlags

	cmd := &cobra.Command{
		Use:   "browse <graph-file>",
		Short: "Browse the annotated nodes of a graph file interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, opts, err := flags.options(cmd, args[0])
			if err != nil {
				return err
			}
			s, err := loadSnapshot(cmd.Context(), opts)
			if err != nil {
				return err
			}
			rows := nodeRows(s)
			if len(rows) == 0 {
				printInfo("%s has no nodes", s.Graph().Name())
				return nil
			}
			p := tea.NewProgram(NewNodeListModel(snapshotTitle(s), rows), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
	flags.register(cmd)
	return cmd
}
