package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/irdump/pkg/dump"
	"github.com/matzehuels/irdump/pkg/irfile"
	"github.com/matzehuels/irdump/pkg/pipeline"
	"github.com/matzehuels/irdump/pkg/printer"
)

// nodeRow is one node as shown by inspect and browse.
type nodeRow struct {
	ID       int
	Class    string
	Category dump.Category
	Block    string
	Cost     string
	Props    []printer.Entry
}

func (c *CLI) inspectCommand() *cobra.Command {
	var flags debugFlags

	cmd := &cobra.Command{
		Use:   "inspect <graph-file>",
		Short: "Print the annotated nodes of a graph file as a table",
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
			fmt.Fprintln(cmd.OutOrStdout(), snapshotTitle(s))
			fmt.Fprintln(cmd.OutOrStdout(), renderNodeTable(nodeRows(s)))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// loadSnapshot loads opts.Source and snapshots it the way a dump would.
func loadSnapshot(ctx context.Context, opts pipeline.Options) (*dump.Snapshot, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	g, err := irfile.Load(opts.Source)
	if err != nil {
		return nil, err
	}
	return dump.NewSnapshot(opts.DebugContext(ctx), g), nil
}

func snapshotTitle(s *dump.Snapshot) string {
	state := "unscheduled"
	if s.HasSchedule() {
		state = fmt.Sprintf("%d blocks", len(s.Blocks()))
	}
	return StyleTitle.Render(s.Graph().Name()) + " " +
		StyleDim.Render(fmt.Sprintf("%d nodes · %s", s.Graph().NodeCount(), state))
}

// nodeRows annotates every node of s in id order.
func nodeRows(s *dump.Snapshot) []nodeRow {
	var a dump.Annotator
	nodes := s.Graph().Nodes()
	rows := make([]nodeRow, 0, len(nodes))
	for _, n := range nodes {
		bag := a.Annotate(n, s)
		rows = append(rows, nodeRow{
			ID:       n.ID(),
			Class:    n.Class().Name(),
			Category: dump.Categorize(n),
			Block:    s.ResolveBlock(n).String(),
			Cost:     costOf(bag),
			Props:    bag.Entries(),
		})
	}
	return rows
}

func costOf(bag *printer.Bag) string {
	if bag.Has(dump.KeyCostException) {
		return iconWarning
	}
	size, _ := bag.Get(dump.KeyCostSize)
	cycles, _ := bag.Get(dump.KeyCostCycles)
	return fmt.Sprintf("%v/%v", size, cycles)
}

// renderNodeTable renders rows with the category column colored. The
// marked row, if in range, is bold.
func renderNodeTable(rows []nodeRow, marked ...int) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{strconv.Itoa(r.ID), r.Class, string(r.Category), r.Block, r.Cost}
	}
	cursor := -1
	if len(marked) > 0 {
		cursor = marked[0]
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Class", "Category", "Block", "Size/Cycles").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == cursor {
				base = base.Bold(true)
			}
			if row < 0 || row >= len(rows) {
				return base
			}
			switch col {
			case 0, 3:
				return base.Foreground(colorGray)
			case 2:
				return base.Foreground(categoryColor(rows[row].Category))
			}
			return base
		})
	return t.Render()
}
