package dump

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/irdump/pkg/errors"
	"github.com/matzehuels/irdump/pkg/ir"
	"github.com/matzehuels/irdump/pkg/observability"
	"github.com/matzehuels/irdump/pkg/printer"
)

// Printer exports graphs of package ir to an encoder. Each graph is
// snapshotted against the debug context given with it.
type Printer struct {
	adapter *Adapter
	core    *printer.Printer[*Snapshot, *ir.Node, *ir.Block, ir.Edges]
	logger  *log.Logger
}

// NewPrinter creates a printer writing to enc. A nil logger uses the
// default logger.
func NewPrinter(enc printer.Encoder, logger *log.Logger) *Printer {
	if logger == nil {
		logger = log.Default()
	}
	a := NewAdapter()
	return &Printer{
		adapter: a,
		core:    printer.New[*Snapshot, *ir.Node, *ir.Block, ir.Edges](a, enc, logger),
		logger:  logger,
	}
}

// BeginGroup opens a group of related graphs, usually one per compiled
// method. method may be nil.
func (p *Printer) BeginGroup(dc *DebugContext, name, shortName string, method *ir.Method, bci int, props map[string]any) error {
	var m any
	if method != nil {
		m = method
	}
	return p.core.BeginGroup(NewSnapshot(dc, nil), name, shortName, m, bci, props)
}

// EndGroup closes the innermost open group.
func (p *Printer) EndGroup() error { return p.core.EndGroup() }

// Print exports g titled "<id>: " followed by the formatted title.
func (p *Printer) Print(dc *DebugContext, g *ir.Graph, props map[string]any, id int, format string, args ...any) error {
	if g == nil {
		return errors.New(errors.ErrCodeInvalidInput, "print of nil graph")
	}
	dc = orDefault(dc)
	hooks := observability.Export()
	hooks.OnExportStart(dc.Context(), g.Name())
	start := time.Now()

	s := NewSnapshot(dc, g)
	err := p.core.Print(s, props, id, format, args...)

	blocks := len(s.Blocks())
	hooks.OnExportComplete(dc.Context(), g.Name(), g.NodeCount(), blocks, time.Since(start), err)
	if err != nil {
		p.logger.Error("export failed", "graph", g.Name(), "error", err)
		return err
	}
	p.logger.Debug("exported graph", "graph", g.Name(), "nodes", g.NodeCount(), "blocks", blocks, "scheduled", s.HasSchedule())
	return nil
}

// Close closes the encoder. It fails if groups are still open.
func (p *Printer) Close() error { return p.core.Close() }
