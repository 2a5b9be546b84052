package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/irdump/pkg/config"
	"github.com/matzehuels/irdump/pkg/dump"
	"github.com/matzehuels/irdump/pkg/errors"
	"github.com/matzehuels/irdump/pkg/ir"
	"github.com/matzehuels/irdump/pkg/printer"
	"github.com/matzehuels/irdump/pkg/sink/binary"
	"github.com/matzehuels/irdump/pkg/sink/dot"
	irjson "github.com/matzehuels/irdump/pkg/sink/json"
)

// Render dumps g once and encodes it in each of formats. The graph is
// printed inside a group named after g carrying dumpID and the source.
func Render(ctx context.Context, g *ir.Graph, formats []string, dumpID string, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	dotOpts := dot.Options{Detailed: opts.Detailed, Blocks: true}

	bufs := make(map[string]*bytes.Buffer, len(formats))
	var (
		encs []printer.Encoder
		svg  *printer.Collector
	)
	for _, format := range formats {
		buf := &bytes.Buffer{}
		switch format {
		case config.FormatBinary:
			encs = append(encs, binary.NewWriter(buf))
		case config.FormatJSON:
			encs = append(encs, irjson.NewWriter(buf))
		case config.FormatDOT:
			encs = append(encs, dot.NewWriter(buf, dotOpts))
		case config.FormatSVG:
			svg = printer.NewCollector()
			encs = append(encs, svg)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}
		bufs[format] = buf
	}
	if len(encs) == 0 {
		return map[string][]byte{}, nil
	}

	if err := printGraph(opts.DebugContext(ctx), g, printer.Tee(encs...), dumpID, opts); err != nil {
		return nil, err
	}

	if svg != nil {
		data, err := renderSVG(ctx, svg.Document(), dotOpts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
		bufs[config.FormatSVG].Write(data)
	}

	artifacts := make(map[string][]byte, len(bufs))
	for format, buf := range bufs {
		artifacts[format] = buf.Bytes()
	}
	return artifacts, nil
}

func printGraph(dc *dump.DebugContext, g *ir.Graph, enc printer.Encoder, dumpID string, opts Options) error {
	p := dump.NewPrinter(enc, opts.Logger)

	short := g.Name()
	if m := g.Method(); m != nil {
		short = m.Name()
	}
	props := map[string]any{DumpIDKey: dumpID, SourceKey: opts.Source}
	if err := p.BeginGroup(dc, g.Name(), short, g.Method(), 0, props); err != nil {
		return err
	}

	title := "final"
	if opts.ReportError != "" {
		title = "failed: " + opts.ReportError
	}
	if err := p.Print(dc, g, nil, 0, "%s", title); err != nil {
		return err
	}
	if err := p.EndGroup(); err != nil {
		return err
	}
	return p.Close()
}

func renderSVG(ctx context.Context, doc *printer.Document, opts dot.Options) ([]byte, error) {
	var first *printer.GraphRecord
	doc.Walk(func(_ []string, g *printer.GraphRecord) {
		if first == nil {
			first = g
		}
	})
	if first == nil {
		return nil, errors.New(errors.ErrCodeStructural, "no graph to render")
	}
	return dot.RenderSVG(ctx, dot.ToDOT(first, opts))
}
