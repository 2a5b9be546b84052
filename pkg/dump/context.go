package dump

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/irdump/pkg/ir"
	"github.com/matzehuels/irdump/pkg/schedule"
)

// Options are the dump switches of a compilation.
type Options struct {
	// ScheduleOnDump computes a schedule for graphs that have none.
	ScheduleOnDump bool
	// Probabilities exports the block probability of fixed nodes.
	Probabilities bool
}

// Scheduler computes a schedule for g and attaches it as g's last schedule.
// A failed Apply must leave the graph's schedule untouched.
type Scheduler interface {
	Apply(g *ir.Graph) error
}

// Config configures a [DebugContext]. Zero fields get defaults.
type Config struct {
	Logger     *log.Logger
	Options    Options
	Scheduler  Scheduler
	Costs      CostModel
	Reflection Reflection
}

// DebugContext carries the options and collaborators of one compilation's
// dumps. Its context.Context is used for logging and hooks only; nothing in
// this package blocks on it.
type DebugContext struct {
	ctx context.Context
	cfg Config
	err error
}

// NewDebugContext creates a debug context.
func NewDebugContext(ctx context.Context, cfg Config) *DebugContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = &schedule.Phase{}
	}
	if cfg.Costs == nil {
		cfg.Costs = ClassCosts{}
	}
	if cfg.Reflection == nil {
		cfg.Reflection = BoxedObjects{}
	}
	return &DebugContext{ctx: ctx, cfg: cfg}
}

// WithError returns a copy of dc that reports err as the failure being
// diagnosed. Dumps taken while an error is reported always try to include a
// schedule.
func (dc *DebugContext) WithError(err error) *DebugContext {
	c := *dc
	c.err = err
	return &c
}

// ReportingError returns the failure being diagnosed, or nil.
func (dc *DebugContext) ReportingError() error { return dc.err }

func (dc *DebugContext) Context() context.Context { return dc.ctx }
func (dc *DebugContext) Logger() *log.Logger      { return dc.cfg.Logger }
func (dc *DebugContext) Options() Options         { return dc.cfg.Options }
func (dc *DebugContext) Scheduler() Scheduler     { return dc.cfg.Scheduler }
func (dc *DebugContext) Costs() CostModel         { return dc.cfg.Costs }
func (dc *DebugContext) Reflection() Reflection   { return dc.cfg.Reflection }

func orDefault(dc *DebugContext) *DebugContext {
	if dc == nil {
		return NewDebugContext(context.Background(), Config{})
	}
	return dc
}
