package dump

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/irdump/pkg/ir"
	"github.com/matzehuels/irdump/pkg/observability"
)

type scheduleFailures struct {
	observability.NoopExportHooks
	graphs []string
}

func (h *scheduleFailures) OnScheduleFailed(_ context.Context, graph string, _ error) {
	h.graphs = append(h.graphs, graph)
}

type brokenScheduler struct{}

func (brokenScheduler) Apply(*ir.Graph) error { return errors.New("irreducible loop") }

type panickingScheduler struct{}

func (panickingScheduler) Apply(*ir.Graph) error { panic("scheduler bug") }

func linear(t *testing.T) *ir.Graph {
	t.Helper()
	g := ir.NewGraph("linear", nil)
	start := g.Add(ir.StartClass)
	ret := g.Add(ir.ReturnClass)
	must(t, start.SetSuccessor(ir.SlotNext, ret))
	return g
}

func TestNewSnapshot(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		dc        *DebugContext
		scheduled bool
		failures  int
	}{
		{"NoOptions", NewDebugContext(ctx, Config{}), false, 0},
		{"ScheduleOnDump", NewDebugContext(ctx, Config{Options: Options{ScheduleOnDump: true}}), true, 0},
		{"ReportingError", NewDebugContext(ctx, Config{}).WithError(errors.New("bailout")), true, 0},
		{"SchedulerFails", NewDebugContext(ctx, Config{
			Options:   Options{ScheduleOnDump: true},
			Scheduler: brokenScheduler{},
		}), false, 1},
		{"SchedulerPanicsWhileReportingError", NewDebugContext(ctx, Config{
			Scheduler: panickingScheduler{},
		}).WithError(errors.New("bailout")), false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hooks := &scheduleFailures{}
			observability.SetExportHooks(hooks)
			t.Cleanup(observability.Reset)

			g := linear(t)
			s := NewSnapshot(tt.dc, g)
			if s.HasSchedule() != tt.scheduled {
				t.Errorf("HasSchedule() = %v, want %v", s.HasSchedule(), tt.scheduled)
			}
			if len(hooks.graphs) != tt.failures {
				t.Errorf("OnScheduleFailed calls = %d, want %d", len(hooks.graphs), tt.failures)
			}
			if !tt.scheduled && s.Blocks() != nil {
				t.Error("unscheduled snapshot has blocks")
			}
		})
	}
}

func TestNewSnapshotKeepsExistingSchedule(t *testing.T) {
	g := linear(t)
	b := ir.NewBlock(7)
	sched := ir.NewSchedule(g, []*ir.Block{b}, map[*ir.Block][]*ir.Node{b: g.Nodes()})
	must(t, g.SetLastSchedule(sched))

	dc := NewDebugContext(context.Background(), Config{
		Options:   Options{ScheduleOnDump: true},
		Scheduler: brokenScheduler{},
	})
	s := NewSnapshot(dc, g)
	if s.Schedule() != sched {
		t.Fatal("snapshot replaced the graph's own schedule")
	}
	if got := s.BlockFor(g.Start()); got != b {
		t.Errorf("BlockFor(start) = %v, want block 7", got)
	}
}

func TestNewSnapshotNilGraph(t *testing.T) {
	s := NewSnapshot(nil, nil)
	if s.HasSchedule() || s.Graph() != nil {
		t.Error("nil graph snapshot should be empty")
	}
	if s.Debug() == nil {
		t.Error("nil debug context was not defaulted")
	}
}

func TestResolveBlock(t *testing.T) {
	g := ir.NewGraph("phis", nil)
	merge := g.Add(ir.MergeClass)
	phi := g.Add(ir.ValuePhiClass)
	chained := g.Add(ir.ValuePhiClass)
	cycA := g.Add(ir.ValuePhiClass)
	cycB := g.Add(ir.ValuePhiClass)
	loose := g.Add(ir.AddClass)
	must(t, phi.SetInput(ir.SlotPhiMerge, merge))
	must(t, chained.SetInput(ir.SlotPhiMerge, phi))
	must(t, cycA.SetInput(ir.SlotPhiMerge, cycB))
	must(t, cycB.SetInput(ir.SlotPhiMerge, cycA))

	b := ir.NewBlock(5)
	must(t, g.SetLastSchedule(ir.NewSchedule(g, []*ir.Block{b}, map[*ir.Block][]*ir.Node{b: {merge}})))
	late := g.Add(ir.AddClass)

	s := NewSnapshot(nil, g)
	tests := []struct {
		name string
		node *ir.Node
		want any
	}{
		{"Direct", merge, 5},
		{"PhiThroughMerge", phi, 5},
		{"ChainedOwners", chained, 5},
		{"OwnerCycle", cycA, "unscheduled"},
		{"NeverAssigned", loose, "unscheduled"},
		{"New", late, "unscheduled (new)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ResolveBlock(tt.node).Value(); got != tt.want {
				t.Errorf("ResolveBlock() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := NewSnapshot(nil, linear(t)).ResolveBlock(loose); got.State != Unscheduled {
		t.Errorf("ResolveBlock() without schedule = %v, want unscheduled", got)
	}
}

func TestCategorize(t *testing.T) {
	class := func(kind ir.Kind) *ir.NodeClass {
		return ir.MustNodeClass("test.Node", "N", kind, nil, nil, ir.Cost{})
	}
	tests := []struct {
		name  string
		class *ir.NodeClass
		want  Category
	}{
		{"Return", ir.ReturnClass, CategoryControlSink},
		{"If", ir.IfClass, CategoryControlSplit},
		{"Merge", ir.MergeClass, CategoryMerge},
		{"LoopBegin", ir.LoopBeginClass, CategoryMerge},
		{"Start", ir.StartClass, CategoryBegin},
		{"End", ir.EndClass, CategoryEnd},
		{"Invoke", ir.InvokeClass, CategoryFixed},
		{"FrameState", ir.FrameStateClass, CategoryState},
		{"Phi", ir.ValuePhiClass, CategoryPhi},
		{"Proxy", ir.ValueProxyClass, CategoryProxy},
		{"Add", ir.AddClass, CategoryFloating},
		{"Constant", ir.ConstantClass, CategoryFloating},
		{"SinkAndSplit", class(ir.KindControlSink | ir.KindControlSplit), CategoryControlSink},
		{"SplitAndMerge", class(ir.KindControlSplit | ir.KindMerge), CategoryControlSplit},
		{"FixedAndState", class(ir.KindFixed | ir.KindState), CategoryFixed},
		{"StateAndPhi", class(ir.KindState | ir.KindPhi), CategoryState},
		{"PhiAndProxy", class(ir.KindPhi | ir.KindProxy), CategoryPhi},
	}

	g := ir.NewGraph("categories", nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(g.Add(tt.class)); got != tt.want {
				t.Errorf("Categorize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveBlockProxy(t *testing.T) {
	g := ir.NewGraph("proxy", nil)
	start := g.Add(ir.StartClass)
	exit := g.Add(ir.BeginClass)
	value := g.Add(ir.ParameterClass)
	proxy := g.Add(ir.ValueProxyClass)
	must(t, proxy.SetInput(ir.SlotProxyValue, value))
	must(t, proxy.SetInput(ir.SlotLoopExit, exit))

	b0, b1 := ir.NewBlock(0), ir.NewBlock(1)
	b0.AddSuccessor(b1)
	sched := ir.NewSchedule(g, []*ir.Block{b0, b1}, map[*ir.Block][]*ir.Node{
		b0: {start, value},
		b1: {exit},
	})
	must(t, g.SetLastSchedule(sched))

	got := NewSnapshot(nil, g).ResolveBlock(proxy)
	if got.State != Scheduled || got.Block != b1 {
		t.Errorf("ResolveBlock(proxy) = %v, want block 1 of its loop exit", got)
	}
}
