package dump

import (
	"fmt"

	"github.com/matzehuels/irdump/pkg/ir"
	"github.com/matzehuels/irdump/pkg/observability"
)

// Snapshot pairs a graph with the schedule that was current for it when the
// snapshot was taken. The schedule is absent when none exists and none could
// be computed.
type Snapshot struct {
	dc       *DebugContext
	graph    *ir.Graph
	schedule *ir.Schedule
}

// NewSnapshot takes a snapshot of g. If g's last schedule belongs to g it is
// used as is. Otherwise, when dc requests scheduling on dump or is reporting
// an error, a schedule is computed. A failed or panicking schedule
// computation is logged and leaves the snapshot unscheduled; NewSnapshot
// never fails.
func NewSnapshot(dc *DebugContext, g *ir.Graph) *Snapshot {
	dc = orDefault(dc)
	s := &Snapshot{dc: dc, graph: g}
	if g == nil {
		return s
	}
	if sched := g.LastSchedule(); sched != nil && sched.Graph() == g {
		s.schedule = sched
		return s
	}
	if !dc.Options().ScheduleOnDump && dc.ReportingError() == nil {
		return s
	}

	_, err := guard(func() (struct{}, error) { return struct{}{}, dc.Scheduler().Apply(g) })
	if err != nil {
		dc.Logger().Debug("schedule failed", "graph", g.Name(), "error", err)
		observability.Export().OnScheduleFailed(dc.Context(), g.Name(), err)
		return s
	}
	if sched := g.LastSchedule(); sched != nil && sched.Graph() == g {
		s.schedule = sched
	}
	return s
}

func (s *Snapshot) Graph() *ir.Graph       { return s.graph }
func (s *Snapshot) Debug() *DebugContext   { return s.dc }
func (s *Snapshot) HasSchedule() bool      { return s.schedule != nil }
func (s *Snapshot) Schedule() *ir.Schedule { return s.schedule }

// Blocks returns the scheduled blocks, or nil without a schedule.
func (s *Snapshot) Blocks() []*ir.Block {
	if s.schedule == nil {
		return nil
	}
	return s.schedule.Blocks()
}

// BlockFor returns the block n is scheduled in, or nil.
func (s *Snapshot) BlockFor(n *ir.Node) *ir.Block {
	if s.schedule == nil {
		return nil
	}
	return s.schedule.BlockFor(n)
}

// NodesOf returns the nodes scheduled in b.
func (s *Snapshot) NodesOf(b *ir.Block) []*ir.Node {
	if s.schedule == nil {
		return nil
	}
	return s.schedule.NodesOf(b)
}

// IsNew reports whether n was created after the schedule was computed.
func (s *Snapshot) IsNew(n *ir.Node) bool {
	return s.schedule != nil && s.schedule.IsNew(n)
}

// BlockState classifies a node's block assignment.
type BlockState int

const (
	// Unscheduled nodes have no block, not even through their merge.
	Unscheduled BlockState = iota
	// UnscheduledNew nodes were added after the schedule was computed.
	UnscheduledNew
	// Scheduled nodes have a block.
	Scheduled
)

// BlockAssignment is the result of [Snapshot.ResolveBlock].
type BlockAssignment struct {
	State BlockState
	Block *ir.Block
}

// Value returns the exported form: the block id, "unscheduled (new)" or
// "unscheduled".
func (a BlockAssignment) Value() any {
	switch a.State {
	case Scheduled:
		return a.Block.ID()
	case UnscheduledNew:
		return "unscheduled (new)"
	}
	return "unscheduled"
}

func (a BlockAssignment) String() string { return fmt.Sprint(a.Value()) }

// ResolveBlock finds the block of n. Phis and proxies without a block of
// their own resolve through their owner (see [ir.Node.Merge]), repeatedly.
// A cycle of such owners ends the search as unscheduled.
func (s *Snapshot) ResolveBlock(n *ir.Node) BlockAssignment {
	if s.schedule == nil {
		return BlockAssignment{}
	}
	visited := make(map[*ir.Node]bool)
	for cur := n; cur != nil && !visited[cur]; cur = cur.Merge() {
		visited[cur] = true
		if s.schedule.IsNew(cur) {
			return BlockAssignment{State: UnscheduledNew}
		}
		if b := s.schedule.BlockFor(cur); b != nil {
			return BlockAssignment{State: Scheduled, Block: b}
		}
	}
	return BlockAssignment{}
}
