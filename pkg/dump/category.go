package dump

import "github.com/matzehuels/irdump/pkg/ir"

// Category is the structural role of a node as shown by viewers.
type Category string

const (
	CategoryControlSink  Category = "control-sink"
	CategoryControlSplit Category = "control-split"
	CategoryMerge        Category = "merge"
	CategoryBegin        Category = "begin"
	CategoryEnd          Category = "end"
	CategoryFixed        Category = "fixed"
	CategoryState        Category = "state"
	CategoryPhi          Category = "phi"
	CategoryProxy        Category = "proxy"
	CategoryFloating     Category = "floating"
)

// categoryOrder lists categories by precedence; the first matching kind wins.
var categoryOrder = []struct {
	kind ir.Kind
	cat  Category
}{
	{ir.KindControlSink, CategoryControlSink},
	{ir.KindControlSplit, CategoryControlSplit},
	{ir.KindMerge, CategoryMerge},
	{ir.KindBegin, CategoryBegin},
	{ir.KindEnd, CategoryEnd},
	{ir.KindFixed, CategoryFixed},
	{ir.KindState, CategoryState},
	{ir.KindPhi, CategoryPhi},
	{ir.KindProxy, CategoryProxy},
}

// Categorize returns the category of n. Every node has exactly one.
func Categorize(n *ir.Node) Category {
	for _, c := range categoryOrder {
		if n.Is(c.kind) {
			return c.cat
		}
	}
	return CategoryFloating
}
