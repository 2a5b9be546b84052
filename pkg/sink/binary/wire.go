package binary

import (
	"fmt"

	"github.com/matzehuels/irdump/pkg/printer"
)

const (
	magic   = "IRDG"
	version = 1
)

type tag uint8

const (
	tagBeginGroup tag = iota + 1
	tagEndGroup
	tagOpenGraph
	tagNode
	tagBlock
	tagCloseGraph
)

func (t tag) String() string {
	switch t {
	case tagBeginGroup:
		return "begin-group"
	case tagEndGroup:
		return "end-group"
	case tagOpenGraph:
		return "open-graph"
	case tagNode:
		return "node"
	case tagBlock:
		return "block"
	case tagCloseGraph:
		return "close-graph"
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

type valueKind uint8

const (
	kindNull valueKind = iota
	kindInt
	kindDouble
	kindString
	kindBool
	kindEnum
	kindNode
	kindClass
	kindSignature
	kindMethod
	kindField
	kindPosition
	kindList
	kindGraph
)

// wireValue is the tagged form of a printer.Value. Only the field selected
// by Kind is set.
type wireValue struct {
	Kind      valueKind             `msgpack:"k"`
	Int       int64                 `msgpack:"i,omitempty"`
	Double    float64               `msgpack:"d,omitempty"`
	String    string                `msgpack:"s,omitempty"`
	Bool      bool                  `msgpack:"b,omitempty"`
	Enum      *printer.Enum         `msgpack:"e,omitempty"`
	Signature *printer.SignatureRef `msgpack:"sig,omitempty"`
	Method    *printer.MethodRef    `msgpack:"m,omitempty"`
	Field     *printer.FieldRef     `msgpack:"f,omitempty"`
	Position  *printer.PositionRef  `msgpack:"p,omitempty"`
	List      []wireValue           `msgpack:"l,omitempty"`
	Graph     *wireGraph            `msgpack:"g,omitempty"`
}

type wireProperty struct {
	Key   string    `msgpack:"k"`
	Value wireValue `msgpack:"v"`
}

// wireClass refers to the class pool. Record is sent the first time a class
// appears in the stream; later occurrences carry the id only.
type wireClass struct {
	ID     int                  `msgpack:"id"`
	Record *printer.ClassRecord `msgpack:"c,omitempty"`
}

type wireNode struct {
	ID             int                  `msgpack:"id"`
	Class          wireClass            `msgpack:"class"`
	HasPredecessor bool                 `msgpack:"pred,omitempty"`
	Props          []wireProperty       `msgpack:"props,omitempty"`
	Inputs         []printer.EdgeRecord `msgpack:"in,omitempty"`
	Successors     []printer.EdgeRecord `msgpack:"succ,omitempty"`
}

type wireGraph struct {
	Title  string                `msgpack:"title"`
	Props  []wireProperty        `msgpack:"props,omitempty"`
	Nodes  []wireNode            `msgpack:"nodes,omitempty"`
	Blocks []printer.BlockRecord `msgpack:"blocks,omitempty"`
}

type wireGroup struct {
	Name      string         `msgpack:"name"`
	ShortName string         `msgpack:"short"`
	Method    wireValue      `msgpack:"method"`
	BCI       int            `msgpack:"bci"`
	Props     []wireProperty `msgpack:"props,omitempty"`
}
