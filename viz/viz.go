// Package viz dumps a core's live pipeline and register state as a DOT
// graph for offline inspection, grounded directly on the teacher's own use
// of memviz in debugger/terminal/commandline/parser_test.go
// (memviz.Map(f, cmds), dumping a parsed command tree). Here it walks a
// Snapshot of the running core instead of a command tree.
package viz

import (
	"io"

	"github.com/bradleyjkemp/memviz"
)

// Snapshot is the subset of core.Core's state worth visualising: the
// architectural register file, a handful of key CSRs, and whether each
// pipeline register currently holds an entry. It is a plain value so packages that
// depend on core (like cmd/rv32sim) can build one without viz depending on
// core itself.
type Snapshot struct {
	PC   uint32
	GPRs [32]uint32

	MStatus uint32
	MEPC    uint32
	MCause  uint32
	MTVec   uint32

	DecodeValid  bool
	ExecuteValid bool
	MemoryValid  bool

	Cycles  uint64
	Instret uint64
	Halted  bool
}

// Dump writes s as a DOT graph to w, suitable for `dot -Tpng`.
func Dump(w io.Writer, s Snapshot) {
	memviz.Map(w, &s)
}
