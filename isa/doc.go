// Package isa defines the closed enumerations and inter-stage data records
// shared by the pipeline stages. A Microop is produced by the decoder and
// consumed by Execute; an ExecResult is produced by Execute and consumed by
// Memory; a MemResult is produced by Memory and consumed by Writeback. None
// of these types carry behaviour of their own beyond small helpers:
// String() conveniences for disassembly and debug output, MemWidth.Bytes
// and OpType.IsCSR.
package isa
