package isa

// ExecResult is produced by Execute and consumed by Memory (spec section 3).
type ExecResult struct {
	OpType OpType
	Rd     uint8

	GprWrite  bool
	GprResult uint32

	CsrAddr  uint16
	CsrWrite bool
	CsrData  uint32

	MemAddress  uint32
	MemWidth    MemWidth
	MemUnsigned bool
	StoreData   uint32
	IsStore     bool

	PC uint32

	// RawWord and trap classification carried through for Writeback's
	// trap-commit state machine.
	RawWord   uint32
	IsInvalid bool
	IsEcall   bool
}

// MemResult is produced by Memory and consumed by Writeback (spec section 3).
type MemResult struct {
	OpType OpType
	Rd     uint8

	GprWrite bool
	GprData  uint32

	CsrAddr  uint16
	CsrWrite bool
	CsrData  uint32

	PC uint32

	IsStore   bool
	StoreAddr uint32

	InstructionBits uint32

	IsInvalid      bool
	IsEcall        bool
	IsMemFault     bool
	MemFaultIsLoad bool
	FaultAddress   uint32
}

// BranchFeedback is the record shape of Execute's back-channel to Fetch
// (spec section 4.G). The core package carries that feedback in its own
// unexported redirect type and does not use this one.
type BranchFeedback struct {
	Valid  bool
	Target uint32
}

// HazardInfo is broadcast by a stage to the hazard unit: the register it is
// about to (or already did) write, and whether it is a real write.
type HazardInfo struct {
	Rd       uint8
	RegWrite bool
}

// CsrHazardInfo is the CSR analogue of HazardInfo.
type CsrHazardInfo struct {
	CsrAddr uint16
	IsWrite bool
}
