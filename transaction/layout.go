package transaction

// Layout is the pointer-constant table of the memory image protocol: every
// named region the proving VM reads, as word addresses. It is a frozen
// configuration object injected into the builder; changing any offset is a
// breaking protocol change and bumps Version independently of kernel logic.
type Layout struct {
	Version uint32

	// Global inputs
	BlockHashPtr            uint32
	AcctIDPtr               uint32
	InitAcctHashPtr         uint32
	InputNotesCommitmentPtr uint32
	InitNoncePtr            uint32
	TxScriptRootPtr         uint32

	// Block data
	PrevBlockHashPtr   uint32
	ChainRootPtr       uint32
	AcctDBRootPtr      uint32
	NullifierDBRootPtr uint32
	TxHashPtr          uint32
	KernelRootPtr      uint32
	ProofHashPtr       uint32
	BlockMetadataPtr   uint32
	NoteRootPtr        uint32

	// Element indices inside the block metadata word
	BlockNumberIdx     int
	ProtocolVersionIdx int
	TimestampIdx       int

	// Chain data
	ChainNumLeavesPtr uint32
	ChainPeaksPtr     uint32

	// Account data
	AcctIDAndNoncePtr        uint32
	AcctVaultRootPtr         uint32
	AcctStorageCommitmentPtr uint32
	AcctCodeCommitmentPtr    uint32
	NumStorageSlotsPtr       uint32
	StorageSlotsSectionPtr   uint32
	NumProceduresPtr         uint32
	ProceduresSectionPtr     uint32

	// Input notes data
	InputNoteSectionPtr uint32
	InputNoteStride     uint32

	// Word offsets inside one note's sub-region
	NoteIDOffset               uint32
	NoteSerialNumOffset        uint32
	NoteScriptRootOffset       uint32
	NoteInputsCommitmentOffset uint32
	NoteAssetsCommitmentOffset uint32
	NoteMetadataOffset         uint32
	NoteArgsOffset             uint32
	NoteNumAssetsOffset        uint32
	NoteAssetsOffset           uint32
}

// LayoutV1 is version 1 of the memory image protocol.
var LayoutV1 = Layout{
	Version: 1,

	BlockHashPtr:            0,
	AcctIDPtr:               1,
	InitAcctHashPtr:         2,
	InputNotesCommitmentPtr: 3,
	InitNoncePtr:            4,
	TxScriptRootPtr:         5,

	PrevBlockHashPtr:   100,
	ChainRootPtr:       101,
	AcctDBRootPtr:      102,
	NullifierDBRootPtr: 103,
	TxHashPtr:          104,
	KernelRootPtr:      105,
	ProofHashPtr:       106,
	BlockMetadataPtr:   107,
	NoteRootPtr:        108,

	BlockNumberIdx:     0,
	ProtocolVersionIdx: 1,
	TimestampIdx:       2,

	ChainNumLeavesPtr: 200,
	ChainPeaksPtr:     201,

	AcctIDAndNoncePtr:        400,
	AcctVaultRootPtr:         401,
	AcctStorageCommitmentPtr: 402,
	AcctCodeCommitmentPtr:    403,
	NumStorageSlotsPtr:       404,
	StorageSlotsSectionPtr:   500,
	NumProceduresPtr:         1100,
	ProceduresSectionPtr:     1101,

	InputNoteSectionPtr: 4000,
	InputNoteStride:     1024,

	NoteIDOffset:               0,
	NoteSerialNumOffset:        1,
	NoteScriptRootOffset:       2,
	NoteInputsCommitmentOffset: 3,
	NoteAssetsCommitmentOffset: 4,
	NoteMetadataOffset:         5,
	NoteArgsOffset:             6,
	NoteNumAssetsOffset:        7,
	NoteAssetsOffset:           8,
}

// NoteDataPtr returns the base address of the i-th input note's sub-region.
// The nullifier table occupies the first stride, so note data starts one
// stride in.
func (l *Layout) NoteDataPtr(i uint32) uint32 {
	return l.InputNoteSectionPtr + (i+1)*l.InputNoteStride
}
