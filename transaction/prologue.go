package transaction

import (
	"github.com/veloxlabs/velox/core"
	"github.com/veloxlabs/velox/core/felt"
	"github.com/veloxlabs/velox/utils"
)

// Prologue builds the memory image a transaction executes against. It is the
// single point where externally supplied data is authenticated before any
// user logic runs: validation must pass before the first word is written,
// and the resulting image follows the injected layout exactly.
//
// A Prologue is stateless across transactions and safe to share between
// workers; each Prepare call works on its own snapshot and fresh image.
type Prologue struct {
	layout Layout
	log    utils.SimpleLogger
}

func NewPrologue(layout Layout, log utils.SimpleLogger) *Prologue {
	return &Prologue{layout: layout, log: log}
}

// Prepare authenticates the inputs and populates a fresh image: global
// inputs, block data, chain data (with the reference block appended to a
// local copy of the chain), account data, and one sub-region per input note
// in the caller-supplied order.
func (p *Prologue) Prepare(inputs *TransactionInputs, args *TransactionArgs) (*Image, error) {
	if err := Validate(inputs); err != nil {
		return nil, err
	}

	nullifiers := noteNullifiers(inputs.InputNotes)
	notesCommitment := nullifiersCommitment(nullifiers)

	img := NewImage()
	p.writeGlobalInputs(img, inputs, args, notesCommitment)
	p.writeBlockData(img, &inputs.BlockHeader)
	p.writeChainData(img, inputs)
	p.writeAccountData(img, &inputs.Account)
	p.writeInputNotes(img, inputs, args, nullifiers)

	p.log.Debugw("prepared transaction memory image",
		"layoutVersion", p.layout.Version,
		"account", inputs.Account.ID,
		"block", inputs.BlockHeader.Number,
		"inputNotes", len(inputs.InputNotes),
		"words", img.Size(),
	)
	return img, nil
}

func (p *Prologue) writeGlobalInputs(img *Image, inputs *TransactionInputs,
	args *TransactionArgs, notesCommitment felt.Word,
) {
	l := &p.layout
	img.SetWord(l.BlockHashPtr, inputs.BlockHeader.Hash())
	img.SetWord(l.AcctIDPtr, felt.Word{inputs.Account.ID.Felt()})
	img.SetWord(l.InitAcctHashPtr, inputs.Account.Hash())
	img.SetWord(l.InputNotesCommitmentPtr, notesCommitment)
	img.SetWord(l.InitNoncePtr, felt.Word{inputs.Account.Nonce})
	img.SetWord(l.TxScriptRootPtr, args.ScriptRoot())
}

func (p *Prologue) writeBlockData(img *Image, header *core.BlockHeader) {
	l := &p.layout
	img.SetWord(l.PrevBlockHashPtr, header.PrevHash)
	img.SetWord(l.ChainRootPtr, header.ChainRoot)
	img.SetWord(l.AcctDBRootPtr, header.AccountRoot)
	img.SetWord(l.NullifierDBRootPtr, header.NullifierRoot)
	img.SetWord(l.TxHashPtr, header.TxHash)
	img.SetWord(l.KernelRootPtr, header.KernelRoot)
	img.SetWord(l.ProofHashPtr, header.ProofHash)

	var metadata felt.Word
	metadata[l.BlockNumberIdx] = felt.FromUint64(uint64(header.Number))
	metadata[l.ProtocolVersionIdx] = felt.FromUint64(uint64(header.Version))
	metadata[l.TimestampIdx] = felt.FromUint64(uint64(header.Timestamp))
	img.SetWord(l.BlockMetadataPtr, metadata)

	img.SetWord(l.NoteRootPtr, header.NoteRoot)
}

// writeChainData extends a local copy of the chain with the reference block,
// so the leaf count and peaks the VM sees include the block being executed
// against. Shared chain state is never mutated.
func (p *Prologue) writeChainData(img *Image, inputs *TransactionInputs) {
	l := &p.layout
	chain := inputs.Chain.Copy()
	chain.AddBlock(&inputs.BlockHeader, true)

	img.SetWord(l.ChainNumLeavesPtr, felt.Word{felt.FromUint64(uint64(chain.ChainLength()))})
	for i, peak := range chain.Peaks() {
		img.SetWord(l.ChainPeaksPtr+uint32(i), peak)
	}
}

func (p *Prologue) writeAccountData(img *Image, account *core.Account) {
	l := &p.layout
	img.SetWord(l.AcctIDAndNoncePtr, account.IDAndNonce())
	img.SetWord(l.AcctVaultRootPtr, account.VaultRoot)
	img.SetWord(l.AcctStorageCommitmentPtr, account.Storage.Commitment())
	img.SetWord(l.AcctCodeCommitmentPtr, account.Code.Commitment())

	img.SetWord(l.NumStorageSlotsPtr, felt.Word{felt.FromUint64(uint64(len(account.Storage.Slots)))})
	writeElements(img, l.StorageSlotsSectionPtr, account.Storage.Elements())

	img.SetWord(l.NumProceduresPtr, felt.Word{felt.FromUint64(uint64(len(account.Code.Procedures)))})
	writeElements(img, l.ProceduresSectionPtr, account.Code.Elements())
}

func (p *Prologue) writeInputNotes(img *Image, inputs *TransactionInputs,
	args *TransactionArgs, nullifiers []felt.Word,
) {
	l := &p.layout
	img.SetWord(l.InputNoteSectionPtr, felt.Word{felt.FromUint64(uint64(len(inputs.InputNotes)))})

	for i := range nullifiers {
		img.SetWord(l.InputNoteSectionPtr+1+uint32(i), nullifiers[i])
	}

	for i := range inputs.InputNotes {
		note := &inputs.InputNotes[i].Note
		base := l.NoteDataPtr(uint32(i))

		img.SetWord(base+l.NoteIDOffset, felt.Word(note.ID()))
		img.SetWord(base+l.NoteSerialNumOffset, note.SerialNum)
		img.SetWord(base+l.NoteScriptRootOffset, note.ScriptRoot)
		img.SetWord(base+l.NoteInputsCommitmentOffset, note.InputsCommitment())
		img.SetWord(base+l.NoteAssetsCommitmentOffset, note.AssetsCommitment())
		img.SetWord(base+l.NoteMetadataOffset, note.Metadata.Word())
		img.SetWord(base+l.NoteArgsOffset, args.ArgsForNote(note.ID()))
		img.SetWord(base+l.NoteNumAssetsOffset, felt.Word{felt.FromUint64(uint64(len(note.Assets)))})
		for j := range note.Assets {
			img.SetWord(base+l.NoteAssetsOffset+uint32(j), note.Assets[j].Word())
		}
	}
}

// writeElements packs a flat element list into consecutive words.
func writeElements(img *Image, base uint32, elems []felt.Felt) {
	for i := 0; i < len(elems); i += felt.WordLen {
		var w felt.Word
		copy(w[:], elems[i:i+felt.WordLen])
		img.SetWord(base+uint32(i/felt.WordLen), w)
	}
}
