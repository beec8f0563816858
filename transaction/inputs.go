package transaction

import (
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc"

	"github.com/veloxlabs/velox/core"
	"github.com/veloxlabs/velox/core/crypto"
	"github.com/veloxlabs/velox/core/felt"
	"github.com/veloxlabs/velox/core/mmr"
	"github.com/veloxlabs/velox/encoder"
)

// MaxInputNotesPerTx is the maximum number of notes one transaction may
// consume.
const MaxInputNotesPerTx = 1023

// MaxOutputNotesPerTx is the maximum number of notes one transaction may
// create.
const MaxOutputNotesPerTx = 4096

// InputNote is a note to be consumed, together with the number of the block
// that created it. The origin block must be tracked by the chain snapshot.
type InputNote struct {
	Note     core.Note `cbor:"1,keyasint"`
	BlockNum uint32    `cbor:"2,keyasint"`
}

// TransactionInputs is the immutable snapshot a transaction executes
// against: the account state, the reference block, a chain view that makes
// the reference block and every note's origin block reachable, and the notes
// to consume in execution order. AccountSeed is present exactly when the
// account is new.
type TransactionInputs struct {
	Account     core.Account     `cbor:"1,keyasint"`
	AccountSeed *felt.Word       `cbor:"2,keyasint,omitempty"`
	BlockHeader core.BlockHeader `cbor:"3,keyasint"`
	Chain       *mmr.Mmr         `cbor:"-"`
	InputNotes  []InputNote      `cbor:"4,keyasint"`
}

// transactionInputsWire carries the CBOR form; the chain accumulator
// travels as its snapshot.
type transactionInputsWire struct {
	Account     core.Account     `cbor:"1,keyasint"`
	AccountSeed *felt.Word       `cbor:"2,keyasint,omitempty"`
	BlockHeader core.BlockHeader `cbor:"3,keyasint"`
	InputNotes  []InputNote      `cbor:"4,keyasint"`
	Chain       *mmr.Snapshot    `cbor:"5,keyasint"`
}

// MarshalBinary encodes the snapshot for handoff to a worker.
func (t *TransactionInputs) MarshalBinary() ([]byte, error) {
	return encoder.Marshal(&transactionInputsWire{
		Account:     t.Account,
		AccountSeed: t.AccountSeed,
		BlockHeader: t.BlockHeader,
		InputNotes:  t.InputNotes,
		Chain:       t.Chain.Snapshot(),
	})
}

// UnmarshalBinary decodes a snapshot produced by MarshalBinary.
func (t *TransactionInputs) UnmarshalBinary(data []byte) error {
	var wire transactionInputsWire
	if err := encoder.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(err, "decode transaction inputs")
	}
	chain, err := mmr.FromSnapshot(wire.Chain)
	if err != nil {
		return errors.Wrap(err, "rebuild chain snapshot")
	}
	t.Account = wire.Account
	t.AccountSeed = wire.AccountSeed
	t.BlockHeader = wire.BlockHeader
	t.InputNotes = wire.InputNotes
	t.Chain = chain
	return nil
}

// TransactionArgs carries the caller-controlled execution parameters: an
// optional transaction script root and per-note argument words keyed by note
// ID.
type TransactionArgs struct {
	TxScriptRoot *felt.Word
	NoteArgs     map[core.NoteID]felt.Word
}

// ArgsForNote returns the caller-supplied args for the note, or the zero
// word when none were supplied.
func (a *TransactionArgs) ArgsForNote(id core.NoteID) felt.Word {
	if a == nil {
		return felt.ZeroWord
	}
	return a.NoteArgs[id]
}

// ScriptRoot returns the transaction script root, or the zero word when the
// transaction runs without a script.
func (a *TransactionArgs) ScriptRoot() felt.Word {
	if a == nil || a.TxScriptRoot == nil {
		return felt.ZeroWord
	}
	return *a.TxScriptRoot
}

// noteNullifiers computes every input note's nullifier, preserving the
// caller-supplied order. Notes are independent, so the per-note work fans
// out.
func noteNullifiers(notes []InputNote) []felt.Word {
	nullifiers := make([]felt.Word, len(notes))
	wg := conc.NewWaitGroup()
	for i := range notes {
		wg.Go(func() {
			nullifiers[i] = notes[i].Note.Nullifier()
		})
	}
	wg.Wait()
	return nullifiers
}

// InputNotesCommitment commits to the consumed notes and their order: the
// digest of the nullifier sequence exactly as supplied.
func InputNotesCommitment(notes []InputNote) felt.Word {
	return nullifiersCommitment(noteNullifiers(notes))
}

func nullifiersCommitment(nullifiers []felt.Word) felt.Word {
	elems := make([]felt.Felt, 0, felt.WordLen*len(nullifiers))
	for i := range nullifiers {
		elems = append(elems, nullifiers[i][:]...)
	}
	return crypto.HashElements(elems)
}
