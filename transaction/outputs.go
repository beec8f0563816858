package transaction

import (
	"github.com/veloxlabs/velox/core"
	"github.com/veloxlabs/velox/core/crypto"
	"github.com/veloxlabs/velox/core/felt"
)

// OutputNotes is the ordered set of notes a transaction creates.
type OutputNotes struct {
	Notes []core.Note `cbor:"1,keyasint"`
}

// NewOutputNotes validates count and uniqueness.
func NewOutputNotes(notes []core.Note) (OutputNotes, error) {
	if len(notes) > MaxOutputNotesPerTx {
		return OutputNotes{}, core.TooManyOutputNotesError{Max: MaxOutputNotesPerTx, Actual: len(notes)}
	}
	seen := make(map[core.NoteID]struct{}, len(notes))
	for i := range notes {
		id := notes[i].ID()
		if _, ok := seen[id]; ok {
			return OutputNotes{}, core.DuplicateOutputNoteError{NoteID: id}
		}
		seen[id] = struct{}{}
	}
	return OutputNotes{Notes: notes}, nil
}

// Commitment digests the created notes in order: per note its hash followed
// by its metadata word.
func (o *OutputNotes) Commitment() felt.Word {
	elems := make([]felt.Felt, 0, 2*felt.WordLen*len(o.Notes))
	for i := range o.Notes {
		hash := o.Notes[i].Hash()
		metadata := o.Notes[i].Metadata.Word()
		elems = append(elems, hash[:]...)
		elems = append(elems, metadata[:]...)
	}
	return crypto.HashElements(elems)
}

// VerifyCommitment checks a declared output-notes commitment against the
// actual notes.
func (o *OutputNotes) VerifyCommitment(declared felt.Word) error {
	actual := o.Commitment()
	if !actual.Equal(&declared) {
		return core.OutputNotesCommitmentMismatchError{Expected: declared, Actual: actual}
	}
	return nil
}
