package core

import (
	"github.com/veloxlabs/velox/core/crypto"
	"github.com/veloxlabs/velox/core/felt"
)

const (
	// MaxNoteInputs is the maximum number of inputs a note script receives.
	MaxNoteInputs = 16
	// MaxNoteAssets is the maximum number of assets a note may carry.
	MaxNoteAssets = 1000
)

// NoteID is the note hash, the public identity of a note. Transaction
// arguments are keyed by it.
type NoteID felt.Word

type NoteType uint8

const (
	NoteTypePublic NoteType = iota + 1
	NoteTypePrivate
	NoteTypeEncrypted
)

// NewNoteType validates a raw note type value read from the wire.
func NewNoteType(v uint64) (NoteType, error) {
	switch t := NoteType(v); t {
	case NoteTypePublic, NoteTypePrivate, NoteTypeEncrypted:
		return t, nil
	default:
		return 0, InvalidNoteTypeValueError{Value: v}
	}
}

func (t NoteType) String() string {
	switch t {
	case NoteTypePublic:
		return "public"
	case NoteTypePrivate:
		return "private"
	case NoteTypeEncrypted:
		return "encrypted"
	default:
		return "unknown"
	}
}

// NoteTag routes a note to its consumer. The two most significant bits
// select the execution target; 0b00 targets network execution.
type NoteTag uint32

const networkExecutionTagBits = 0

func (t NoteTag) targetsNetworkExecution() bool {
	return t>>30 == networkExecutionTagBits
}

// NoteMetadata describes a note to the chain: who created it, how it may be
// consumed and an auxiliary user value. It occupies one word of the memory
// image.
type NoteMetadata struct {
	Sender AccountID `cbor:"1,keyasint"`
	Type   NoteType  `cbor:"2,keyasint"`
	Tag    NoteTag   `cbor:"3,keyasint"`
	Aux    felt.Felt `cbor:"4,keyasint"`
}

// NewNoteMetadata validates the type/tag combination.
func NewNoteMetadata(sender AccountID, typ NoteType, tag NoteTag, aux felt.Felt) (NoteMetadata, error) {
	if _, err := NewNoteType(uint64(typ)); err != nil {
		return NoteMetadata{}, err
	}
	if tag.targetsNetworkExecution() && typ != NoteTypePublic {
		return NoteMetadata{}, NetworkExecutionRequiresPublicNoteError{Type: typ}
	}
	return NoteMetadata{Sender: sender, Type: typ, Tag: tag, Aux: aux}, nil
}

// Word returns the memory form [sender, type, tag, aux].
func (m *NoteMetadata) Word() felt.Word {
	return felt.Word{
		m.Sender.Felt(),
		felt.FromUint64(uint64(m.Type)),
		felt.FromUint64(uint64(m.Tag)),
		m.Aux,
	}
}

// Note transfers assets between accounts. The script root locks the assets,
// the inputs parameterise the script, and the serial number breaks the link
// between the note hash and the nullifier.
type Note struct {
	ScriptRoot felt.Word    `cbor:"1,keyasint"`
	Inputs     []felt.Felt  `cbor:"2,keyasint"`
	Assets     []Asset      `cbor:"3,keyasint"`
	SerialNum  felt.Word    `cbor:"4,keyasint"`
	Metadata   NoteMetadata `cbor:"5,keyasint"`
}

// NewNote validates and builds a note.
func NewNote(scriptRoot felt.Word, inputs []felt.Felt, assets []Asset,
	serialNum felt.Word, metadata NoteMetadata,
) (Note, error) {
	if len(inputs) > MaxNoteInputs {
		return Note{}, TooManyInputsError{Actual: len(inputs)}
	}
	if len(assets) > MaxNoteAssets {
		return Note{}, TooManyAssetsError{Actual: len(assets)}
	}
	if err := validateAssets(assets); err != nil {
		return Note{}, err
	}
	return Note{
		ScriptRoot: scriptRoot,
		Inputs:     inputs,
		Assets:     assets,
		SerialNum:  serialNum,
		Metadata:   metadata,
	}, nil
}

// InputsCommitment returns the digest of the note inputs.
func (n *Note) InputsCommitment() felt.Word {
	return crypto.HashElements(n.Inputs)
}

// AssetsCommitment returns the digest of the note's assets, one word each.
func (n *Note) AssetsCommitment() felt.Word {
	return crypto.HashElements(assetElements(n.Assets))
}

// Recipient commits to everything needed to consume the note except its
// assets: merge(merge(merge(serial_num, 0), script_root), inputs_commitment).
// Whoever knows the recipient can compute the note hash from the assets
// alone, without learning the serial number.
func (n *Note) Recipient() felt.Word {
	serialNumHash := crypto.Merge(n.SerialNum, felt.ZeroWord)
	withScript := crypto.Merge(serialNumHash, n.ScriptRoot)
	return crypto.Merge(withScript, n.InputsCommitment())
}

// Hash returns the note commitment: merge(recipient, assets_commitment).
func (n *Note) Hash() felt.Word {
	return crypto.Merge(n.Recipient(), n.AssetsCommitment())
}

// ID returns the note hash as the note's identity.
func (n *Note) ID() NoteID {
	return NoteID(n.Hash())
}

// Nullifier is the one-way spend marker of the note, the flat digest of
// serial_num ‖ script_root ‖ inputs_commitment ‖ assets_commitment
// (16 elements). It shares no hashing structure with the note hash, so
// publishing it reveals nothing about which note was spent.
func (n *Note) Nullifier() felt.Word {
	inputsCommitment := n.InputsCommitment()
	assetsCommitment := n.AssetsCommitment()

	elems := make([]felt.Felt, 0, 4*felt.WordLen)
	elems = append(elems, n.SerialNum[:]...)
	elems = append(elems, n.ScriptRoot[:]...)
	elems = append(elems, inputsCommitment[:]...)
	elems = append(elems, assetsCommitment[:]...)
	return crypto.HashElements(elems)
}
