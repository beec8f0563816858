package core

import (
	"github.com/veloxlabs/velox/core/crypto"
	"github.com/veloxlabs/velox/core/felt"
)

// BlockHeader is an immutable chain block header. All commitment roots are
// words; number, version and timestamp share one metadata word in the memory
// image.
type BlockHeader struct {
	// The hash of the previous block
	PrevHash felt.Word `cbor:"1,keyasint"`
	// Commitment to the chain MMR peaks over blocks [0, Number)
	ChainRoot felt.Word `cbor:"2,keyasint"`
	// Root of the account database after this block
	AccountRoot felt.Word `cbor:"3,keyasint"`
	// Root of the nullifier database after this block
	NullifierRoot felt.Word `cbor:"4,keyasint"`
	// Commitment to the notes created in this block
	NoteRoot felt.Word `cbor:"5,keyasint"`
	// Commitment to the transactions in this block
	TxHash felt.Word `cbor:"6,keyasint"`
	// Commitment to the kernel under which the block was processed
	KernelRoot felt.Word `cbor:"7,keyasint"`
	// Hash of the block's aggregated execution proof
	ProofHash felt.Word `cbor:"8,keyasint"`
	// The number (height) of this block
	Number uint32 `cbor:"9,keyasint"`
	// The protocol version under which the block was created
	Version uint32 `cbor:"10,keyasint"`
	// Unix timestamp of block creation
	Timestamp uint32 `cbor:"11,keyasint"`
}

// Metadata returns the packed [number, version, timestamp, 0] word.
func (h *BlockHeader) Metadata() felt.Word {
	return felt.NewWordFromUint64(uint64(h.Number), uint64(h.Version), uint64(h.Timestamp), 0)
}

// Hash returns the block commitment: the digest of every header field, roots
// in declaration order followed by the metadata word.
func (h *BlockHeader) Hash() felt.Word {
	elems := make([]felt.Felt, 0, 9*felt.WordLen)
	elems = append(elems, h.PrevHash[:]...)
	elems = append(elems, h.ChainRoot[:]...)
	elems = append(elems, h.AccountRoot[:]...)
	elems = append(elems, h.NullifierRoot[:]...)
	elems = append(elems, h.NoteRoot[:]...)
	elems = append(elems, h.TxHash[:]...)
	elems = append(elems, h.KernelRoot[:]...)
	elems = append(elems, h.ProofHash[:]...)
	metadata := h.Metadata()
	elems = append(elems, metadata[:]...)
	return crypto.HashElements(elems)
}
