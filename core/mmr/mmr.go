// Package mmr implements the chain history tracker: an append-only Merkle
// Mountain Range over block hashes. Peak maintenance mirrors binary-counter
// carry propagation, so the peak list always holds one root per set bit of
// the leaf count.
package mmr

import (
	"maps"

	"github.com/bits-and-blooms/bitset"

	"github.com/veloxlabs/velox/core"
	"github.com/veloxlabs/velox/core/crypto"
	"github.com/veloxlabs/velox/core/felt"
)

// Peak is one mountain root together with the height of its subtree.
type Peak struct {
	Height uint8     `cbor:"1,keyasint"`
	Root   felt.Word `cbor:"2,keyasint"`
}

// Mmr is the accumulator state: the ordered peak list (greatest height
// first), the leaf count, and the headers of tracked blocks. Appending never
// fails; consistency with a transaction's reference block is the validator's
// concern. The structure only ever grows.
type Mmr struct {
	peaks     []Peak
	numLeaves uint32
	tracked   *bitset.BitSet
	headers   map[uint32]*core.BlockHeader
}

func New() *Mmr {
	return &Mmr{
		tracked: bitset.New(0),
		headers: make(map[uint32]*core.BlockHeader),
	}
}

// AddBlock appends the block's hash as the next leaf and merges equal-height
// peaks left to right until the carry settles. When track is set, the header
// stays retrievable by block number.
func (m *Mmr) AddBlock(header *core.BlockHeader, track bool) {
	if track {
		m.headers[header.Number] = header
		m.tracked.Set(uint(header.Number))
	}

	m.peaks = append(m.peaks, Peak{Height: 0, Root: header.Hash()})
	for n := len(m.peaks); n >= 2 && m.peaks[n-1].Height == m.peaks[n-2].Height; n = len(m.peaks) {
		merged := Peak{
			Height: m.peaks[n-2].Height + 1,
			Root:   crypto.Merge(m.peaks[n-2].Root, m.peaks[n-1].Root),
		}
		m.peaks = append(m.peaks[:n-2], merged)
	}
	m.numLeaves++
}

// Track records the header of a block whose hash is already accumulated,
// making it available to note-origin checks.
func (m *Mmr) Track(header *core.BlockHeader) error {
	if header.Number >= m.numLeaves {
		return core.BlockNumTooBigError{ChainLength: m.numLeaves, BlockNum: header.Number}
	}
	if m.tracked.Test(uint(header.Number)) {
		return core.DuplicateBlockError{BlockNum: header.Number}
	}
	m.headers[header.Number] = header
	m.tracked.Set(uint(header.Number))
	return nil
}

// Peaks returns the mountain roots, greatest height first. The invariant
// len(Peaks()) == bits.OnesCount32(ChainLength()) holds after any sequence
// of appends.
func (m *Mmr) Peaks() []felt.Word {
	roots := make([]felt.Word, len(m.peaks))
	for i := range m.peaks {
		roots[i] = m.peaks[i].Root
	}
	return roots
}

// ChainLength returns the number of accumulated leaves.
func (m *Mmr) ChainLength() uint32 {
	return m.numLeaves
}

// PeaksCommitment returns the digest of the flattened peak roots. Block
// headers commit to it as their chain root.
func (m *Mmr) PeaksCommitment() felt.Word {
	elems := make([]felt.Felt, 0, felt.WordLen*len(m.peaks))
	for i := range m.peaks {
		elems = append(elems, m.peaks[i].Root[:]...)
	}
	return crypto.HashElements(elems)
}

// HasBlock reports whether the block is tracked.
func (m *Mmr) HasBlock(blockNum uint32) bool {
	return m.tracked.Test(uint(blockNum))
}

// HeaderByNumber returns the tracked header of the given block.
func (m *Mmr) HeaderByNumber(blockNum uint32) (*core.BlockHeader, error) {
	header, ok := m.headers[blockNum]
	if !ok {
		return nil, core.UntrackedBlockError{BlockNum: blockNum}
	}
	return header, nil
}

// Copy returns an independent clone. Builders extend the clone with the
// transaction's reference block instead of mutating shared chain state.
func (m *Mmr) Copy() *Mmr {
	clone := &Mmr{
		peaks:     make([]Peak, len(m.peaks)),
		numLeaves: m.numLeaves,
		tracked:   m.tracked.Clone(),
		headers:   make(map[uint32]*core.BlockHeader, len(m.headers)),
	}
	copy(clone.peaks, m.peaks)
	maps.Copy(clone.headers, m.headers)
	return clone
}

// Snapshot is the transportable form of the accumulator.
type Snapshot struct {
	Peaks     []Peak              `cbor:"1,keyasint"`
	NumLeaves uint32              `cbor:"2,keyasint"`
	Headers   []*core.BlockHeader `cbor:"3,keyasint"`
}

// Snapshot extracts the transportable state.
func (m *Mmr) Snapshot() *Snapshot {
	snap := &Snapshot{
		Peaks:     make([]Peak, len(m.peaks)),
		NumLeaves: m.numLeaves,
	}
	copy(snap.Peaks, m.peaks)
	for _, num := range m.trackedNumbers() {
		snap.Headers = append(snap.Headers, m.headers[num])
	}
	return snap
}

// FromSnapshot rebuilds an accumulator from its transportable form,
// re-validating every tracked header.
func FromSnapshot(snap *Snapshot) (*Mmr, error) {
	m := &Mmr{
		peaks:     make([]Peak, len(snap.Peaks)),
		numLeaves: snap.NumLeaves,
		tracked:   bitset.New(uint(snap.NumLeaves)),
		headers:   make(map[uint32]*core.BlockHeader, len(snap.Headers)),
	}
	copy(m.peaks, snap.Peaks)
	for _, header := range snap.Headers {
		if err := m.Track(header); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Mmr) trackedNumbers() []uint32 {
	nums := make([]uint32, 0, len(m.headers))
	for num, ok := m.tracked.NextSet(0); ok; num, ok = m.tracked.NextSet(num + 1) {
		nums = append(nums, uint32(num))
	}
	return nums
}
