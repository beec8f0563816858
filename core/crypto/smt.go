package crypto

import "sync"

// SmtDepth is the depth of the sparse Merkle trees used for asset issuance
// tracking. The reserved slot of a new non-fungible faucet must hold
// EmptySubtreeRoot(SmtDepth).
const SmtDepth = 64

var (
	emptySubtreeOnce  sync.Once
	emptySubtreeRoots [SmtDepth + 1]Digest
)

// EmptySubtreeRoot returns the root of an empty sparse Merkle subtree of the
// given height. Height 0 is the empty leaf (the zero word); each level above
// merges two copies of the level below. This package is the single source of
// the canonical empty-SMT digest; callers must not re-derive it.
func EmptySubtreeRoot(height uint8) Digest {
	emptySubtreeOnce.Do(func() {
		for h := 1; h <= SmtDepth; h++ {
			emptySubtreeRoots[h] = Merge(emptySubtreeRoots[h-1], emptySubtreeRoots[h-1])
		}
	})
	return emptySubtreeRoots[height]
}
