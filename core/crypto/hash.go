package crypto

import (
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	pedersenhash "github.com/consensys/gnark-crypto/ecc/stark-curve/pedersen-hash"
	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/veloxlabs/velox/core/felt"
)

// Digest is a word produced by the hashing primitive. Every commitment in
// the kernel (note hash, nullifier, account hash, chain root) is a Digest.
type Digest = felt.Word

const mergeCacheSize = 1 << 20

var lruMerge, _ = lru.New(mergeCacheSize)

var mergeCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "velox_merge_cache",
	Help: "merge cache lookups by hit/miss",
}, []string{"hit"})

type lruKey struct {
	a, b felt.Word
}

// HashElements absorbs the given elements into a chained Pedersen digest,
// finalises with the element count and squeezes out a word. Equal inputs
// produce equal digests; the count finalisation separates inputs that differ
// only in trailing zero elements.
func HashElements(elems []felt.Felt) Digest {
	var acc fp.Element
	for i := range elems {
		acc = pedersenhash.Pedersen(&acc, elems[i].Impl())
	}
	acc = pedersenhash.Pedersen(&acc, new(fp.Element).SetUint64(uint64(len(elems))))

	var out Digest
	for i := range out {
		h := pedersenhash.Pedersen(&acc, new(fp.Element).SetUint64(uint64(i)))
		out[i] = *felt.NewFelt(&h)
	}
	return out
}

// Merge computes the two-to-one digest of a and b. Merges sit on the hot
// path of every tree operation, so results are memoised.
func Merge(a, b Digest) Digest {
	key := lruKey{a: a, b: b}

	if res, ok := lruMerge.Get(key); ok {
		mergeCacheHits.WithLabelValues("true").Inc()
		return res.(Digest)
	}

	elems := make([]felt.Felt, 0, 2*felt.WordLen)
	elems = append(elems, a[:]...)
	elems = append(elems, b[:]...)
	result := HashElements(elems)

	lruMerge.Add(key, result)
	mergeCacheHits.WithLabelValues("false").Inc()
	return result
}
