package felt

import "strings"

// WordLen is the number of felts in a Word, the native addressable unit of
// the proving VM.
const WordLen = 4

// Word is a 4-felt tuple. Digests produced by the hashing primitive are
// Words, so the type doubles as the commitment type throughout the kernel.
type Word [WordLen]Felt

// ZeroWord is the all-zero word.
var ZeroWord = Word{}

// NewWordFromUint64 builds a word from four unsigned integers.
func NewWordFromUint64(e0, e1, e2, e3 uint64) Word {
	return Word{FromUint64(e0), FromUint64(e1), FromUint64(e2), FromUint64(e3)}
}

// Equal reports whether two words hold the same four elements.
func (w *Word) Equal(x *Word) bool {
	for i := range w {
		if !w[i].Equal(&x[i]) {
			return false
		}
	}
	return true
}

// IsZero reports whether all four elements are zero.
func (w *Word) IsZero() bool {
	for i := range w {
		if !w[i].IsZero() {
			return false
		}
	}
	return true
}

func (w Word) String() string {
	parts := make([]string, WordLen)
	for i := range w {
		parts[i] = w[i].String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
