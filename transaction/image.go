package transaction

import "github.com/veloxlabs/velox/core/felt"

// Image is the word-addressed memory handed to the proving VM. It is built
// fresh per transaction and discarded after execution; unwritten addresses
// read as the zero word.
type Image struct {
	words map[uint32]felt.Word
}

func NewImage() *Image {
	return &Image{words: make(map[uint32]felt.Word)}
}

// SetWord writes a word at the given address.
func (img *Image) SetWord(ptr uint32, w felt.Word) {
	img.words[ptr] = w
}

// Word reads the word at the given address.
func (img *Image) Word(ptr uint32) felt.Word {
	return img.words[ptr]
}

// Felt reads a single element of the word at the given address.
func (img *Image) Felt(ptr uint32, idx int) felt.Felt {
	return img.words[ptr][idx]
}

// Size returns the number of written words.
func (img *Image) Size() int {
	return len(img.words)
}
