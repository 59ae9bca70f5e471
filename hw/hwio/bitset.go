package hwio

import (
	"fmt"
	"math/bits"
)

const (
	NumBits  = 0x10000            // one bit per byte of a 64K memory
	wordSize = 64                 // using 64-bit words
	numWords = NumBits / wordSize // 1024 words exactly
)

// Bitset is a 64Kbit set. Zero value is an empty set (all bits cleared).
type Bitset struct {
	words [numWords]uint64
}

// Set sets the bit at index i.
func (b *Bitset) Set(i uint) {
	b.words[i/wordSize] |= 1 << (i % wordSize)
}

// Clear clears the bit at index i.
func (b *Bitset) Clear(i uint) {
	b.words[i/wordSize] &^= 1 << (i % wordSize)
}

// Test returns true if the bit at index i is set.
func (b *Bitset) Test(i uint) bool {
	return (b.words[i/wordSize] & (1 << (i % wordSize))) != 0
}

// rangeMasks calls fn for each word overlapping the half-open interval
// [start, end), with the mask of the bits of that word inside the interval.
func rangeMasks(start, end uint, fn func(word uint, mask uint64) bool) {
	if start >= end || end > NumBits {
		panic(fmt.Sprintf("invalid range [%d, %d)", start, end))
	}
	startWord := start / wordSize
	endWord := (end - 1) / wordSize
	startBit := start % wordSize
	endBit := (end - 1) % wordSize

	if startWord == endWord {
		fn(startWord, ((uint64(1)<<(endBit-startBit+1))-1)<<startBit)
		return
	}

	if !fn(startWord, ^uint64(0)<<startBit) {
		return
	}
	for i := startWord + 1; i < endWord; i++ {
		if !fn(i, ^uint64(0)) {
			return
		}
	}
	fn(endWord, (uint64(1)<<(endBit+1))-1)
}

// SetRange sets all bits in the half-open interval [start, end).
// It panics if start >= end or end > NumBits.
func (b *Bitset) SetRange(start, end uint) {
	rangeMasks(start, end, func(w uint, mask uint64) bool {
		b.words[w] |= mask
		return true
	})
}

// AnyInRange reports whether at least one bit of [start, end) is set.
func (b *Bitset) AnyInRange(start, end uint) bool {
	found := false
	rangeMasks(start, end, func(w uint, mask uint64) bool {
		found = b.words[w]&mask != 0
		return !found
	})
	return found
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Reset clears all bits in the Bitset.
func (b *Bitset) Reset() {
	clear(b.words[:])
}
