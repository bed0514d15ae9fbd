// Package bitmap provides a bit-indexed set backed by caller-owned bytes. Bits are packed into
// fixed-width words (8, 16, 32 or 64 bits, chosen by the W type parameter) stored little-endian, so the
// backing bytes carry no alignment requirement. Bit i lives in word i/W at position i%W.
package bitmap

import (
	"encoding/binary"
	"math/bits"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/pkg/errors"
)

// Word is the set of unsigned integer types that may be used as bitmap words
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// OutOfRangeError is returned by accessors given an index outside [0, Len())
var OutOfRangeError error = errors.New("bit index out of range")

// WordBytes returns the size in bytes of a single W word
func WordBytes[W Word]() int {
	var w W
	return int(unsafe.Sizeof(w))
}

// WordBits returns the number of bits packed into a single W word
func WordBits[W Word]() int {
	return WordBytes[W]() * 8
}

// WordsFor returns the number of W words required to hold bitCount bits
func WordsFor[W Word](bitCount int) int {
	wordBits := WordBits[W]()
	return (bitCount + wordBits - 1) / wordBits
}

// Bitmap is a fixed-length set of bits stored in W-bit words inside a byte slice it does not own.
// The zero value is an empty bitmap of length 0.
type Bitmap[W Word] struct {
	data  []byte
	words int
	len   int
}

// New wraps data as a bitmap addressing bitCount bits. data must hold at least WordsFor[W](bitCount)
// words; only that prefix of data is used. The contents of data are not modified.
func New[W Word](data []byte, bitCount int) (Bitmap[W], error) {
	if bitCount < 0 {
		return Bitmap[W]{}, errors.Errorf("bit count must not be negative, got %d", bitCount)
	}

	words := WordsFor[W](bitCount)
	need := words * WordBytes[W]()
	if len(data) < need {
		return Bitmap[W]{}, errors.Errorf("%d bits require %d bytes of backing storage, but only %d were provided", bitCount, need, len(data))
	}

	return Bitmap[W]{
		data:  data[:need:need],
		words: words,
		len:   bitCount,
	}, nil
}

// Len returns the number of addressable bits
func (b Bitmap[W]) Len() int { return b.len }

// Words returns the number of words backing the bitmap
func (b Bitmap[W]) Words() int { return b.words }

// Word returns the word at index i. Bits beyond Len in the final word are included as stored.
func (b Bitmap[W]) Word(i int) W {
	switch WordBytes[W]() {
	case 1:
		return W(b.data[i])
	case 2:
		return W(binary.LittleEndian.Uint16(b.data[i*2:]))
	case 4:
		return W(binary.LittleEndian.Uint32(b.data[i*4:]))
	default:
		return W(binary.LittleEndian.Uint64(b.data[i*8:]))
	}
}

func (b Bitmap[W]) setWord(i int, w W) {
	switch WordBytes[W]() {
	case 1:
		b.data[i] = uint8(w)
	case 2:
		binary.LittleEndian.PutUint16(b.data[i*2:], uint16(w))
	case 4:
		binary.LittleEndian.PutUint32(b.data[i*4:], uint32(w))
	default:
		binary.LittleEndian.PutUint64(b.data[i*8:], uint64(w))
	}
}

func (b Bitmap[W]) checkRange(start, count int) error {
	if start < 0 || count < 0 || start+count > b.len {
		return errors.Wrapf(OutOfRangeError, "bits [%d, %d) in bitmap of length %d", start, start+count, b.len)
	}
	return nil
}

// Test reports whether bit i is set. Indices outside [0, Len()) report false.
func (b Bitmap[W]) Test(i int) bool {
	if i < 0 || i >= b.len {
		return false
	}
	wordBits := WordBits[W]()
	return b.Word(i/wordBits)&(W(1)<<(i%wordBits)) != 0
}

// Set sets bit i
func (b Bitmap[W]) Set(i int) error {
	if err := b.checkRange(i, 1); err != nil {
		return err
	}
	wordBits := WordBits[W]()
	word := i / wordBits
	b.setWord(word, b.Word(word)|W(1)<<(i%wordBits))
	return nil
}

// Unset clears bit i
func (b Bitmap[W]) Unset(i int) error {
	if err := b.checkRange(i, 1); err != nil {
		return err
	}
	wordBits := WordBits[W]()
	word := i / wordBits
	b.setWord(word, b.Word(word)&^(W(1)<<(i%wordBits)))
	return nil
}

// SetRange sets every bit in [start, start+count). Nothing is modified if any index is out of range.
func (b Bitmap[W]) SetRange(start, count int) error {
	if err := b.checkRange(start, count); err != nil {
		return err
	}
	b.applyRange(start, count, true)
	return nil
}

// UnsetRange clears every bit in [start, start+count). Nothing is modified if any index is out of range.
func (b Bitmap[W]) UnsetRange(start, count int) error {
	if err := b.checkRange(start, count); err != nil {
		return err
	}
	b.applyRange(start, count, false)
	return nil
}

func (b Bitmap[W]) applyRange(start, count int, value bool) {
	wordBits := WordBits[W]()
	for count > 0 {
		word := start / wordBits
		bit := start % wordBits
		span := min(wordBits-bit, count)
		mask := W(lowMask(span)) << bit

		if value {
			b.setWord(word, b.Word(word)|mask)
		} else {
			b.setWord(word, b.Word(word)&^mask)
		}

		start += span
		count -= span
	}
}

// ClearAll clears every bit in the backing words, including bits beyond Len
func (b Bitmap[W]) ClearAll() {
	clear(b.data)
}

// Count returns the number of set bits in [0, Len())
func (b Bitmap[W]) Count() int {
	wordBits := WordBits[W]()
	total := 0
	for word := 0; word < b.words; word++ {
		limit := min(wordBits, b.len-word*wordBits)
		total += bits.OnesCount64(uint64(b.Word(word)) & lowMask(limit))
	}
	return total
}

// TailClear reports whether every stored bit past Len in the final word is clear
func (b Bitmap[W]) TailClear() bool {
	if b.words == 0 {
		return true
	}
	wordBits := WordBits[W]()
	used := b.len - (b.words-1)*wordBits
	return uint64(b.Word(b.words-1))&^lowMask(used) == 0
}

// FindClearRun returns the lowest index at which count consecutive clear bits begin, scanning
// [0, Len()). It returns false when count is not positive or no such run exists.
func (b Bitmap[W]) FindClearRun(count int) (int, bool) {
	if count <= 0 || count > b.len {
		return 0, false
	}

	wordBits := WordBits[W]()
	allOnes := lowMask(wordBits)
	run := 0
	for word := 0; word < b.words; word++ {
		base := word * wordBits
		limit := min(wordBits, b.len-base)
		value := uint64(b.Word(word)) & lowMask(limit)

		if value == 0 {
			if run+limit >= count {
				return base - run, true
			}
			run += limit
			continue
		}

		if limit == wordBits && value == allOnes {
			run = 0
			continue
		}

		for bit := 0; bit < limit; bit++ {
			if value&(1<<bit) != 0 {
				run = 0
				continue
			}

			run++
			if run == count {
				return base + bit - count + 1, true
			}
		}
	}

	return 0, false
}

// NextSet returns the lowest set bit at or after from
func (b Bitmap[W]) NextSet(from int) (int, bool) {
	return b.next(from, false)
}

// NextClear returns the lowest clear bit at or after from
func (b Bitmap[W]) NextClear(from int) (int, bool) {
	return b.next(from, true)
}

func (b Bitmap[W]) next(from int, invert bool) (int, bool) {
	if from < 0 {
		from = 0
	}
	if from >= b.len {
		return 0, false
	}

	wordBits := WordBits[W]()
	for word := from / wordBits; word < b.words; word++ {
		base := word * wordBits
		value := uint64(b.Word(word))
		if invert {
			value = ^value
		}
		value &= lowMask(min(wordBits, b.len-base))
		if base < from {
			value &^= lowMask(from - base)
		}

		if value != 0 {
			return base + bits.TrailingZeros64(value), true
		}
	}

	return 0, false
}

// ToRoaring copies the set bits in [0, Len()) into a new roaring bitmap
func (b Bitmap[W]) ToRoaring() *roaring.Bitmap {
	out := roaring.New()
	wordBits := WordBits[W]()
	for word := 0; word < b.words; word++ {
		base := word * wordBits
		value := uint64(b.Word(word)) & lowMask(min(wordBits, b.len-base))
		for value != 0 {
			bit := bits.TrailingZeros64(value)
			out.Add(uint32(base + bit))
			value &= value - 1
		}
	}
	return out
}

func lowMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	if width <= 0 {
		return 0
	}
	return uint64(1)<<width - 1
}
