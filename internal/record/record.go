// Package record materializes "<id>.<word><terminator>" records directly into
// caller-owned byte slices.
package record

import (
	"bytes"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	genErrors "github.com/tamirms/recordgen/errors"
	intbits "github.com/tamirms/recordgen/internal/bits"
)

// Separator sits between the id and the word of every record.
const Separator = '.'

// Factory produces records from an immutable word list and id range.
// A Factory holds no mutable state and is safe for concurrent use, as long
// as every goroutine passes its own *rand.Rand.
type Factory struct {
	words      [][]byte
	minID      int64
	span       uint64 // maxID - minID + 1
	terminator []byte
	maxLen     int
}

// New validates the configuration and interns the word list.
func New(words [][]byte, minID, maxID int64, terminator []byte) (*Factory, error) {
	if len(words) == 0 {
		return nil, genErrors.ErrEmptyWordList
	}
	if uint64(len(words)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d words", genErrors.ErrTooManyWords, len(words))
	}
	if len(terminator) == 0 {
		return nil, genErrors.ErrEmptyTerminator
	}
	if minID < 0 || maxID < minID {
		return nil, fmt.Errorf("%w: [%d, %d]", genErrors.ErrInvalidIDRange, minID, maxID)
	}

	// One backing array for all words keeps them adjacent in memory.
	total := 0
	longest := 0
	for i, w := range words {
		if len(w) == 0 {
			return nil, fmt.Errorf("%w: index %d", genErrors.ErrEmptyWord, i)
		}
		if bytes.Contains(w, terminator) {
			return nil, fmt.Errorf("%w: index %d", genErrors.ErrWordHasTerminator, i)
		}
		total += len(w)
		longest = max(longest, len(w))
	}
	arena := make([]byte, 0, total)
	interned := make([][]byte, len(words))
	for i, w := range words {
		start := len(arena)
		arena = append(arena, w...)
		interned[i] = arena[start:len(arena):len(arena)]
	}

	return &Factory{
		words:      interned,
		minID:      minID,
		span:       uint64(maxID-minID) + 1,
		terminator: append([]byte(nil), terminator...),
		maxLen:     intbits.DecimalLen(uint64(maxID)) + 1 + longest + len(terminator),
	}, nil
}

// MaxRecordLen returns the worst-case serialized size of one record.
func (f *Factory) MaxRecordLen() int { return f.maxLen }

// Words returns the interned word list. Callers must not modify it.
func (f *Factory) Words() [][]byte { return f.words }

// MinID returns the inclusive lower id bound.
func (f *Factory) MinID() int64 { return f.minID }

// MaxID returns the inclusive upper id bound.
func (f *Factory) MaxID() int64 { return f.minID + int64(f.span-1) }

// Terminator returns the line terminator. Callers must not modify it.
func (f *Factory) Terminator() []byte { return f.terminator }

// Put writes one uniformly chosen record at the start of dst and returns its
// length. dst must have room for MaxRecordLen bytes; Put panics otherwise,
// since callers are expected to check capacity before generating.
func (f *Factory) Put(rng *rand.Rand, dst []byte) int {
	if len(dst) < f.maxLen {
		panic(fmt.Sprintf("%v: have %d bytes, need %d", genErrors.ErrRecordTooLarge, len(dst), f.maxLen))
	}

	id := f.minID + int64(intbits.FastRange64(rng.Uint64(), f.span))
	word := f.words[intbits.FastRange32(rng.Uint64(), uint32(len(f.words)))]

	// AppendInt reuses dst's backing array since its capacity covers the digits.
	n := len(strconv.AppendInt(dst[:0], id, 10))
	dst[n] = Separator
	n++
	n += copy(dst[n:], word)
	n += copy(dst[n:], f.terminator)
	return n
}
