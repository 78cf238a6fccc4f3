package recordgen

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	"github.com/zeebo/xxh3"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	genErrors "github.com/tamirms/recordgen/errors"
	"github.com/tamirms/recordgen/internal/record"
)

// maxIDBuckets caps the number of histogram buckets used for ids.
const maxIDBuckets = 64

// Report summarizes a scanned fixture file.
type Report struct {
	Size     int64
	Records  int64
	Checksum uint64 // xxHash64 of the whole file, comparable to Result.Checksum

	Words      []string
	WordCounts []int64 // per entry of Words; duplicates count toward the first occurrence

	MinID     int64
	MaxID     int64
	IDBuckets []int64 // bucket b covers ids whose offset from MinID maps to b

	Malformed      int64
	FirstMalformed int64 // byte offset of the first bad line, -1 if none
	Truncated      bool  // trailing bytes without a terminator

	wordWeights []float64
	idWeights   []float64
}

// Verify memory-maps path and checks that every line is a well-formed
// record for the configured word list, id range and terminator.
// Other options are ignored.
//
// The returned Report is non-nil whenever the file could be read, even when
// err reports malformed records.
func Verify(path string, opts ...Option) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat fixture file: %w", err)
	}
	if st.Size() == 0 {
		return VerifyBytes(nil, opts...)
	}

	// Per POSIX mmap(2), f may be closed while the mapping stays valid.
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap fixture file: %w", err)
	}
	adviseSequential(f, mm)

	rep, verr := VerifyBytes(mm, opts...)
	if uerr := mm.Unmap(); uerr != nil {
		return rep, errors.Join(verr, fmt.Errorf("unmap fixture file: %w", uerr))
	}
	return rep, verr
}

// VerifyBytes is Verify for data already in memory.
func VerifyBytes(data []byte, opts ...Option) (*Report, error) {
	cfg := applyOptions(opts)
	factory, err := newFactory(cfg)
	if err != nil {
		return nil, err
	}
	v := newVerifier(factory, cfg.words)
	v.scan(data)
	return v.rep, v.err()
}

type verifier struct {
	words      [][]byte
	lookup     map[uint64][]int // xxh3 of word -> candidate indexes
	terminator []byte
	minID      int64
	span       uint64
	rep        *Report
}

func newVerifier(factory *record.Factory, names []string) *verifier {
	ws := factory.Words()
	v := &verifier{
		words:      ws,
		lookup:     make(map[uint64][]int, len(ws)),
		terminator: factory.Terminator(),
		minID:      factory.MinID(),
		span:       uint64(factory.MaxID()-factory.MinID()) + 1,
	}

	rep := &Report{
		Words:          append([]string(nil), names...),
		WordCounts:     make([]int64, len(ws)),
		MinID:          factory.MinID(),
		MaxID:          factory.MaxID(),
		FirstMalformed: -1,
		wordWeights:    make([]float64, len(ws)),
	}

	for i, w := range ws {
		// Duplicate words share the first index and weigh more.
		if j, ok := v.find(w); ok {
			rep.wordWeights[j]++
			continue
		}
		h := xxh3.Hash(w)
		v.lookup[h] = append(v.lookup[h], i)
		rep.wordWeights[i] = 1
	}

	nb := uint64(maxIDBuckets)
	if v.span < nb {
		nb = v.span
	}
	rep.IDBuckets = make([]int64, nb)
	rep.idWeights = make([]float64, nb)
	for b := range nb {
		rep.idWeights[b] = float64(ceilDiv(b+1, v.span, nb) - ceilDiv(b, v.span, nb))
	}

	v.rep = rep
	return v
}

func (v *verifier) find(word []byte) (int, bool) {
	for _, i := range v.lookup[xxh3.Hash(word)] {
		if bytes.Equal(v.words[i], word) {
			return i, true
		}
	}
	return 0, false
}

func (v *verifier) scan(data []byte) {
	rep := v.rep
	rep.Size = int64(len(data))
	rep.Checksum = xxhash.Sum64(data)

	off := 0
	for off < len(data) {
		end := bytes.Index(data[off:], v.terminator)
		if end < 0 {
			rep.Truncated = true
			v.malformed(off)
			return
		}
		if !v.line(data[off : off+end]) {
			v.malformed(off)
		}
		off += end + len(v.terminator)
	}
}

// line checks one record without its terminator.
func (v *verifier) line(line []byte) bool {
	dot := bytes.IndexByte(line, record.Separator)
	if dot <= 0 {
		return false
	}
	id, ok := parseID(line[:dot])
	if !ok || id < v.minID || uint64(id-v.minID) >= v.span {
		return false
	}
	wi, ok := v.find(line[dot+1:])
	if !ok {
		return false
	}

	v.rep.Records++
	v.rep.WordCounts[wi]++
	nb := uint64(len(v.rep.IDBuckets))
	hi, lo := bits.Mul64(uint64(id-v.minID), nb)
	b, _ := bits.Div64(hi, lo, v.span)
	v.rep.IDBuckets[b]++
	return true
}

func (v *verifier) malformed(off int) {
	if v.rep.FirstMalformed < 0 {
		v.rep.FirstMalformed = int64(off)
	}
	v.rep.Malformed++
}

func (v *verifier) err() error {
	var errs []error
	if v.rep.Truncated {
		errs = append(errs, fmt.Errorf("%w: %d bytes", genErrors.ErrMissingTerminator, v.rep.Size))
	}
	if v.rep.Malformed > 0 {
		errs = append(errs, fmt.Errorf("%w: %d malformed lines, first at offset %d",
			genErrors.ErrMalformedRecord, v.rep.Malformed, v.rep.FirstMalformed))
	}
	return errors.Join(errs...)
}

// parseID parses canonical non-negative decimal: no sign, no leading zeros.
func parseID(b []byte) (int64, bool) {
	if len(b) == 0 || len(b) > 19 || (len(b) > 1 && b[0] == '0') {
		return 0, false
	}
	var v int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		d := int64(c - '0')
		if v > (math.MaxInt64-d)/10 {
			return 0, false
		}
		v = v*10 + d
	}
	return v, true
}

// ceilDiv returns ceil(a*b/c) for a <= c.
func ceilDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, r := bits.Div64(hi, lo, c)
	if r > 0 {
		q++
	}
	return q
}

// WordUniformity returns Pearson's chi-square statistic for the word
// counts against a uniform choice over the word list, and its p-value.
func (r *Report) WordUniformity() (statistic, pValue float64) {
	return chiSquare(r.WordCounts, r.wordWeights)
}

// IDUniformity is WordUniformity for the id histogram.
func (r *Report) IDUniformity() (statistic, pValue float64) {
	return chiSquare(r.IDBuckets, r.idWeights)
}

func chiSquare(counts []int64, weights []float64) (float64, float64) {
	var total, wsum float64
	for i, c := range counts {
		total += float64(c)
		wsum += weights[i]
	}
	if total == 0 || wsum == 0 {
		return 0, 1
	}

	var obs, exp []float64
	for i, c := range counts {
		if weights[i] == 0 {
			continue
		}
		obs = append(obs, float64(c))
		exp = append(exp, total*weights[i]/wsum)
	}
	if len(obs) < 2 {
		return 0, 1
	}

	x := stat.ChiSquare(obs, exp)
	return x, distuv.ChiSquared{K: float64(len(obs) - 1)}.Survival(x)
}
