package recordgen

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/spaolacci/murmur3"
)

// seedMixer is the murmur3 seed used when deriving per-worker streams.
const seedMixer = 0x5eed

// workerRNG returns an independent PCG generator for one producer.
// The two PCG words come from a 128-bit murmur3 hash of (run seed, worker),
// so neighbouring workers get unrelated streams.
func workerRNG(seed uint64, worker int) *rand.Rand {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], seed)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(worker))
	hi, lo := murmur3.Sum128WithSeed(buf[:], seedMixer)
	return rand.New(rand.NewPCG(hi, lo))
}
