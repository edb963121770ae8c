package deck

import (
	"crypto/cipher"
	"encoding/binary"
	"math/rand"

	"go.dedis.ch/kyber/v4/suites"
)

var suite = suites.MustFind("Ed25519")

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// StreamShuffler runs Fisher-Yates on the Ed25519 suite's random stream.
type StreamShuffler struct {
	stream cipher.Stream
}

// NewStreamShuffler returns a shuffler backed by the suite's
// cryptographically secure random stream.
func NewStreamShuffler() *StreamShuffler {
	return &StreamShuffler{stream: suite.RandomStream()}
}

func (s *StreamShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, s.intn(i+1))
	}
}

// intn returns a uniform value in [0, n) by rejection sampling.
func (s *StreamShuffler) intn(n int) int {
	bound := uint64(n)
	limit := ^uint64(0) - (^uint64(0) % bound)
	var buf [8]byte
	for {
		clear(buf[:])
		s.stream.XORKeyStream(buf[:], buf[:])
		v := binary.BigEndian.Uint64(buf[:])
		if v < limit {
			return int(v % bound)
		}
	}
}

// NewSeededShuffler returns a deterministic shuffler for tests and replays.
func NewSeededShuffler(seed int64) Shuffler {
	return rand.New(rand.NewSource(seed))
}
