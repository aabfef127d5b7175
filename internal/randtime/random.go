// random.go - process-wide pseudo-random integer generator
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package randtime provides the two pieces of truly global mutable
// state dirload carries on purpose: a lazily seeded, mutex-guarded
// pseudo-random engine, and a polling Timer with call-frequency gating.
package randtime

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"

	"golang.org/x/exp/constraints"
)

var (
	once   sync.Once
	mu     sync.Mutex
	engine *mrand.Rand
)

func engineOnce() *mrand.Rand {
	once.Do(func() {
		var seed [32]byte
		if _, err := rand.Read(seed[:]); err != nil {
			// crypto/rand failing is a fatal environment problem;
			// the program cannot make progress without entropy.
			panic("randtime: can't read seed: " + err.Error())
		}
		s1 := binary.LittleEndian.Uint64(seed[0:8])
		s2 := binary.LittleEndian.Uint64(seed[8:16])
		engine = mrand.New(mrand.NewPCG(s1, s2))
	})
	return engine
}

// Random returns a uniformly distributed integer in the half-open
// interval [lo, hi). The engine is process-wide, guarded by a mutex,
// and lazily seeded from a non-deterministic source on first use.
func Random[T constraints.Integer](lo, hi T) T {
	if lo >= hi {
		panic("randtime: Random requires lo < hi")
	}

	mu.Lock()
	e := engineOnce()
	n := e.Int64N(int64(hi) - int64(lo))
	mu.Unlock()

	return lo + T(n)
}

// Bytes fills 'buf' with uniformly random bytes in [32, 128), the
// printable ASCII range used to seed writer payloads.
func Bytes(buf []byte) {
	mu.Lock()
	e := engineOnce()
	for i := range buf {
		buf[i] = byte(32 + e.Int64N(128-32))
	}
	mu.Unlock()
}
