// dir.go - run-global, read-only shared state
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

package dirload

import (
	"time"

	"github.com/kusumi/dirload/internal/randtime"
)

const timestampLayout = "20060102150405"

// Dir is constructed once per run and is immutable thereafter; every
// worker sees a stable snapshot.
type Dir struct {
	// randomData is a 2*MaxBufferSize byte sequence uniformly sampled
	// from [32,128), used as a source for random-offset write-buffer
	// slices. Empty when random-write-data is disabled.
	randomData []byte

	// timestamp is this run's unique "YYYYmmddHHMMSS" string, captured
	// at construction, in local time.
	timestamp string
}

// NewDir constructs the shared run state. When randomWriteData is
// false, randomData stays empty and writers reuse their 0x41-filled
// buffer verbatim.
func NewDir(randomWriteData bool) *Dir {
	d := &Dir{
		timestamp: time.Now().Format(timestampLayout),
	}
	if randomWriteData {
		d.randomData = make([]byte, 2*MaxBufferSize)
		randtime.Bytes(d.randomData)
	}
	return d
}

// Timestamp returns this run's timestamp string.
func (d *Dir) Timestamp() string { return d.timestamp }

// RandomSlice returns a bufsize-length slice of the shared random
// sequence starting at a uniformly chosen offset in [0, bufsize). The
// sequence is doubled in length precisely so a full-length slice is
// always available regardless of the chosen offset.
func (d *Dir) RandomSlice(bufsize uint64) []byte {
	if len(d.randomData) == 0 || bufsize == 0 {
		return nil
	}
	off := randtime.Random(uint64(0), bufsize)
	return d.randomData[off : off+bufsize]
}
