// safefile.go - safe file creation and unwinding on error
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

package flist

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/kusumi/dirload/internal/fsutil"
)

// safeFile is an io.WriteCloser that writes to a temporary file and
// atomically renames it into place on Close, provided there were no
// intervening write errors. The caller's sequence is:
//
//	sf, err := newSafeFile(name, force)
//	defer sf.Abort()
//	... write to sf ...
//	sf.Close()
//
// Abort after a successful Close is a no-op; Close after Abort does
// nothing and returns the error of a failed Write, if any (nil
// otherwise).
type safeFile struct {
	*os.File
	err    error
	name   string
	closed atomic.Int64 // <0 aborted, >0 closed, 0 open
}

var _ io.WriteCloser = &safeFile{}

// newSafeFile opens a temp file that will become 'nm' on Close. If 'nm'
// already exists, creation fails unless force is set, in which case the
// existing path must be a regular file.
func newSafeFile(nm string, force bool) (*safeFile, error) {
	if fsutil.PathExists(nm) {
		if !force {
			return nil, fmt.Errorf("flist: won't overwrite existing %s", nm)
		}
		if fsutil.RawFileType(nm) != fsutil.Reg {
			return nil, fmt.Errorf("flist: %s is not a regular file", nm)
		}
	}

	tmp := fmt.Sprintf("%s.tmp.%d.%x", nm, os.Getpid(), randU32())
	fd, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}

	return &safeFile{File: fd, name: nm}, nil
}

func (sf *safeFile) isOpen() bool {
	return sf.closed.Load() == 0
}

func (sf *safeFile) Write(b []byte) (int, error) {
	if sf.err != nil {
		return 0, sf.err
	}
	if !sf.isOpen() {
		return 0, fmt.Errorf("flist: %s is not open", sf.Name())
	}

	n, err := sf.File.Write(b)
	if err != nil {
		sf.err = fmt.Errorf("flist: %w", err)
		return n, sf.err
	}
	return n, nil
}

// Abort discards the temp file. Safe to call after Close.
func (sf *safeFile) Abort() {
	n := sf.closed.Load()
	if n != 0 {
		return
	}
	sf.File.Close()
	os.Remove(sf.Name())
	sf.closed.Store(-1)
}

// Close flushes, closes, and renames the temp file into place, unless
// a prior write failed, in which case it aborts and returns that error.
func (sf *safeFile) Close() error {
	if sf.err != nil {
		sf.Abort()
		return sf.err
	}

	if n := sf.closed.Load(); n != 0 {
		return sf.err
	}

	if sf.err = sf.Sync(); sf.err != nil {
		return sf.err
	}
	if sf.err = sf.File.Close(); sf.err != nil {
		return sf.err
	}
	if sf.err = os.Rename(sf.Name(), sf.name); sf.err != nil {
		return sf.err
	}

	sf.closed.Store(1)
	return nil
}

func randU32() uint32 {
	var b [4]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		panic(fmt.Sprintf("flist: can't read 4 rand bytes: %s", err))
	}
	return binary.LittleEndian.Uint32(b[:])
}
