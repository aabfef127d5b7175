// reader.go - the reader engine: operates on exactly one entry
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
	"fmt"
	"io"
	"os"

	"github.com/kusumi/dirload/internal/fsutil"
	"github.com/kusumi/dirload/internal/randtime"
)

// ReadEntry processes exactly one absolute, non-trailing-slash path f
// on behalf of a reader worker.
func ReadEntry(f string, td *ThreadDir, ts *ThreadStat, cfg *Config) error {
	ts.IncNumStat()

	raw := fsutil.RawFileType(f)
	if cfg.IgnoreDot && raw != fsutil.Dir && fsutil.IsDotPath(f) {
		return nil
	}

	if cfg.StatOnly {
		return nil
	}

	if raw == fsutil.Symlink {
		target, err := os.Readlink(f)
		if err != nil {
			return err
		}
		ts.AddNumReadBytes(uint64(len(target)))

		abs := target
		if !fsutil.IsAbsPath(target) {
			abs = fsutil.JoinPath(fsutil.DirName(f, true), target, true)
		}

		ts.IncNumStat()
		raw = fsutil.ResolvedFileType(abs)
		if raw == fsutil.Symlink {
			return fmt.Errorf("reader: resolved target of %q is still a symlink: %q", f, abs)
		}
		if !cfg.FollowSymlink {
			return nil
		}
		f = abs
	}

	switch raw {
	case fsutil.Reg:
		return readFile(f, td, ts, cfg)
	default:
		return nil
	}
}

// readFile reads f using td's read buffer, honoring the configured
// read budget.
func readFile(f string, td *ThreadDir, ts *ThreadStat, cfg *Config) error {
	fd, err := os.Open(f)
	if err != nil {
		return err
	}
	defer fd.Close()

	buf := td.ReadBuf()
	bufsize := int64(len(buf))

	var residual int64
	switch {
	case cfg.ReadSize < 0:
		residual = -1
	case cfg.ReadSize == 0:
		residual = randtime.Random(int64(0), bufsize) + 1
	default:
		residual = cfg.ReadSize
	}

	for {
		n := bufsize
		if residual > 0 && residual < n {
			n = residual
		}

		r, err := fd.Read(buf[:n])
		if err != nil && err != io.EOF {
			return err
		}

		ts.IncNumRead()
		ts.AddNumReadBytes(uint64(r))

		if residual > 0 {
			residual -= int64(r)
		}
		if r == 0 || residual == 0 {
			break
		}
	}

	return nil
}
