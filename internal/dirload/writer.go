// writer.go - the writer engine: operates on exactly one entry
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
	"os"

	"github.com/kusumi/dirload/internal/fsutil"
	"github.com/kusumi/dirload/internal/randtime"
)

// IsWriteDone reports whether a writer has already met its
// num_write_paths quota. The reader engine never consults this.
func IsWriteDone(td *ThreadDir, cfg *Config) bool {
	return cfg.NumWritePaths > 0 && int64(len(td.writePaths)) >= cfg.NumWritePaths
}

// WriteEntry processes exactly one absolute path f on behalf of
// writer worker 'gid', consulting the shared run state for the
// timestamp and (when enabled) the random write-data template.
func WriteEntry(f string, td *ThreadDir, ts *ThreadStat, cfg *Config, shared *Dir, gid uint64) error {
	if IsWriteDone(td, cfg) {
		return nil
	}

	raw := fsutil.RawFileType(f)
	var d string
	switch raw {
	case fsutil.Dir:
		d = f
	case fsutil.Reg:
		d = fsutil.DirName(f, true)
	default:
		return nil
	}

	counter := td.NextCounter()
	base := fmt.Sprintf("dirload_%s_gid%d_%s_%d", cfg.WritePathsBase, gid, shared.Timestamp(), counter)
	newf := fsutil.JoinPath(d, base, true)

	t := pickWritePathsType(cfg.WritePathsType)

	switch t {
	case WPDir:
		if err := os.Mkdir(newf, 0o755); err != nil {
			return err
		}
	case WPReg:
		fd, err := os.OpenFile(newf, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		fd.Close()
	case WPSymlink:
		if err := os.Symlink(f, newf); err != nil {
			return err
		}
	case WPLink:
		if raw == fsutil.Reg {
			if err := os.Link(f, newf); err != nil {
				return err
			}
		} else {
			if err := os.Mkdir(newf, 0o755); err != nil {
				return err
			}
			t = WPDir
		}
	}

	if cfg.FsyncWritePaths {
		if err := fsyncPath(newf); err != nil {
			return err
		}
	}
	if cfg.DirsyncWritePaths {
		if err := fsyncPath(d); err != nil {
			return err
		}
	}

	td.appendWritePath(newf)

	if t != WPReg {
		ts.IncNumWrite()
		return nil
	}

	return writeContent(newf, td, ts, cfg, shared)
}

// fsyncPath opens 'p' read-only just long enough to fsync it; the
// handle is always closed before returning, even on Sync failure.
func fsyncPath(p string) error {
	fd, err := os.Open(p)
	if err != nil {
		return err
	}
	defer fd.Close()
	return fd.Sync()
}

// pickWritePathsType selects uniformly among the bits set in t.
func pickWritePathsType(t WritePathsType) WritePathsType {
	var choices []WritePathsType
	for _, bit := range []WritePathsType{WPDir, WPReg, WPSymlink, WPLink} {
		if t&bit != 0 {
			choices = append(choices, bit)
		}
	}
	if len(choices) == 1 {
		return choices[0]
	}
	return choices[randtime.Random(0, len(choices))]
}

// writeContent populates a newly created regular file per the
// configured write budget.
func writeContent(newf string, td *ThreadDir, ts *ThreadStat, cfg *Config, shared *Dir) error {
	buf := td.WriteBuf()
	bufsize := int64(len(buf))

	var budget int64
	switch {
	case cfg.WriteSize < 0:
		ts.IncNumWrite()
		return nil
	case cfg.WriteSize == 0:
		budget = randtime.Random(int64(0), bufsize) + 1
	default:
		budget = cfg.WriteSize
	}

	if cfg.TruncateWritePaths {
		if err := os.Truncate(newf, budget); err != nil {
			return err
		}
		ts.IncNumWrite()
		if cfg.FsyncWritePaths {
			return fsyncPath(newf)
		}
		return nil
	}

	fd, err := os.OpenFile(newf, os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer fd.Close()

	residual := budget
	for residual > 0 {
		n := bufsize
		if residual < n {
			n = residual
		}

		if cfg.RandomWriteData {
			if slice := shared.RandomSlice(uint64(len(buf))); slice != nil {
				copy(buf, slice)
			}
		}

		w, err := fd.Write(buf[:n])
		if err != nil {
			return err
		}

		ts.AddNumWriteBytes(uint64(w))
		ts.IncNumWrite()
		residual -= int64(w)
	}

	// os.File.Write already goes straight to the kernel; there is no
	// separate stream buffer to flush here (the kernel-level fsync,
	// if requested, already happened in the caller's Step 3).
	return nil
}
