// info.go - a normalized fs.FileInfo used across the walker and engines
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

package fsutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"syscall"
	"time"
)

// Info represents file/dir metadata in a normalized form. It satisfies
// fs.FileInfo and additionally carries the raw device/inode fields
// dirload needs to detect mount-point crossings and dedup hardlinks.
type Info struct {
	Ino  uint64
	Siz  int64
	Dev  uint64
	Rdev uint64

	Mod   fs.FileMode
	Uid   uint32
	Gid   uint32
	Nlink uint32

	Mtim time.Time

	path string
}

var _ fs.FileInfo = &Info{}

// Stat is like os.Stat but returns the normalized Info, following
// symlinks.
func Stat(nm string) (*Info, error) {
	var ii Info
	if err := Statm(nm, &ii); err != nil {
		return nil, err
	}
	return &ii, nil
}

// Statm is like Stat but uses caller supplied memory.
func Statm(nm string, fi *Info) error {
	var st syscall.Stat_t
	if err := syscall.Stat(nm, &st); err != nil {
		return err
	}
	makeInfo(fi, nm, &st)
	return nil
}

// Lstat is like os.Lstat but returns the normalized Info, not following
// a trailing symlink.
func Lstat(nm string) (*Info, error) {
	var ii Info
	if err := Lstatm(nm, &ii); err != nil {
		return nil, err
	}
	return &ii, nil
}

// Lstatm is like Lstat but uses caller supplied memory.
func Lstatm(nm string, fi *Info) error {
	var st syscall.Stat_t
	if err := syscall.Lstat(nm, &st); err != nil {
		return err
	}
	makeInfo(fi, nm, &st)
	return nil
}

func makeInfo(fi *Info, nm string, st *syscall.Stat_t) {
	fi.Ino = st.Ino
	fi.Siz = st.Size
	fi.Dev = uint64(st.Dev)
	fi.Rdev = uint64(st.Rdev)
	fi.Mod = toFileMode(uint32(st.Mode))
	fi.Uid = st.Uid
	fi.Gid = st.Gid
	fi.Nlink = uint32(st.Nlink)
	fi.Mtim = ts2time(st.Mtim)
	fi.path = nm
}

// Path returns the path this Info was stat'd with.
func (ii *Info) Path() string { return ii.path }

// SetPath overrides the path recorded in this Info.
func (ii *Info) SetPath(p string) { ii.path = p }

// Name satisfies fs.FileInfo.
func (ii *Info) Name() string { return filepath.Base(ii.path) }

// Size satisfies fs.FileInfo.
func (ii *Info) Size() int64 { return ii.Siz }

// Mode satisfies fs.FileInfo.
func (ii *Info) Mode() fs.FileMode { return ii.Mod }

// ModTime satisfies fs.FileInfo.
func (ii *Info) ModTime() time.Time { return ii.Mtim }

// IsDir satisfies fs.FileInfo.
func (ii *Info) IsDir() bool { return ii.Mod.IsDir() }

// IsRegular reports whether this Info represents a regular file.
func (ii *Info) IsRegular() bool { return ii.Mod.IsRegular() }

// Sys satisfies fs.FileInfo; returns the Info itself.
func (ii *Info) Sys() any { return ii }

// Type classifies this Info the way the rest of dirload does: raw
// (symlink-preserving) classification derived purely from Mod.
func (ii *Info) Type() FileType {
	return modeType(ii.Mod)
}

// IsSameFS reports whether a and b live on the same device.
func (a *Info) IsSameFS(b *Info) bool {
	return a.Dev == b.Dev && a.Rdev == b.Rdev
}

func (ii *Info) String() string {
	return fmt.Sprintf("%s: %d; %s; %s", ii.Name(), ii.Siz, ii.ModTime().UTC(), ii.Mode())
}

func ts2time(a syscall.Timespec) time.Time {
	return time.Unix(a.Sec, a.Nsec)
}
