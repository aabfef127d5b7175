// ftype.go - file type classification without following symlinks
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
	"io/fs"
	"os"
)

// FileType is a closed classification of a filesystem entry, derived
// solely from its own metadata.
type FileType int

const (
	Unsupported FileType = iota
	Dir
	Reg
	Device
	Symlink
)

func (t FileType) String() string {
	switch t {
	case Dir:
		return "dir"
	case Reg:
		return "reg"
	case Device:
		return "device"
	case Symlink:
		return "symlink"
	default:
		return "unsupported"
	}
}

func modeType(m fs.FileMode) FileType {
	switch {
	case m.IsDir():
		return Dir
	case m.IsRegular():
		return Reg
	case m&os.ModeSymlink != 0:
		return Symlink
	case m&(os.ModeDevice|os.ModeCharDevice) != 0:
		return Device
	default:
		return Unsupported
	}
}

// RawFileType classifies 'f' without following a trailing symlink.
// Any stat error maps to Unsupported rather than propagating.
func RawFileType(f string) FileType {
	fi, err := os.Lstat(f)
	if err != nil {
		return Unsupported
	}
	return modeType(fi.Mode())
}

// ResolvedFileType classifies 'f', following symlinks. The result is
// never Symlink. Any stat error maps to Unsupported.
func ResolvedFileType(f string) FileType {
	fi, err := os.Stat(f)
	if err != nil {
		return Unsupported
	}
	return modeType(fi.Mode())
}

// PathExists reports whether 'f' exists, without resolving a trailing
// symlink (a dangling symlink still "exists").
func PathExists(f string) bool {
	_, err := os.Lstat(f)
	return err == nil
}
