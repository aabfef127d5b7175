// path.go - path canonicalisation and classification helpers
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
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// CanonicalizeLexical removes redundant separators, ".", and ".." purely
// textually; it never touches the filesystem and works on nonexistent
// paths.
func CanonicalizeLexical(f string) string {
	return filepath.Clean(f)
}

// CanonicalizePhysical resolves symlinks for the longest existing prefix
// of 'f' and lexically normalises the remainder. It never fails: any
// component that cannot be resolved (because it doesn't exist, or a
// permission error) is passed through lexically instead.
func CanonicalizePhysical(f string) string {
	clean := filepath.Clean(f)
	if resolved, err := filepath.EvalSymlinks(clean); err == nil {
		return resolved
	}

	// Walk up until we find a prefix that resolves, then re-append the
	// unresolved suffix and clean the result.
	dir, base := filepath.Split(clean)
	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	if dir == "" || dir == clean {
		return clean
	}
	return filepath.Join(CanonicalizePhysical(dir), base)
}

// AbsPath returns the absolute, canonicalised form of 'f'. By default
// (lexical=false) it canonicalises physically, matching the behaviour
// callers throughout this program rely on.
func AbsPath(f string, lexical bool) (string, error) {
	var canon string
	if lexical {
		canon = CanonicalizeLexical(f)
	} else {
		canon = CanonicalizePhysical(f)
	}
	if filepath.IsAbs(canon) {
		return canon, nil
	}
	abs, err := filepath.Abs(canon)
	if err != nil {
		return "", err
	}
	return abs, nil
}

// DirName returns the parent directory of the canonicalised 'f'.
func DirName(f string, lexical bool) string {
	if lexical {
		return filepath.Dir(CanonicalizeLexical(f))
	}
	return filepath.Dir(CanonicalizePhysical(f))
}

// BaseName returns the final path component of the canonicalised 'f'.
func BaseName(f string, lexical bool) string {
	if lexical {
		return filepath.Base(CanonicalizeLexical(f))
	}
	return filepath.Base(CanonicalizePhysical(f))
}

// IsAbsPath reports whether 'f' is absolute after lexical normalisation.
func IsAbsPath(f string) bool {
	return filepath.IsAbs(CanonicalizeLexical(f))
}

// JoinPath produces the lexical normal form of canonicalise(f1)/f2.
func JoinPath(f1, f2 string, lexical bool) string {
	var base string
	if lexical {
		base = CanonicalizeLexical(f1)
	} else {
		base = CanonicalizePhysical(f1)
	}
	return filepath.Join(base, f2)
}

// IsDotPath reports whether 'f' is a dot-path: its basename begins with
// "." or any internal path component starts with "." (detected by the
// literal substring "/.").
func IsDotPath(f string) bool {
	if strings.HasPrefix(BaseName(f, true), ".") {
		return true
	}
	return strings.Contains(f, "/.")
}

// IsWindows reports whether this binary was built for Windows. dirload
// explicitly does not support Windows; callers reject at startup.
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// PathSeparator returns the OS path separator byte as a string.
func PathSeparator() string {
	return string(os.PathSeparator)
}
