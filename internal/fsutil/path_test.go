package fsutil

import (
	"fmt"
	"runtime"
	"testing"
)

func newAsserter(t *testing.T) func(cond bool, msg string, args ...interface{}) {
	return func(cond bool, msg string, args ...interface{}) {
		if cond {
			return
		}
		_, file, line, ok := runtime.Caller(1)
		if !ok {
			file = "???"
			line = 0
		}
		s := fmt.Sprintf(msg, args...)
		t.Fatalf("\n%s: %d: Assertion failed: %s\n", file, line, s)
	}
}

func TestCanonicalizeLexical(t *testing.T) {
	assert := newAsserter(t)

	cases := []struct{ in, out string }{
		{"/", "/"},
		{"/////", "/"},
		{"/..", "/"},
		{"/../", "/"},
		{"/root", "/root"},
		{"/root/", "/root"},
		{"/root/..", "/"},
		{"/root/../dev", "/dev"},
	}
	for _, c := range cases {
		got := CanonicalizeLexical(c.in)
		assert(got == c.out, "canonicalize(%q): got %q, want %q", c.in, got, c.out)
	}
}

func TestDirBaseName(t *testing.T) {
	assert := newAsserter(t)

	cases := []struct{ in, dir, base string }{
		{"/root", "/", "root"},
		{"/root/", "/", "root"},
		{"/root/../dev", "/", "dev"},
		{"/does/not/exist", "/does/not", "exist"},
		{"/does/not/./exist", "/does/not", "exist"},
		{"/does/not/../NOT/exist", "/does/NOT", "exist"},
	}
	for _, c := range cases {
		d := DirName(c.in, true)
		b := BaseName(c.in, true)
		assert(d == c.dir, "dirname(%q): got %q, want %q", c.in, d, c.dir)
		assert(b == c.base, "basename(%q): got %q, want %q", c.in, b, c.base)
	}
}

func TestIsAbsPath(t *testing.T) {
	assert := newAsserter(t)

	trueCases := []string{
		"/", "/////", "/..", "/../", "/root", "/root/",
		"/root/..", "/root/../dev", "/does/not/exist", "/does/not/../NOT/exist",
	}
	for _, f := range trueCases {
		assert(IsAbsPath(f), "%q should be absolute", f)
	}

	falseCases := []string{"xxx", "does/not/exist"}
	for _, f := range falseCases {
		assert(!IsAbsPath(f), "%q should not be absolute", f)
	}
}

func TestAbsPathIdempotent(t *testing.T) {
	assert := newAsserter(t)

	for _, f := range []string{"/root/../dev", "/does/not/./exist"} {
		once, err := AbsPath(f, true)
		assert(err == nil, "abspath(%q): %s", f, err)
		twice, err := AbsPath(once, true)
		assert(err == nil, "abspath(%q): %s", once, err)
		assert(once == twice, "abspath not idempotent: %q != %q", once, twice)
	}
}

func TestDirnameJoinRoundtrip(t *testing.T) {
	assert := newAsserter(t)

	for _, p := range []string{"/a/b/c", "/root/dev/xxx"} {
		dir := DirName(p, true)
		base := BaseName(p, true)
		joined := JoinPath(dir, base, true)
		got := DirName(joined, true)
		assert(got == dir, "dirname(join(dirname(p),basename(p))) = %q, want %q", got, dir)
	}
}

func TestIsDotPath(t *testing.T) {
	assert := newAsserter(t)

	dotList := []string{
		"/.", "/..", "./.", "./..",
		".git", "..git",
		"/path/to/.", "/path/to/..",
		"/path/to/.git/xxx", "/path/to/.git/.xxx",
		"/path/to/..git/xxx", "/path/to/..git/.xxx",
	}
	for _, f := range dotList {
		assert(IsDotPath(f), "%q should be a dot-path", f)
	}

	nonDotList := []string{
		"/", "xxx", "xxx.", "xxx..",
		"/path/to/xxx", "/path/to/xxx.", "/path/to/x.xxx.",
		"/path/to/git./xxx", "/path/to/git./xxx.", "/path/to/git./x.xxx.",
	}
	for _, f := range nonDotList {
		assert(!IsDotPath(f), "%q should not be a dot-path", f)
	}
}

func TestRemoveDupStrings(t *testing.T) {
	assert := newAsserter(t)

	in := []string{"a", "b", "c", "a", "b", "c"}
	out := RemoveDupStrings(in)
	assert(len(out) == 3, "expected 3 entries, got %d", len(out))
	for i, want := range []string{"a", "b", "c"} {
		assert(out[i] == want, "out[%d] = %q, want %q", i, out[i], want)
	}

	out2 := RemoveDupStrings(out)
	assert(len(out2) == len(out), "dedup not idempotent")
}

func TestFileTypeWellKnown(t *testing.T) {
	assert := newAsserter(t)

	for _, f := range []string{"/", "/dev", ".", ".."} {
		raw := RawFileType(f)
		resolved := ResolvedFileType(f)
		assert(raw == Dir, "%q: raw type = %s, want dir", f, raw)
		assert(resolved == Dir, "%q: resolved type = %s, want dir", f, resolved)
	}

	for _, f := range []string{"", "516e7cb4-6ecf-11d6-8ff8-00022d09712b"} {
		assert(RawFileType(f) == Unsupported, "%q: raw type should be unsupported", f)
		assert(ResolvedFileType(f) == Unsupported, "%q: resolved type should be unsupported", f)
	}
}

func TestPathExists(t *testing.T) {
	assert := newAsserter(t)

	for _, f := range []string{".", "..", "/", "/dev"} {
		assert(PathExists(f), "%q should exist", f)
	}
	for _, f := range []string{"", "516e7cb4-6ecf-11d6-8ff8-00022d09712b"} {
		assert(!PathExists(f), "%q should not exist", f)
	}
}
