// selftest.go - the in-process self-test harness behind the hidden -X flag
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

// Package selftest exercises the testable properties of dirload's
// core packages from inside the built binary itself, the way the
// original's hidden "-X" flag ran its CPPUNIT suite without needing a
// separate test runner.
package selftest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kusumi/dirload/internal/dirload"
	"github.com/kusumi/dirload/internal/fsutil"
	"github.com/kusumi/dirload/internal/randtime"
)

// Result summarizes one Run.
type Result struct {
	Total    int
	Failures []string
}

// Failed reports whether any check failed.
func (r *Result) Failed() bool { return len(r.Failures) > 0 }

type check struct {
	name string
	fn   func() error
}

// Run executes every check and returns a Result. It never panics: a
// check that panics is recovered and recorded as a failure so the
// whole suite always finishes.
func Run() *Result {
	checks := []check{
		{"canonicalize_lexical", checkCanonicalizeLexical},
		{"is_dot_path", checkIsDotPath},
		{"is_abspath", checkIsAbspath},
		{"remove_dup_strings", checkRemoveDupStrings},
		{"file_type_well_known", checkFileTypeWellKnown},
		{"random_bounds", checkRandomBounds},
		{"timer_disabled", checkTimerDisabled},
		{"timer_elapses", checkTimerElapses},
		{"write_quota", checkWriteQuota},
		{"cleanup_totality", checkCleanupTotality},
	}

	res := &Result{Total: len(checks)}
	for _, c := range checks {
		if err := runGuarded(c.fn); err != nil {
			res.Failures = append(res.Failures, fmt.Sprintf("%s: %s", c.name, err))
		}
	}
	return res
}

func runGuarded(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func checkCanonicalizeLexical() error {
	cases := map[string]string{
		"/":         "/",
		"/////":     "/",
		"/..":       "/",
		"/root/..":  "/",
		"/root/../dev": "/dev",
	}
	for in, want := range cases {
		if got := fsutil.CanonicalizeLexical(in); got != want {
			return fmt.Errorf("canonicalize(%q) = %q, want %q", in, got, want)
		}
	}
	return nil
}

func checkIsDotPath() error {
	dotList := []string{"/.", "/..", ".git", "/path/to/.git/xxx"}
	for _, f := range dotList {
		if !fsutil.IsDotPath(f) {
			return fmt.Errorf("%q should be a dot-path", f)
		}
	}
	nonDotList := []string{"/", "xxx", "/path/to/git./xxx"}
	for _, f := range nonDotList {
		if fsutil.IsDotPath(f) {
			return fmt.Errorf("%q should not be a dot-path", f)
		}
	}
	return nil
}

func checkIsAbspath() error {
	if !fsutil.IsAbsPath("/a/b") {
		return fmt.Errorf("/a/b should be absolute")
	}
	if fsutil.IsAbsPath("a/b") {
		return fmt.Errorf("a/b should not be absolute")
	}
	return nil
}

func checkRemoveDupStrings() error {
	out := fsutil.RemoveDupStrings([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if len(out) != len(want) {
		return fmt.Errorf("dedup length = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			return fmt.Errorf("dedup[%d] = %q, want %q", i, out[i], want[i])
		}
	}
	return nil
}

func checkFileTypeWellKnown() error {
	for _, f := range []string{"/", "."} {
		if fsutil.RawFileType(f) != fsutil.Dir {
			return fmt.Errorf("%q raw type should be Dir", f)
		}
	}
	return nil
}

func checkRandomBounds() error {
	for i := 1; i < 1000; i++ {
		x := randtime.Random(0, i)
		if x < 0 || x >= i {
			return fmt.Errorf("Random(0,%d) = %d out of range", i, x)
		}
	}
	return nil
}

func checkTimerDisabled() error {
	timer := randtime.NewTimer(0, 0)
	if timer.Elapsed() {
		return fmt.Errorf("Timer(0,0) should never elapse")
	}
	return nil
}

func checkTimerElapses() error {
	timer := randtime.NewTimer(1, 0)
	if timer.Elapsed() {
		return fmt.Errorf("Timer(1,0) should not elapse immediately")
	}
	time.Sleep(1100 * time.Millisecond)
	if !timer.Elapsed() {
		return fmt.Errorf("Timer(1,0) should elapse after 1.1s")
	}
	return nil
}

func checkWriteQuota() error {
	root, err := os.MkdirTemp("", "dirload-selftest-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(root)

	cfg := dirload.DefaultConfig()
	cfg.NumWritePaths = 3
	cfg.WritePathsType = dirload.WPReg
	cfg.WriteSize = -1

	shared := dirload.NewDir(false)
	td := dirload.NewWriterDir(cfg.WriteBufferSize)
	ts := dirload.NewWriteStat()

	for i := 0; i < 10; i++ {
		if err := dirload.WriteEntry(root, td, ts, &cfg, shared, 0); err != nil {
			return err
		}
	}
	if len(td.WritePaths()) != 3 {
		return fmt.Errorf("write quota: got %d paths, want 3", len(td.WritePaths()))
	}
	return nil
}

func checkCleanupTotality() error {
	root, err := os.MkdirTemp("", "dirload-selftest-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(root)

	var paths []string
	for i := 0; i < 3; i++ {
		p := filepath.Join(root, fmt.Sprintf("f%d", i))
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			return err
		}
		paths = append(paths, p)
	}

	remaining, unlinked, err := dirload.UnlinkWritePaths(paths, -1)
	if err != nil {
		return err
	}
	if len(remaining) != 0 || unlinked != len(paths) {
		return fmt.Errorf("cleanup totality violated: remaining=%d unlinked=%d", len(remaining), unlinked)
	}
	return nil
}
