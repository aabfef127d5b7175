// flags_test.go
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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kusumi/dirload/internal/dirload"
)

func TestBuildConfigFoldsMinutesAndSeconds(t *testing.T) {
	c := &cliFlags{
		writePathsBase: "base",
		writePathsType: "dr",
		pathIter:       "ordered",
		timeMinute:     1,
		timeSecond:     30,
	}
	cfg, err := buildConfig(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TimeSecond != 90 {
		t.Fatalf("got %d, want 90", cfg.TimeSecond)
	}
}

func TestBuildConfigRejectsBadWritePathsType(t *testing.T) {
	c := &cliFlags{
		writePathsBase: "base",
		writePathsType: "q",
		pathIter:       "ordered",
	}
	if _, err := buildConfig(c, nil); err == nil {
		t.Fatal("expected error for invalid write paths type")
	}
}

func TestBuildConfigRejectsBadPathIter(t *testing.T) {
	c := &cliFlags{
		writePathsBase: "base",
		writePathsType: "dr",
		pathIter:       "zigzag",
	}
	if _, err := buildConfig(c, nil); err == nil {
		t.Fatal("expected error for invalid path iter")
	}
}

func TestBuildConfigFlistFileForcesOrdered(t *testing.T) {
	c := &cliFlags{
		writePathsBase: "base",
		writePathsType: "dr",
		pathIter:       "walk",
		flistFile:      "/tmp/some.flist",
	}
	cfg, err := buildConfig(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PathIter != dirload.IterOrdered {
		t.Fatalf("got %v, want IterOrdered", cfg.PathIter)
	}
}

func TestBuildConfigNumericWritePathsBase(t *testing.T) {
	c := &cliFlags{
		writePathsBase: "3",
		writePathsType: "dr",
		pathIter:       "ordered",
	}
	cfg, err := buildConfig(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WritePathsBase != "xxx" {
		t.Fatalf("got %q, want %q", cfg.WritePathsBase, "xxx")
	}
}

func TestResolveInputsRejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "regular")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveInputs([]string{f}, true); err == nil {
		t.Fatal("expected error for non-directory input")
	}
}

func TestResolveInputsShallowPathNeedsForce(t *testing.T) {
	if _, err := resolveInputs([]string{"/tmp"}, false); err == nil {
		t.Fatal("expected shallow-path rejection without --force")
	}
}

func TestResolveInputsShallowPathWithForce(t *testing.T) {
	inputs, err := resolveInputs([]string{"/tmp"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 1 {
		t.Fatalf("got %d inputs, want 1", len(inputs))
	}
}

func TestResolveInputsDeepPathNoForceNeeded(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveInputs([]string{sub}, false); err != nil {
		t.Fatal(err)
	}
}
