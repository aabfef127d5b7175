// flist.go - file-list builder and persistence
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

// Package flist builds and persists the precomputed path lists used by
// every non-Walk path-iteration mode: a newline delimited, lexically
// sorted snapshot of every regular file and symlink under a root.
package flist

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/kusumi/dirload/internal/fsutil"
	"github.com/kusumi/dirload/internal/walk"
)

// Build recursively enumerates 'root' and returns the absolute paths of
// every regular file and symlink reachable from it, skipping dot paths
// when ignoreDot is set. Directories are never included in the result.
func Build(root string, ignoreDot bool) ([]string, error) {
	opt := walk.Options{
		Type: walk.FILE | walk.SYMLINK,
	}
	if ignoreDot {
		opt.Filter = func(fi *fsutil.Info) (bool, error) {
			return fsutil.IsDotPath(fi.Path()), nil
		}
	}

	out, errch := walk.Walk([]string{root}, opt)

	var paths []string
	done := make(chan struct{})
	go func() {
		for fi := range out {
			paths = append(paths, fi.Path())
		}
		close(done)
	}()

	var errs []error
	for e := range errch {
		errs = append(errs, e)
	}
	<-done

	if len(errs) > 0 {
		return nil, fmt.Errorf("flist: %s: %v", root, errs[0])
	}

	sort.Strings(paths)
	return paths, nil
}

// Load reads a newline delimited path list previously written by Create.
func Load(path string) ([]string, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	var lines []string
	sc := bufio.NewScanner(fd)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := sc.Text(); len(line) > 0 {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Create writes 'paths' (sorted lexicographically) to 'path' as a
// newline delimited text file. It refuses to overwrite an existing
// file unless force is set, in which case the existing path must
// already be a regular file.
func Create(path string, paths []string, force bool) error {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	sf, err := newSafeFile(path, force)
	if err != nil {
		return err
	}
	defer sf.Abort()

	w := bufio.NewWriter(sf)
	for _, p := range sorted {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return sf.Close()
}
