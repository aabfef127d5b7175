// cleanup.go - write-path teardown (§4.10) and the out-of-band clean mode
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
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kusumi/dirload/internal/fsutil"
	"github.com/kusumi/dirload/internal/walk"
	"github.com/kusumi/dirload/internal/workpool"
)

// WritePathsPrefix returns the basename prefix shared by every path a
// writer creates: "dirload_<write_paths_base>".
func WritePathsPrefix(writePathsBase string) string {
	return "dirload_" + writePathsBase
}

// CleanupWritePaths merges every worker's write-path log and either
// reports its size (keep == true) or unlinks the whole thing.
func CleanupWritePaths(logs [][]string, keep bool) (remaining []string, unlinked int, err error) {
	var merged []string
	for _, log := range logs {
		merged = append(merged, log...)
	}

	if keep {
		return merged, 0, nil
	}
	return UnlinkWritePaths(merged, -1)
}

// UnlinkWritePaths removes entries from 'list' in reverse
// lexicographic order - so children are removed before their parents
// for paths that share a prefix - treating the list as a stack. count
// <= 0 removes everything; count > 0 removes at most
// min(count, len(list)). It returns the unremoved remainder.
//
// An entry whose raw type is neither Dir, Reg nor Symlink is a fatal
// invalid-argument error: cleanup stops immediately and that entry,
// plus everything not yet popped, is returned as the remainder.
func UnlinkWritePaths(list []string, count int) (remaining []string, unlinked int, err error) {
	work := make([]string, len(list))
	copy(work, list)
	sort.Strings(work)

	limit := len(work)
	if count > 0 && count < limit {
		limit = count
	}

	removed := 0
	for removed < limit {
		idx := len(work) - 1
		p := work[idx]

		if uerr := unlinkOne(p); uerr != nil {
			return work, removed, uerr
		}

		work = work[:idx]
		removed++
	}

	return work, removed, nil
}

func unlinkOne(p string) error {
	switch fsutil.RawFileType(p) {
	case fsutil.Symlink, fsutil.Dir, fsutil.Reg:
		return os.Remove(p)
	default:
		return fmt.Errorf("cleanup: %s: invalid argument (unrecognized type)", p)
	}
}

// CollectWritePaths recursively scans every (deduplicated) input root
// and returns every entry whose basename carries the write-path
// prefix for writePathsBase. Used by the standalone "clean" mode to
// recover after a crashed run.
func CollectWritePaths(inputs []string, writePathsBase string) ([]string, error) {
	roots := fsutil.RemoveDupStrings(inputs)
	prefix := WritePathsPrefix(writePathsBase)

	var mu sync.Mutex
	var collected []string

	pool := workpool.New(len(roots), func(_ int, root string) error {
		out, errch := walk.Walk([]string{root}, walk.Options{Type: walk.ALL})

		// errch is bounded to walk.Options.Concurrency; draining it
		// only after 'out' is fully read deadlocks once a walk emits
		// more errors than that bound, since a worker blocks pushing
		// to a full errch before it can let 'out' close. Drain both
		// concurrently.
		var firstErr error
		errDone := make(chan struct{})
		go func() {
			defer close(errDone)
			for e := range errch {
				if firstErr == nil {
					firstErr = fmt.Errorf("collect: %s: %w", root, e)
				}
			}
		}()

		var found []string
		for fi := range out {
			if strings.HasPrefix(filepath.Base(fi.Path()), prefix) {
				found = append(found, fi.Path())
			}
		}
		<-errDone

		mu.Lock()
		collected = append(collected, found...)
		mu.Unlock()

		return firstErr
	})
	for _, root := range roots {
		pool.Submit(root)
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	return collected, nil
}
