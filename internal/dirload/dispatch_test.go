package dirload

import (
	"os"
	"path/filepath"
	"testing"
)

func mkfiles(t *testing.T, root string, n int) {
	for i := 0; i < n; i++ {
		p := filepath.Join(root, "f"+string(rune('a'+i)))
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDispatchReaderOverRegularFiles(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	mkfiles(t, root, 10)

	cfg := DefaultConfig()
	cfg.Inputs = []string{root}
	cfg.NumReader = 1
	cfg.NumRepeat = 1
	cfg.PathIter = IterOrdered

	res, err := Dispatch(&cfg, nil)
	assert(err == nil, "Dispatch: %s", err)
	assert(len(res.Stats) == 1, "expected 1 worker stat, got %d", len(res.Stats))
	assert(res.Stats[0].NumRead() >= 10, "num_read = %d, want >= 10", res.Stats[0].NumRead())
	assert(res.Stats[0].NumStat() >= 10, "num_stat = %d, want >= 10", res.Stats[0].NumStat())
	assert(len(res.RemainingWritePaths) == 0, "a pure-reader run should leave no write paths")
}

func TestDispatchEmptyTreeFails(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()

	cfg := DefaultConfig()
	cfg.Inputs = []string{root}
	cfg.NumReader = 1
	cfg.PathIter = IterOrdered

	_, err := Dispatch(&cfg, nil)
	assert(err != nil, "Dispatch over an empty tree should fail")
}

func TestDispatchNoWorkersIsEmptyNotError(t *testing.T) {
	assert := newAsserter(t)

	cfg := DefaultConfig()
	cfg.Inputs = []string{t.TempDir()}

	res, err := Dispatch(&cfg, nil)
	assert(err == nil, "num_reader == num_writer == 0 should not error")
	assert(len(res.Stats) == 0, "expected no worker stats")
}

func TestDispatchWriterQuotaAcrossWorkers(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	mkfiles(t, root, 10)

	cfg := DefaultConfig()
	cfg.Inputs = []string{root}
	cfg.NumWriter = 2
	cfg.NumWritePaths = 4
	cfg.WritePathsType = WPReg
	cfg.WriteSize = -1
	cfg.PathIter = IterOrdered

	res, err := Dispatch(&cfg, nil)
	assert(err == nil, "Dispatch: %s", err)
	assert(res.UnlinkedCount == 8, "unlinked = %d, want 8", res.UnlinkedCount)
	assert(len(res.RemainingWritePaths) == 0, "expected no remaining write paths after cleanup")
}

func TestDispatchKeepWritePaths(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	mkfiles(t, root, 10)

	cfg := DefaultConfig()
	cfg.Inputs = []string{root}
	cfg.NumWriter = 1
	cfg.NumWritePaths = 2
	cfg.WritePathsType = WPDir
	cfg.KeepWritePaths = true
	cfg.PathIter = IterOrdered

	res, err := Dispatch(&cfg, nil)
	assert(err == nil, "Dispatch: %s", err)
	assert(len(res.RemainingWritePaths) == 2, "remaining = %d, want 2", len(res.RemainingWritePaths))
	assert(res.UnlinkedCount == 0, "keep mode should report 0 unlinked")

	for _, p := range res.RemainingWritePaths {
		fi, err := os.Stat(p)
		assert(err == nil, "remaining path should still exist: %s", err)
		assert(fi.IsDir(), "remaining path should be the directory type requested")
		assert(filepath.Dir(p) == root, "remaining path should be a direct child of the input root")
	}
}

func TestDispatchTerminationTotality(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	mkfiles(t, root, 5)

	cfg := DefaultConfig()
	cfg.Inputs = []string{root}
	cfg.NumReader = 2
	cfg.NumWriter = 1
	cfg.NumWritePaths = 1
	cfg.WritePathsType = WPReg
	cfg.WriteSize = -1
	cfg.NumRepeat = 1
	cfg.PathIter = IterOrdered

	res, err := Dispatch(&cfg, nil)
	assert(err == nil, "Dispatch: %s", err)

	total := res.NumComplete + res.NumInterrupted + res.NumError
	assert(total == 3, "num_complete+num_interrupted+num_error = %d, want 3", total)
}
