// dispatch.go - the dispatcher and monitor (C9): one "set" of a run
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
	"strings"
	"sync"
	"time"

	"github.com/kusumi/dirload/internal/flist"
	"github.com/kusumi/dirload/internal/randtime"
	"github.com/kusumi/dirload/internal/workpool"
)

// Result is everything the dispatcher produces for one set.
type Result struct {
	Stats []*ThreadStat

	NumComplete    int
	NumInterrupted int
	NumError       int

	RemainingWritePaths []string
	UnlinkedCount       int
}

// Dispatch runs a single set: build per-root file lists, start the
// worker pool (and optional monitor), wait for every worker to
// terminate, then clean up the merged write-path log.
func Dispatch(cfg *Config, dbg *DebugLog) (*Result, error) {
	if cfg.NumReader == 0 && cfg.NumWriter == 0 {
		return &Result{}, nil
	}

	poolSize := int(cfg.NumReader + cfg.NumWriter)
	flists, err := buildFileLists(cfg)
	if err != nil {
		return nil, err
	}

	shared := NewDir(cfg.RandomWriteData)

	xts := make([]*XThread, poolSize)
	for gid := 0; gid < poolSize; gid++ {
		isReader := gid < int(cfg.NumReader)
		var dir *ThreadDir
		var stat *ThreadStat
		if isReader {
			dir = NewReaderDir(cfg.ReadBufferSize)
			stat = NewReadStat()
		} else {
			dir = NewWriterDir(cfg.WriteBufferSize)
			stat = NewWriteStat()
		}

		xts[gid] = &XThread{
			gid:      uint64(gid),
			isReader: isReader,
			dir:      dir,
			stat:     stat,
		}
	}

	done := make(chan struct{})
	var monitorWg sync.WaitGroup
	if cfg.MonitorIntervalSecond > 0 {
		monitorWg.Add(1)
		go func() {
			defer monitorWg.Done()
			monitorLoop(xts, cfg, done)
		}()
	}

	var wg sync.WaitGroup
	wg.Add(poolSize)
	now := time.Now()
	for gid := 0; gid < poolSize; gid++ {
		xt := xts[gid]
		inputIdx := gid % len(cfg.Inputs)
		inputPath := cfg.Inputs[inputIdx]
		fl := flists[inputIdx]

		xt.stat.SetTimeBegin(now)

		go func(xt *XThread, inputPath string, fl []string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					xt.numError = 1
					PrintException(dbg, fmt.Errorf("panic: %v", r))
					finishWorker(xt)
				}
			}()
			RunWorker(xt, inputPath, fl, cfg, shared, dbg)
		}(xt, inputPath, fl)
	}

	wg.Wait()
	close(done)
	monitorWg.Wait()

	res := &Result{Stats: make([]*ThreadStat, poolSize)}
	for i, xt := range xts {
		res.Stats[i] = xt.stat
		res.NumComplete += xt.numComplete
		res.NumInterrupted += xt.numInterrupted
		res.NumError += xt.numError
	}
	if res.NumComplete+res.NumInterrupted+res.NumError != poolSize {
		return nil, fmt.Errorf("dirload: internal error: terminal counters (%d) do not match pool size (%d)",
			res.NumComplete+res.NumInterrupted+res.NumError, poolSize)
	}

	logs := make([][]string, poolSize)
	for i, xt := range xts {
		logs[i] = xt.dir.WritePaths()
	}
	remaining, unlinked, err := CleanupWritePaths(logs, cfg.KeepWritePaths)
	if err != nil {
		return nil, err
	}
	res.RemainingWritePaths = remaining
	res.UnlinkedCount = unlinked

	return res, nil
}

// buildFileLists returns, per input index, the precomputed path list
// for non-Walk iteration (nil when PathIter == IterWalk). When
// cfg.FlistFile is set, it is loaded once and partitioned across
// inputs by path prefix; a root with no matching entries is a fatal
// configuration error.
func buildFileLists(cfg *Config) ([][]string, error) {
	flists := make([][]string, len(cfg.Inputs))
	if cfg.PathIter == IterWalk {
		return flists, nil
	}

	var all []string
	if cfg.FlistFile != "" {
		loaded, err := flist.Load(cfg.FlistFile)
		if err != nil {
			return nil, err
		}
		all = loaded
	}

	if cfg.FlistFile != "" {
		for i, root := range cfg.Inputs {
			var paths []string
			for _, p := range all {
				if strings.HasPrefix(p, root) {
					paths = append(paths, p)
				}
			}
			if len(paths) == 0 {
				return nil, fmt.Errorf("invalid argument: no flist entries for root %s", root)
			}
			flists[i] = paths
		}
		return flists, nil
	}

	// Each root's flist.Build is an independent filesystem walk; fan
	// them out across a small pool instead of building one at a time,
	// the way CollectWritePaths (the --clean_write_paths mode) already
	// parallelizes its per-root scans.
	pool := workpool.New(len(cfg.Inputs), func(_ int, idx int) error {
		root := cfg.Inputs[idx]
		built, err := flist.Build(root, cfg.IgnoreDot)
		if err != nil {
			return err
		}
		if len(built) == 0 {
			return fmt.Errorf("invalid argument: empty file list for %s", root)
		}
		flists[idx] = built
		return nil
	})
	for idx := range cfg.Inputs {
		pool.Submit(idx)
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	return flists, nil
}

// monitorLoop prints periodic snapshots of every worker's statistics
// until all workers are done, the process is interrupted, the global
// time budget (checked against the first worker's begin time) is
// exhausted, or 'done' is closed by the dispatcher.
func monitorLoop(xts []*XThread, cfg *Config, done <-chan struct{}) {
	timer := randtime.NewTimer(cfg.MonitorIntervalSecond, 0)

	for {
		select {
		case <-done:
			return
		default:
		}

		if Interrupted() {
			return
		}
		if len(xts) > 0 && xts[0].stat.SecElapsed(cfg.TimeSecond) {
			return
		}

		if timer.Elapsed() {
			allDone := true
			for _, xt := range xts {
				if !xt.stat.Done() {
					allDone = false
					xt.stat.SetTimeEnd(time.Now())
				}
			}
			if allDone {
				return
			}

			stats := make([]*ThreadStat, len(xts))
			for i, xt := range xts {
				stats[i] = xt.stat
			}
			PrintStat(os.Stdout, stats)
			timer.Reset()
		}

		select {
		case <-done:
			return
		case <-time.After(time.Second):
		}
	}
}
