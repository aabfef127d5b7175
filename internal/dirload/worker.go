// worker.go - the worker loop (C8): repeat until quota, timeout, or signal
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
	"time"

	"github.com/kusumi/dirload/internal/randtime"
	"github.com/kusumi/dirload/internal/walk"
)

type passOutcome int

const (
	passOK passOutcome = iota
	passError
	passInterrupted
	passCompleted
)

// RunWorker runs xt's full loop against a single input root: either a
// live recursive enumeration (PathIter == IterWalk) or indexed access
// into the precomputed list 'fl' (Ordered/Reverse/Random). It returns
// once the worker's terminal state (complete/interrupted/error) is
// set on xt and on xt.stat.
func RunWorker(xt *XThread, inputPath string, fl []string, cfg *Config, shared *Dir, dbg *DebugLog) {
	xt.stat.SetInputPath(inputPath)

	for {
		outcome := runOnePass(xt, inputPath, fl, cfg, shared, dbg)

		switch outcome {
		case passError:
			xt.numError = 1
			finishWorker(xt)
			return
		case passInterrupted:
			xt.numInterrupted = 1
			finishWorker(xt)
			return
		case passCompleted:
			xt.numComplete = 1
			finishWorker(xt)
			return
		}

		xt.stat.IncNumRepeat()

		if cfg.NumRepeat > 0 && xt.stat.NumRepeat() >= uint64(cfg.NumRepeat) {
			break
		}
		if !xt.isReader && IsWriteDone(xt.dir, cfg) {
			break
		}
	}

	xt.numComplete = 1
	finishWorker(xt)
}

func finishWorker(xt *XThread) {
	xt.stat.SetTimeEnd(time.Now())
	xt.stat.SetDone()
}

// runOnePass walks or samples inputPath/fl exactly once, applying the
// reader or writer engine to each entry until an error, an interrupt,
// or the time budget ends the pass early, or the entries are exhausted.
func runOnePass(xt *XThread, inputPath string, fl []string, cfg *Config, shared *Dir, dbg *DebugLog) passOutcome {
	process := func(f string) passOutcome {
		var err error
		if xt.isReader {
			err = ReadEntry(f, xt.dir, xt.stat, cfg)
		} else {
			err = WriteEntry(f, xt.dir, xt.stat, cfg, shared, xt.gid)
		}
		if err != nil {
			PrintException(dbg, err)
			return passError
		}
		if Interrupted() {
			return passInterrupted
		}
		if xt.stat.SecElapsed(cfg.TimeSecond) {
			return passCompleted
		}
		return passOK
	}

	if cfg.PathIter == IterWalk {
		out, errch := walk.Walk([]string{inputPath}, walk.Options{Type: walk.ALL})

		// errch is bounded to walk.Options.Concurrency; a worker
		// inside the walker blocks pushing to a full errch before it
		// can signal dirWg.Done(), so out never closes unless errch
		// is drained concurrently with out, not only after it. This
		// must hold on the happy path too, not only on early exit.
		errDone := make(chan struct{})
		go func() {
			defer close(errDone)
			for e := range errch {
				dbg.Errf("walk: %s", e)
			}
		}()

		outcome := passOK
		for fi := range out {
			if o := process(fi.Path()); o != passOK {
				outcome = o
				break
			}
		}

		if outcome != passOK {
			// The walker's own goroutines may still be mid-traversal;
			// drain 'out' in the background so it never blocks on a
			// channel nobody is reading anymore, and return without
			// waiting for the walk to fully wind down. errch is
			// already being drained concurrently above.
			go func() {
				for range out {
				}
			}()
			return outcome
		}

		<-errDone
		return outcome
	}

	n := len(fl)
	for i := 0; i < n; i++ {
		var idx int
		switch cfg.PathIter {
		case IterOrdered:
			idx = i
		case IterReverse:
			idx = n - 1 - i
		case IterRandom:
			idx = randtime.Random(0, n)
		}

		if o := process(fl[idx]); o != passOK {
			return o
		}
	}

	return passOK
}
