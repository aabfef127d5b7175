// xthread.go - the per-worker composite and its terminal counters
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

// XThread is a per-worker composite: its group id, its exclusively
// owned ThreadDir and ThreadStat, and its terminal counters. Exactly
// one of numComplete, numInterrupted, numError is 1 once the worker
// has returned; the other two stay 0.
type XThread struct {
	gid      uint64
	isReader bool

	dir  *ThreadDir
	stat *ThreadStat

	numComplete    int
	numInterrupted int
	numError       int
}

func (xt *XThread) Gid() uint64          { return xt.gid }
func (xt *XThread) IsReader() bool       { return xt.isReader }
func (xt *XThread) Dir() *ThreadDir      { return xt.dir }
func (xt *XThread) Stat() *ThreadStat    { return xt.stat }
func (xt *XThread) NumComplete() int     { return xt.numComplete }
func (xt *XThread) NumInterrupted() int  { return xt.numInterrupted }
func (xt *XThread) NumError() int        { return xt.numError }
