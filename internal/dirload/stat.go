// stat.go - per-worker statistics and the monitor's snapshot printer
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
	"io"
	"strconv"
	"strings"
	"time"
)

// ThreadStat is a per-worker mutable record. Counters are written only
// by the owning worker; the monitor reads them without locking, so
// torn reads of multi-word values are expected and tolerated -
// statistics are advisory, not authoritative.
type ThreadStat struct {
	isReader  bool
	inputPath string

	timeBegin time.Time
	timeEnd   time.Time

	numRepeat     uint64
	numStat       uint64
	numRead       uint64
	numReadBytes  uint64
	numWrite      uint64
	numWriteBytes uint64

	done bool
}

// NewReadStat returns a zeroed reader ThreadStat.
func NewReadStat() *ThreadStat { return newStat(true) }

// NewWriteStat returns a zeroed writer ThreadStat.
func NewWriteStat() *ThreadStat { return newStat(false) }

func newStat(isReader bool) *ThreadStat {
	now := time.Now()
	return &ThreadStat{
		isReader:  isReader,
		timeBegin: now,
		timeEnd:   now,
	}
}

func (ts *ThreadStat) IsReader() bool         { return ts.isReader }
func (ts *ThreadStat) InputPath() string      { return ts.inputPath }
func (ts *ThreadStat) SetInputPath(p string)  { ts.inputPath = p }
func (ts *ThreadStat) NumRepeat() uint64      { return ts.numRepeat }
func (ts *ThreadStat) NumStat() uint64        { return ts.numStat }
func (ts *ThreadStat) NumRead() uint64        { return ts.numRead }
func (ts *ThreadStat) NumReadBytes() uint64   { return ts.numReadBytes }
func (ts *ThreadStat) NumWrite() uint64       { return ts.numWrite }
func (ts *ThreadStat) NumWriteBytes() uint64  { return ts.numWriteBytes }
func (ts *ThreadStat) Done() bool             { return ts.done }

func (ts *ThreadStat) IncNumRepeat()                { ts.numRepeat++ }
func (ts *ThreadStat) IncNumStat()                  { ts.numStat++ }
func (ts *ThreadStat) IncNumRead()                  { ts.numRead++ }
func (ts *ThreadStat) AddNumReadBytes(n uint64)      { ts.numReadBytes += n }
func (ts *ThreadStat) IncNumWrite()                  { ts.numWrite++ }
func (ts *ThreadStat) AddNumWriteBytes(n uint64)      { ts.numWriteBytes += n }

// SetTimeBegin records the worker's dispatch time. Called by the
// dispatcher, not the worker, so time_begin reflects dispatch time.
func (ts *ThreadStat) SetTimeBegin(t time.Time) { ts.timeBegin = t }

// SetTimeEnd updates time_end; called by the worker on exit, and
// racily by the monitor on not-done workers each tick.
func (ts *ThreadStat) SetTimeEnd(t time.Time) { ts.timeEnd = t }

// SetDone marks this worker's loop as finished; transitions false->true
// exactly once in the worker's lifetime.
func (ts *ThreadStat) SetDone() { ts.done = true }

// TimeDiff returns time_end - time_begin.
func (ts *ThreadStat) TimeDiff() time.Duration {
	return ts.timeEnd.Sub(ts.timeBegin)
}

// SecElapsed reports whether more than d seconds have elapsed since
// time_begin. d <= 0 always returns false (no time budget configured).
func (ts *ThreadStat) SecElapsed(d int64) bool {
	if d <= 0 {
		return false
	}
	return time.Since(ts.timeBegin) > time.Duration(d)*time.Second
}

// PrintStat renders the column-aligned statistics table for 'stats' to
// w, matching the layout: index, type, repeat, stat, read, read[B],
// write, write[B], sec, MiB/sec, path.
func PrintStat(w io.Writer, stats []*ThreadStat) {
	width := func(header string, get func(*ThreadStat) string) int {
		width := len(header)
		for _, ts := range stats {
			if n := len(get(ts)); n > width {
				width = n
			}
		}
		return width
	}

	wRepeat := width("repeat", func(ts *ThreadStat) string { return strconv.FormatUint(ts.numRepeat, 10) })
	wStat := width("stat", func(ts *ThreadStat) string { return strconv.FormatUint(ts.numStat, 10) })
	wRead := width("read", func(ts *ThreadStat) string { return strconv.FormatUint(ts.numRead, 10) })
	wReadBytes := width("read[B]", func(ts *ThreadStat) string { return strconv.FormatUint(ts.numReadBytes, 10) })
	wWrite := width("write", func(ts *ThreadStat) string { return strconv.FormatUint(ts.numWrite, 10) })
	wWriteBytes := width("write[B]", func(ts *ThreadStat) string { return strconv.FormatUint(ts.numWriteBytes, 10) })
	wPath := width("path", func(ts *ThreadStat) string { return ts.inputPath })

	secStr := make([]string, len(stats))
	mibStr := make([]string, len(stats))
	wSec := len("sec")
	wMib := len("MiB/sec")
	for i, ts := range stats {
		sec := ts.TimeDiff().Seconds()
		secStr[i] = fmt.Sprintf("%.2f", sec)
		if len(secStr[i]) > wSec {
			wSec = len(secStr[i])
		}

		mib := float64(ts.numReadBytes+ts.numWriteBytes) / float64(1<<20)
		mibStr[i] = fmt.Sprintf("%.2f", mib/sec)
		if len(mibStr[i]) > wMib {
			wMib = len(mibStr[i])
		}
	}

	nlines := len(stats)
	widthIndex := 1
	if nlines > 0 {
		widthIndex = len(strconv.Itoa(nlines - 1))
	}

	labels := []string{"repeat", "stat", "read", "read[B]", "write", "write[B]", "sec", "MiB/sec", "path"}
	widths := []int{wRepeat, wStat, wRead, wReadBytes, wWrite, wWriteBytes, wSec, wMib, wPath}

	var b strings.Builder
	slen := 0

	fmt.Fprint(&b, strings.Repeat(" ", 1+widthIndex+1))
	slen += 1 + widthIndex + 1
	fmt.Fprintf(&b, "%-6s ", "type")
	slen += 6 + 1

	for i, label := range labels {
		fmt.Fprintf(&b, "%-*s", widths[i], label)
		slen += widths[i]
		if i != len(labels)-1 {
			fmt.Fprint(&b, " ")
			slen++
		}
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, strings.Repeat("-", slen))

	for i, ts := range stats {
		fmt.Fprintf(&b, "#%-*d ", widthIndex, i)
		if ts.isReader {
			fmt.Fprint(&b, "reader ")
		} else {
			fmt.Fprint(&b, "writer ")
		}
		fmt.Fprintf(&b, "%*d ", wRepeat, ts.numRepeat)
		fmt.Fprintf(&b, "%*d ", wStat, ts.numStat)
		fmt.Fprintf(&b, "%*d ", wRead, ts.numRead)
		fmt.Fprintf(&b, "%*d ", wReadBytes, ts.numReadBytes)
		fmt.Fprintf(&b, "%*d ", wWrite, ts.numWrite)
		fmt.Fprintf(&b, "%*d ", wWriteBytes, ts.numWriteBytes)
		fmt.Fprintf(&b, "%*s ", wSec, secStr[i])
		fmt.Fprintf(&b, "%*s ", wMib, mibStr[i])
		fmt.Fprintf(&b, "%-*s ", wPath, ts.inputPath)
		fmt.Fprintln(&b)
	}

	io.WriteString(w, b.String())
}
