// walk.go - concurrent fs-walker
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

// Package walk does a concurrent file system traversal and returns
// each entry. Callers filter the returned entries via Options.Type or
// a caller supplied Filter function. The walker uses all available
// CPUs (runtime.NumCPU()) to maximize concurrency of the traversal,
// unless Options.Concurrency overrides it.
//
// It doubles as both the one-shot file-list builder (regular files and
// symlinks only, used to populate a precomputed path list) and the
// "Walk" path-iteration mode that re-enumerates a root on every
// worker pass, so it returns every entry type when asked.
package walk

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/kusumi/dirload/internal/fsutil"
)

// Type is an output filter that can be bitwise OR'd. It denotes the
// types of file system entries that will be returned to the caller.
type Type uint

const (
	FILE    Type = 1 << iota // regular file
	DIR                      // directory
	SYMLINK                  // symbolic link
	DEVICE                   // device special file (blk and char)
	SPECIAL                  // other special files

	// ALL is shorthand for "give me every entry".
	ALL = FILE | DIR | SYMLINK | DEVICE | SPECIAL
)

// Options control the behavior of the filesystem walk.
type Options struct {
	// Number of go-routines to use; 0 means use runtime.NumCPU().
	Concurrency int

	// Follow symlinks if set.
	FollowSymlinks bool

	// Stay within the same file-system as the walked roots.
	OneFS bool

	// Suppress entries whose (dev,rdev,ino) triple we've already
	// output once.
	IgnoreDuplicateInode bool

	// Types of entries to return.
	Type Type

	// Excludes is a list of shell-glob patterns matched against the
	// basename of each entry; matches are pruned from the walk.
	Excludes []string

	// Filter is an optional caller supplied predicate. Returning true
	// excludes the entry (and, for directories, its subtree) from
	// further traversal.
	Filter func(fi *fsutil.Info) (bool, error)
}

type walkState struct {
	Options
	ch    chan string
	out   chan *fsutil.Info
	errch chan error

	typ os.FileMode

	dirWg sync.WaitGroup
	wg    sync.WaitGroup

	filterName func(nm string) bool
	singlefs   func(fi *fsutil.Info) bool
	apply      func(fi *fsutil.Info)

	fs  *xsync.MapOf[string, *fsutil.Info]
	ino *xsync.MapOf[string, *fsutil.Info]
}

var typMap = map[Type]os.FileMode{
	FILE:    0,
	DIR:     os.ModeDir,
	SYMLINK: os.ModeSymlink,
	DEVICE:  os.ModeDevice | os.ModeCharDevice,
	SPECIAL: os.ModeNamedPipe | os.ModeSocket,
}

var strMap = map[Type]string{
	FILE:    "File",
	DIR:     "Dir",
	SYMLINK: "Symlink",
	DEVICE:  "Device",
	SPECIAL: "Special",
}

func (t Type) String() string {
	var z []string
	for k, v := range strMap {
		if (k & t) > 0 {
			z = append(z, v)
		}
	}
	return strings.Join(z, "|")
}

// Walk traverses 'names' concurrently and returns entries on a channel
// of *fsutil.Info. The caller must drain the channel. Errors encountered
// during the walk are delivered on the returned error channel.
func Walk(names []string, opt Options) (chan *fsutil.Info, chan error) {
	if opt.Concurrency <= 0 {
		opt.Concurrency = runtime.NumCPU()
	}

	out := make(chan *fsutil.Info, opt.Concurrency)
	d := newWalkState(opt)

	d.apply = func(fi *fsutil.Info) {
		out <- fi
	}

	d.doWalk(names)

	go func() {
		d.dirWg.Wait()
		close(d.ch)
		close(out)
		close(d.errch)
		d.wg.Wait()
	}()

	return out, d.errch
}

// WalkFunc traverses 'names' concurrently and calls 'apply' for each
// entry matching 'opt'. apply must be concurrency safe: it is called
// from multiple go-routines. Errors returned by apply are joined and
// returned from WalkFunc.
func WalkFunc(names []string, opt Options, apply func(fi *fsutil.Info) error) error {
	if opt.Concurrency <= 0 {
		opt.Concurrency = runtime.NumCPU()
	}

	d := newWalkState(opt)

	d.apply = func(fi *fsutil.Info) {
		if err := apply(fi); err != nil {
			d.errch <- err
		}
	}

	d.doWalk(names)

	var errWg sync.WaitGroup
	var errs []error

	errWg.Add(1)
	go func(in chan error) {
		for e := range in {
			errs = append(errs, e)
		}
		errWg.Done()
	}(d.errch)

	d.dirWg.Wait()
	close(d.ch)
	close(d.errch)
	errWg.Wait()
	d.wg.Wait()

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func newWalkState(opt Options) *walkState {
	d := &walkState{
		Options: opt,
		ch:      make(chan string, opt.Concurrency),
		errch:   make(chan error, opt.Concurrency),
		fs:      xsync.NewMapOf[string, *fsutil.Info](),
		ino:     xsync.NewMapOf[string, *fsutil.Info](),

		filterName: func(_ string) bool { return false },
		singlefs:   func(_ *fsutil.Info) bool { return true },
	}

	if len(d.Excludes) > 0 {
		d.filterName = d.exclude
	}

	if d.OneFS {
		d.singlefs = d.isSingleFS
	}

	if d.Filter == nil {
		d.Filter = func(_ *fsutil.Info) (bool, error) { return false, nil }
	}

	t := d.Type
	for k, v := range typMap {
		if (t & k) > 0 {
			d.typ |= v
		}
	}

	d.wg.Add(d.Concurrency)
	for i := 0; i < d.Concurrency; i++ {
		go d.worker()
	}
	return d
}

func (d *walkState) doWalk(names []string) {
	dirs := make([]string, 0, len(names))
	for i := range names {
		nm := strings.TrimSuffix(names[i], "/")
		if len(nm) == 0 {
			nm = "/"
		}

		if d.filterName(nm) {
			continue
		}

		fi, err := fsutil.Lstat(nm)
		if err != nil {
			d.error(&Error{"lstat", nm, err})
			continue
		}

		if d.isEntrySeen(fi) {
			continue
		}

		skip, err := d.Filter(fi)
		if err != nil {
			d.error(&Error{"filter", nm, err})
			continue
		}
		if skip {
			continue
		}

		m := fi.Mode()
		switch {
		case m.IsDir():
			d.output(fi)
			if d.OneFS {
				d.trackFS(fi)
			}
			dirs = append(dirs, nm)

		case (m & os.ModeSymlink) > 0:
			dirs = d.doSymlink(fi, dirs)

		default:
			d.output(fi)
		}
	}

	d.enq(dirs)
}

func (d *walkState) worker() {
	for nm := range d.ch {
		if _, err := fsutil.Lstat(nm); err != nil {
			d.error(&Error{"lstat-wrk", nm, err})
			d.dirWg.Done()
			continue
		}

		d.walkPath(nm)

		d.dirWg.Done()
	}

	d.wg.Done()
}

func (d *walkState) output(fi *fsutil.Info) {
	m := fi.Mode()
	if (d.typ&m) > 0 || ((d.Type&FILE) > 0 && m.IsRegular()) {
		d.apply(fi)
	}
}

func (d *walkState) exclude(nm string) bool {
	bn := path.Base(nm)
	for _, pat := range d.Excludes {
		ok, err := path.Match(pat, bn)
		if err != nil {
			d.error(&Error{"exclude-glob", nm, fmt.Errorf("'%s': %w", pat, err)})
		} else if ok {
			return true
		}
	}
	return false
}

func (d *walkState) enq(dirs []string) {
	if len(dirs) > 0 {
		d.dirWg.Add(len(dirs))
		go func(dirs []string) {
			for _, nm := range dirs {
				d.ch <- nm
			}
		}(dirs)
	}
}

func readDir(nm string) ([]string, error) {
	fd, err := os.Open(nm)
	if err != nil {
		return nil, &Error{"readdir", nm, err}
	}
	defer fd.Close()

	names, err := fd.Readdirnames(-1)
	if err != nil {
		return nil, &Error{"readdirnames", nm, err}
	}
	return names, nil
}

func (d *walkState) walkPath(nm string) {
	names, err := readDir(nm)
	if err != nil {
		d.error(err)
		return
	}

	if nm == "/" {
		nm = ""
	}

	dirs := make([]string, 0, len(names)/2)
	for i := range names {
		entry := names[i]

		// filepath.Join would lexically clean the path and hide a
		// leading dot-component; build it by hand instead.
		fp := fmt.Sprintf("%s/%s", nm, entry)

		if d.filterName(fp) {
			continue
		}

		fi, err := fsutil.Lstat(fp)
		if err != nil {
			d.error(&Error{"lstat", fp, err})
			continue
		}

		if d.isEntrySeen(fi) {
			continue
		}

		skip, err := d.Filter(fi)
		if err != nil {
			d.error(&Error{"filter", fp, err})
			continue
		}
		if skip {
			continue
		}

		m := fi.Mode()
		switch {
		case m.IsDir():
			d.output(fi)
			if d.singlefs(fi) {
				dirs = append(dirs, fp)
			}

		case (m & os.ModeSymlink) > 0:
			dirs = d.doSymlink(fi, dirs)

		default:
			d.output(fi)
		}
	}

	d.enq(dirs)
}

// doSymlink processes a symlink entry, following it when FollowSymlinks
// is set, and returns the (possibly extended) dirs slice.
func (d *walkState) doSymlink(fi *fsutil.Info, dirs []string) []string {
	if !d.FollowSymlinks {
		d.output(fi)
		return dirs
	}

	nm := fi.Path()
	newnm, err := filepath.EvalSymlinks(nm)
	if err != nil {
		d.error(&Error{"symlink", nm, err})
		return dirs
	}

	resolved, err := fsutil.Stat(newnm)
	if err != nil {
		d.error(&Error{"symlink-stat", newnm, err})
		return dirs
	}

	if !d.isEntrySeen(resolved) {
		switch {
		case resolved.Mode().IsDir():
			d.output(resolved)
			if d.singlefs(resolved) {
				dirs = append(dirs, newnm)
			}
		default:
			d.output(resolved)
		}
	}

	return dirs
}

// isEntrySeen tracks (dev,rdev,ino) to detect hardlinks and loops.
func (d *walkState) isEntrySeen(fi *fsutil.Info) bool {
	if !d.IgnoreDuplicateInode {
		return false
	}

	key := fmt.Sprintf("%d:%d:%d", fi.Dev, fi.Rdev, fi.Ino)
	x, loaded := d.ino.LoadOrStore(key, fi)
	if !loaded {
		return false
	}

	return x.Dev == fi.Dev && x.Rdev == fi.Rdev && x.Ino == fi.Ino
}

func (d *walkState) trackFS(fi *fsutil.Info) {
	key := fmt.Sprintf("%d:%d", fi.Dev, fi.Rdev)
	d.fs.Store(key, fi)
}

func (d *walkState) isSingleFS(fi *fsutil.Info) bool {
	key := fmt.Sprintf("%d:%d", fi.Dev, fi.Rdev)
	_, ok := d.fs.Load(key)
	return ok
}

func (d *walkState) error(e error) {
	d.errch <- e
}
