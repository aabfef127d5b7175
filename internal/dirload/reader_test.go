package dirload

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadFileToEOF(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	f := filepath.Join(root, "f")
	content := make([]byte, 10000)
	assert(os.WriteFile(f, content, 0o644) == nil, "setup WriteFile failed")

	cfg := testConfig(t)
	cfg.ReadBufferSize = 4096
	cfg.ReadSize = -1

	td := NewReaderDir(cfg.ReadBufferSize)
	ts := NewReadStat()

	assert(ReadEntry(f, td, ts, cfg) == nil, "ReadEntry failed")
	assert(ts.NumReadBytes() == uint64(len(content)), "num_read_bytes = %d, want %d", ts.NumReadBytes(), len(content))
	assert(ts.NumStat() == 1, "num_stat = %d, want 1", ts.NumStat())
}

func TestReadFileExactResidual(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	f := filepath.Join(root, "f")
	content := make([]byte, 10000)
	assert(os.WriteFile(f, content, 0o644) == nil, "setup WriteFile failed")

	cfg := testConfig(t)
	cfg.ReadBufferSize = 4096
	cfg.ReadSize = 5000

	td := NewReaderDir(cfg.ReadBufferSize)
	ts := NewReadStat()

	assert(ReadEntry(f, td, ts, cfg) == nil, "ReadEntry failed")
	assert(ts.NumReadBytes() == 5000, "num_read_bytes = %d, want 5000", ts.NumReadBytes())
}

func TestReadStatOnlySkipsContent(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	f := filepath.Join(root, "f")
	assert(os.WriteFile(f, []byte("hello"), 0o644) == nil, "setup WriteFile failed")

	cfg := testConfig(t)
	cfg.StatOnly = true

	td := NewReaderDir(cfg.ReadBufferSize)
	ts := NewReadStat()

	assert(ReadEntry(f, td, ts, cfg) == nil, "ReadEntry failed")
	assert(ts.NumStat() == 1, "num_stat = %d, want 1", ts.NumStat())
	assert(ts.NumReadBytes() == 0, "stat_only must not read any bytes")
}

func TestReadIgnoreDotSkipsDotPath(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	dotdir := filepath.Join(root, ".git")
	assert(os.Mkdir(dotdir, 0o755) == nil, "setup Mkdir failed")
	f := filepath.Join(dotdir, "f")
	assert(os.WriteFile(f, []byte("hello"), 0o644) == nil, "setup WriteFile failed")

	cfg := testConfig(t)
	cfg.IgnoreDot = true

	td := NewReaderDir(cfg.ReadBufferSize)
	ts := NewReadStat()

	assert(ReadEntry(f, td, ts, cfg) == nil, "ReadEntry failed")
	assert(ts.NumReadBytes() == 0, "ignore_dot must skip reading a dot-path's content")
}

func TestReadDirAndDeviceAreNoOps(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	cfg := testConfig(t)

	td := NewReaderDir(cfg.ReadBufferSize)
	ts := NewReadStat()

	assert(ReadEntry(root, td, ts, cfg) == nil, "ReadEntry on a directory should succeed as a no-op")
	assert(ts.NumRead() == 0, "directories must not be 'read'")
}

func TestReadSymlinkFollow(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	target := filepath.Join(root, "target")
	assert(os.WriteFile(target, []byte("hello world"), 0o644) == nil, "setup WriteFile failed")
	link := filepath.Join(root, "link")
	assert(os.Symlink(target, link) == nil, "setup Symlink failed")

	cfg := testConfig(t)
	cfg.FollowSymlink = true
	cfg.ReadSize = -1

	td := NewReaderDir(cfg.ReadBufferSize)
	ts := NewReadStat()

	assert(ReadEntry(link, td, ts, cfg) == nil, "ReadEntry failed")
	// num_stat: once for the symlink itself, once more after resolving it.
	assert(ts.NumStat() == 2, "num_stat = %d, want 2", ts.NumStat())
	assert(ts.NumReadBytes() >= uint64(len("hello world")), "expected the target's content to have been read")
}

func TestReadSymlinkNoFollow(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	target := filepath.Join(root, "target")
	assert(os.WriteFile(target, []byte("hello world"), 0o644) == nil, "setup WriteFile failed")
	link := filepath.Join(root, "link")
	assert(os.Symlink(target, link) == nil, "setup Symlink failed")

	cfg := testConfig(t)
	cfg.FollowSymlink = false

	td := NewReaderDir(cfg.ReadBufferSize)
	ts := NewReadStat()

	before := ts.NumReadBytes()
	assert(ReadEntry(link, td, ts, cfg) == nil, "ReadEntry failed")
	assert(ts.NumReadBytes() == before+uint64(len(target)), "link target length should be the only bytes counted")
}
