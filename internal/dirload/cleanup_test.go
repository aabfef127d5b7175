package dirload

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUnlinkWritePathsTotality(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	var paths []string
	for i := 0; i < 5; i++ {
		p := filepath.Join(root, "f"+string(rune('a'+i)))
		assert(os.WriteFile(p, nil, 0o644) == nil, "setup WriteFile failed")
		paths = append(paths, p)
	}

	remaining, unlinked, err := UnlinkWritePaths(paths, -1)
	assert(err == nil, "UnlinkWritePaths: %s", err)
	assert(len(remaining) == 0, "expected no remainder, got %v", remaining)
	assert(unlinked == len(paths), "unlinked = %d, want %d", unlinked, len(paths))

	for _, p := range paths {
		_, err := os.Lstat(p)
		assert(os.IsNotExist(err), "%q should have been removed", p)
	}
}

func TestUnlinkWritePathsChildBeforeParent(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	parent := filepath.Join(root, "parent")
	child := filepath.Join(parent, "child")
	assert(os.Mkdir(parent, 0o755) == nil, "setup Mkdir failed")
	assert(os.WriteFile(child, nil, 0o644) == nil, "setup WriteFile failed")

	// unsorted on purpose: cleanup must still remove child before parent.
	remaining, unlinked, err := UnlinkWritePaths([]string{parent, child}, -1)
	assert(err == nil, "UnlinkWritePaths: %s", err)
	assert(unlinked == 2, "unlinked = %d, want 2", unlinked)
	assert(len(remaining) == 0, "expected no remainder")

	_, err = os.Lstat(parent)
	assert(os.IsNotExist(err), "parent should have been removed")
}

func TestUnlinkWritePathsCountLimit(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	var paths []string
	for i := 0; i < 4; i++ {
		p := filepath.Join(root, "f"+string(rune('a'+i)))
		assert(os.WriteFile(p, nil, 0o644) == nil, "setup WriteFile failed")
		paths = append(paths, p)
	}

	remaining, unlinked, err := UnlinkWritePaths(paths, 2)
	assert(err == nil, "UnlinkWritePaths: %s", err)
	assert(unlinked == 2, "unlinked = %d, want 2", unlinked)
	assert(len(remaining) == 2, "remaining = %d, want 2", len(remaining))
}

func TestUnlinkWritePathsUnknownTypeIsFatal(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	missing := filepath.Join(root, "does-not-exist")

	remaining, unlinked, err := UnlinkWritePaths([]string{missing}, -1)
	assert(err != nil, "expected an error for a nonexistent entry")
	assert(unlinked == 0, "unlinked = %d, want 0", unlinked)
	assert(len(remaining) == 1, "remaining should still list the offending entry")
}

func TestCleanupWritePathsKeep(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	p := filepath.Join(root, "f")
	assert(os.WriteFile(p, nil, 0o644) == nil, "setup WriteFile failed")

	remaining, unlinked, err := CleanupWritePaths([][]string{{p}}, true)
	assert(err == nil, "CleanupWritePaths: %s", err)
	assert(unlinked == 0, "keep mode should report 0 unlinked")
	assert(len(remaining) == 1, "keep mode should report the full remainder")

	_, statErr := os.Lstat(p)
	assert(statErr == nil, "keep mode must not remove anything")
}

func TestCollectWritePathsMatchesPrefix(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	hit := filepath.Join(root, "dirload_x_gid0_20240101000000_1")
	miss := filepath.Join(root, "other.txt")
	assert(os.WriteFile(hit, nil, 0o644) == nil, "setup WriteFile failed")
	assert(os.WriteFile(miss, nil, 0o644) == nil, "setup WriteFile failed")

	found, err := CollectWritePaths([]string{root}, "x")
	assert(err == nil, "CollectWritePaths: %s", err)
	assert(len(found) == 1, "expected 1 match, got %d: %v", len(found), found)
	assert(found[0] == hit, "found[0] = %q, want %q", found[0], hit)
}
