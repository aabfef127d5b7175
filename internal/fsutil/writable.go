// writable.go - directory writability probe
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

package fsutil

import (
	"fmt"
	"os"
)

// IsDirWritable attempts to create a uniquely named empty directory
// under 'dir' and immediately remove it, returning false on any error.
// 'uniq' (typically the run timestamp) is embedded in the probe name to
// avoid collisions with concurrent probes.
func IsDirWritable(dir, uniq string) bool {
	if RawFileType(dir) != Dir {
		return false
	}

	name := fmt.Sprintf("dirload_write_test_%s", uniq)
	probe := JoinPath(dir, name, false)

	if err := os.Mkdir(probe, 0o700); err != nil {
		return false
	}
	if err := os.Remove(probe); err != nil {
		return false
	}
	return true
}
