// version.go - the version banner and hidden build-flag printer
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

package main

import (
	"fmt"
	"runtime"
)

var version = [3]int{0, 4, 0}

func versionString() string {
	return fmt.Sprintf("%d.%d.%d", version[0], version[1], version[2])
}

// printBuildFlags prints the build tags this binary was compiled with,
// the way the original's hidden -x flag reported its #ifdef-gated
// build options.
func printBuildFlags() {
	fmt.Println("Build options:")
	fmt.Printf("  go %s\n", runtime.Version())
	fmt.Printf("  %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  race %v\n", raceEnabled)
}
