// race.go - race detector build fact, race-enabled build
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

//go:build race

package main

// raceEnabled reports whether this binary was built with -race,
// the same go:build-flag-constant convention the standard library's
// own internal/race package uses.
const raceEnabled = true
