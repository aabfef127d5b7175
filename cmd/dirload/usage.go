// usage.go - usage text
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
	"os"

	flag "github.com/opencoff/pflag"
)

func usage(fs *flag.FlagSet) {
	fmt.Printf("Usage: %s [options] <paths>\n", fs.Name())
	fmt.Println("Options:")
	fs.PrintDefaults()
	os.Exit(1)
}
