// main.go - CLI entry point: flag parsing, pre-run gate, signal
// handling, and the num_set dispatch loop
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

// Command dirload is a multi-threaded POSIX filesystem load generator.
// See internal/dirload for the worker pool, write-path lifecycle, and
// dispatcher/monitor it drives.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/opencoff/go-logger"
	"github.com/opencoff/go-utils"

	"github.com/kusumi/dirload/internal/dirload"
	"github.com/kusumi/dirload/internal/flist"
	"github.com/kusumi/dirload/internal/fsutil"
	"github.com/kusumi/dirload/internal/selftest"
)

func main() {
	os.Exit(run(os.Args))
}

func run(argv []string) int {
	progname := filepath.Base(argv[0])

	// Hidden -x/-X short flags are handled ahead of the real flag set,
	// the way getopt_long's combined short-option string did: neither
	// has a long form, and -X exits with the number of failed checks
	// (0 when every check passes).
	for _, a := range argv[1:] {
		switch a {
		case "-x":
			printBuildFlags()
			return 0
		case "-X":
			res := selftest.Run()
			fmt.Printf("%d checks, %d failed\n", res.Total, len(res.Failures))
			for _, f := range res.Failures {
				fmt.Println("  FAIL:", f)
			}
			if res.Failed() {
				return len(res.Failures)
			}
			return 0
		}
	}

	fs, c := newFlagSet(progname)
	if err := fs.Parse(argv[1:]); err != nil {
		usage(fs)
		return 1
	}
	if c.version {
		fmt.Println(versionString())
		return 1
	}
	if c.help {
		usage(fs)
		return 1
	}

	args := fs.Args()
	if len(args) == 0 {
		usage(fs)
		return 1
	}

	if fsutil.IsWindows() {
		fmt.Println("Windows unsupported")
		return 1
	}
	if fsutil.PathSeparator() != "/" {
		fmt.Printf("Invalid path separator %s\n", fsutil.PathSeparator())
		return 1
	}

	inputs, err := resolveInputs(args, c.force)
	if err != nil {
		fmt.Println(err)
		return 1
	}

	cfg, err := buildConfig(c, inputs)
	if err != nil {
		fmt.Println(err)
		return 1
	}

	var dbg *dirload.DebugLog
	if cfg.Debug {
		log, err := logger.NewLogger(progname+".log", logger.LOG_DEBUG, progname,
			logger.Ldate|logger.Ltime|logger.Lmicroseconds|logger.Lfileloc)
		if err != nil {
			fmt.Println(err)
			return 1
		}
		defer log.Close()
		dbg = dirload.NewDebugLog(log)
	}

	for i, f := range inputs {
		dbg.Debugf("input[%d]: %s", i, f)
		if cfg.Verbose {
			fmt.Printf("input[%d]: %s\n", i, f)
		}
	}
	if cfg.Debug && cfg.NumWriter > 0 {
		ts := dirload.NewDir(false).Timestamp()
		for _, f := range inputs {
			dbg.Debugf("%s writable %v", f, fsutil.IsDirWritable(f, ts))
		}
	}

	// Create flist and exit.
	if cfg.FlistFileCreate {
		if cfg.FlistFile == "" {
			fmt.Println("Empty flist file path")
			return 1
		}
		var all []string
		for _, root := range inputs {
			paths, err := flist.Build(root, cfg.IgnoreDot)
			if err != nil {
				fmt.Println(err)
				return 1
			}
			all = append(all, paths...)
		}
		if err := flist.Create(cfg.FlistFile, all, cfg.Force); err != nil {
			fmt.Println(err)
			return 1
		}
		fmt.Println(cfg.FlistFile)
		return 0
	}

	// Clean write paths and exit.
	if cfg.CleanWritePaths {
		l, err := dirload.CollectWritePaths(inputs, cfg.WritePathsBase)
		if err != nil {
			fmt.Println(err)
			return 1
		}
		a := len(l)
		remaining, unlinked, err := dirload.UnlinkWritePaths(l, -1)
		if err != nil {
			fmt.Println(err)
			return 1
		}
		fmt.Printf("Unlinked %d / %d write paths\n", unlinked, a)
		if len(remaining) != 0 {
			fmt.Printf("%d / %d write paths remaining\n", len(remaining), a)
			return 1
		}
		return 0
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	go func() {
		for range sigCh {
			dirload.SetInterrupted()
		}
	}()
	defer signal.Stop(sigCh)
	defer printExceptions()

	for i := uint64(0); i < cfg.NumSet; i++ {
		if cfg.NumSet != 1 {
			fmt.Println(strings.Repeat("=", 80))
			fmt.Printf("Set %d/%d\n", i+1, cfg.NumSet)
			dbg.Debugf("Set %d/%d", i+1, cfg.NumSet)
		}

		result, err := dirload.Dispatch(&cfg, dbg)
		if err != nil {
			fmt.Println(err)
			return 1
		}

		if result.NumInterrupted > 0 {
			fmt.Printf("%d worker%s interrupted\n",
				result.NumInterrupted, plural(result.NumInterrupted))
		}
		if result.NumError > 0 {
			fmt.Printf("%d worker%s failed\n",
				result.NumError, plural(result.NumError))
		}
		if len(result.RemainingWritePaths) > 0 {
			fmt.Printf("%d write path%s remaining\n",
				len(result.RemainingWritePaths), plural(len(result.RemainingWritePaths)))
		}
		dirload.PrintStat(os.Stdout, result.Stats)
		printTotals(result.Stats)

		if result.NumInterrupted > 0 {
			break
		}
		if cfg.NumSet != 1 && i != cfg.NumSet-1 {
			fmt.Println()
		}
	}

	return 0
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// printTotals prints a single humanized summary line of total bytes
// moved across every worker in this set.
func printTotals(stats []*dirload.ThreadStat) {
	var read, written uint64
	for _, ts := range stats {
		read += ts.NumReadBytes()
		written += ts.NumWriteBytes()
	}
	fmt.Printf("total read %s, total write %s\n",
		utils.HumanizeSize(read), utils.HumanizeSize(written))
}

func printExceptions() {
	for _, msg := range dirload.DrainExceptions() {
		fmt.Println(msg)
	}
}
