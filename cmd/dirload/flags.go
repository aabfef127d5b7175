// flags.go - command-line flag definitions and Config construction
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

	"github.com/kusumi/dirload/internal/dirload"
	"github.com/kusumi/dirload/internal/fsutil"
)

// cliFlags holds the raw flag destinations before normalization; most
// map straight onto a Config field, a few (path_iter, write_paths_type,
// the minute/second pairs) need post-parse folding.
type cliFlags struct {
	numSet    uint64
	numReader uint64
	numWriter uint64
	numRepeat int64

	timeMinute           int64
	timeSecond           int64
	monitorIntMinute     int64
	monitorIntSecond     int64

	statOnly           bool
	ignoreDot          bool
	followSymlink      bool
	randomWriteData    bool
	truncateWritePaths bool
	fsyncWritePaths    bool
	dirsyncWritePaths  bool
	keepWritePaths     bool
	cleanWritePaths    bool
	flistFileCreate    bool
	force              bool
	verbose            bool
	debug              bool

	readBufferSize  uint64
	writeBufferSize uint64
	readSize        int64
	writeSize       int64

	numWritePaths  int64
	writePathsBase string
	writePathsType string

	pathIter  string
	flistFile string

	version bool
	help    bool
}

func newFlagSet(progname string) (*flag.FlagSet, *cliFlags) {
	def := dirload.DefaultConfig()
	c := &cliFlags{}

	fs := flag.NewFlagSet(progname, flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	fs.Uint64Var(&c.numSet, "num_set", def.NumSet, "Number of sets to run")
	fs.Uint64Var(&c.numReader, "num_reader", 0, "Number of reader threads")
	fs.Uint64Var(&c.numWriter, "num_writer", 0, "Number of writer threads")
	fs.Int64Var(&c.numRepeat, "num_repeat", def.NumRepeat,
		"Exit threads after specified iterations if > 0")

	fs.Int64Var(&c.timeMinute, "time_minute", 0,
		"Exit threads after sum of this and --time_second option if > 0")
	fs.Int64Var(&c.timeSecond, "time_second", 0,
		"Exit threads after sum of this and --time_minute option if > 0")
	fs.Int64Var(&c.monitorIntMinute, "monitor_interval_minute", 0,
		"Monitor threads every sum of this and --monitor_interval_second option if > 0")
	fs.Int64Var(&c.monitorIntSecond, "monitor_interval_second", 0,
		"Monitor threads every sum of this and --monitor_interval_minute option if > 0")

	fs.BoolVar(&c.statOnly, "stat_only", false, "Do not read file data")
	fs.BoolVar(&c.ignoreDot, "ignore_dot", false, "Ignore entries that start with .")
	fs.BoolVar(&c.followSymlink, "follow_symlink", false,
		"Follow symbolic links for read unless directory")

	fs.Var(newSizeValue(def.ReadBufferSize, &c.readBufferSize), "read_buffer_size",
		"Read buffer size, accepts a plain integer or a k/M/G-suffixed size")
	fs.Int64Var(&c.readSize, "read_size", def.ReadSize,
		"Read residual size per file read, use < read_buffer_size random size if 0")
	fs.Var(newSizeValue(def.WriteBufferSize, &c.writeBufferSize), "write_buffer_size",
		"Write buffer size, accepts a plain integer or a k/M/G-suffixed size")
	fs.Int64Var(&c.writeSize, "write_size", def.WriteSize,
		"Write residual size per file write, use < write_buffer_size random size if 0")
	fs.BoolVar(&c.randomWriteData, "random_write_data", false, "Use pseudo random write data")

	fs.Int64Var(&c.numWritePaths, "num_write_paths", def.NumWritePaths,
		"Exit writer threads after creating specified files or directories if > 0")
	fs.BoolVar(&c.truncateWritePaths, "truncate_write_paths", false,
		"truncate(2) write paths for regular files instead of write(2)")
	fs.BoolVar(&c.fsyncWritePaths, "fsync_write_paths", false, "fsync(2) write paths")
	fs.BoolVar(&c.dirsyncWritePaths, "dirsync_write_paths", false,
		"fsync(2) parent directories of write paths")
	fs.BoolVar(&c.keepWritePaths, "keep_write_paths", false,
		"Do not unlink write paths after writer threads exit")
	fs.BoolVar(&c.cleanWritePaths, "clean_write_paths", false,
		"Unlink existing write paths and exit")
	fs.StringVar(&c.writePathsBase, "write_paths_base", def.WritePathsBase,
		"Base name for write paths")
	fs.StringVar(&c.writePathsType, "write_paths_type", "dr",
		"File types for write paths [d|r|s|l]")

	fs.StringVar(&c.pathIter, "path_iter", "ordered",
		"<paths> iteration type [walk|ordered|reverse|random]")
	fs.StringVar(&c.flistFile, "flist_file", "", "Path to flist file")
	fs.BoolVar(&c.flistFileCreate, "flist_file_create", false, "Create flist file and exit")

	fs.BoolVar(&c.force, "force", false, "Enable force mode")
	fs.BoolVar(&c.verbose, "verbose", false, "Enable verbose print")
	fs.BoolVar(&c.debug, "debug", false, "Enable debug mode")

	fs.BoolVarP(&c.version, "version", "v", false, "Print version and exit")
	fs.BoolVarP(&c.help, "help", "h", false, "Print usage and exit")

	return fs, c
}

// buildConfig normalizes the raw flag destinations into an immutable
// Config, folding minute/second pairs and validating every bounded
// option. The returned error's message is what the caller prints to
// stdout before exiting 1.
func buildConfig(c *cliFlags, inputs []string) (dirload.Config, error) {
	cfg := dirload.DefaultConfig()

	cfg.NumSet = c.numSet
	cfg.NumReader = c.numReader
	cfg.NumWriter = c.numWriter
	cfg.NumRepeat = dirload.NormalizeNumRepeat(c.numRepeat)

	cfg.TimeSecond = dirload.FoldMinutesSeconds(c.timeMinute, c.timeSecond)
	cfg.MonitorIntervalSecond = dirload.FoldMinutesSeconds(c.monitorIntMinute, c.monitorIntSecond)

	cfg.StatOnly = c.statOnly
	cfg.IgnoreDot = c.ignoreDot
	cfg.FollowSymlink = c.followSymlink
	cfg.RandomWriteData = c.randomWriteData
	cfg.TruncateWritePaths = c.truncateWritePaths
	cfg.FsyncWritePaths = c.fsyncWritePaths
	cfg.DirsyncWritePaths = c.dirsyncWritePaths
	cfg.KeepWritePaths = c.keepWritePaths
	cfg.CleanWritePaths = c.cleanWritePaths
	cfg.FlistFileCreate = c.flistFileCreate
	cfg.Force = c.force
	cfg.Verbose = c.verbose
	cfg.Debug = c.debug

	readBufferSize, err := dirload.NormalizeBufferSize(c.readBufferSize)
	if err != nil {
		return cfg, fmt.Errorf("invalid read buffer size %d", c.readBufferSize)
	}
	cfg.ReadBufferSize = readBufferSize

	writeBufferSize, err := dirload.NormalizeBufferSize(c.writeBufferSize)
	if err != nil {
		return cfg, fmt.Errorf("invalid write buffer size %d", c.writeBufferSize)
	}
	cfg.WriteBufferSize = writeBufferSize

	readSize, err := dirload.NormalizeSize(c.readSize)
	if err != nil {
		return cfg, fmt.Errorf("invalid read size %d", c.readSize)
	}
	cfg.ReadSize = readSize

	writeSize, err := dirload.NormalizeSize(c.writeSize)
	if err != nil {
		return cfg, fmt.Errorf("invalid write size %d", c.writeSize)
	}
	cfg.WriteSize = writeSize

	cfg.NumWritePaths = dirload.NormalizeNumWritePaths(c.numWritePaths)

	writePathsBase, err := dirload.NormalizeWritePathsBase(c.writePathsBase)
	if err != nil {
		return cfg, err
	}
	if writePathsBase != c.writePathsBase {
		fmt.Printf("Using base name %s for write paths\n", writePathsBase)
	}
	cfg.WritePathsBase = writePathsBase

	writePathsType, err := dirload.ParseWritePathsType(c.writePathsType)
	if err != nil {
		return cfg, err
	}
	cfg.WritePathsType = writePathsType

	pathIter, err := dirload.ParsePathIter(c.pathIter)
	if err != nil {
		return cfg, err
	}
	cfg.FlistFile = c.flistFile
	if cfg.FlistFile != "" && pathIter == dirload.IterWalk {
		fmt.Println("Using flist, force --path_iter=ordered")
		pathIter = dirload.IterOrdered
	}
	cfg.PathIter = pathIter

	cfg.Inputs = inputs
	return cfg, nil
}

// resolveInputs canonicalises every positional argument to an absolute
// path, rejects anything that isn't an existing directory, and rejects
// paths with fewer than three '/' separators unless force is set (the
// original's "/path/to/dir is allowed, /path/to is not" rule).
func resolveInputs(args []string, force bool) ([]string, error) {
	inputs := make([]string, 0, len(args))
	for _, a := range args {
		absf, err := fsutil.AbsPath(a, false)
		if err != nil {
			return nil, err
		}

		if fsutil.RawFileType(absf) != fsutil.Dir {
			return nil, fmt.Errorf("%s not directory", absf)
		}

		if !force {
			count := 0
			for _, r := range absf {
				if r == '/' {
					count++
				}
			}
			if count < 3 {
				return nil, fmt.Errorf(
					"%s not allowed, use --force option to proceed", absf)
			}
		}

		inputs = append(inputs, absf)
	}
	return inputs, nil
}
