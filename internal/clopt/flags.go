package clopt

import (
	"github.com/spf13/pflag"
)

// RegisterShared adds the flag set common to all five tools to fs, ready
// for a cobra command's Flags(). Call BindShared after parsing to copy
// the parsed values into opts.
func RegisterShared(fs *pflag.FlagSet) {
	fs.Int("threads", 0, "number of worker threads (0 = all CPUs)")
	fs.Int("dev", int(DevNormal), "developer message level (0-4)")
	fs.Bool("verbose", false, "print compile-time diagnostics")
	fs.Bool("nolog", false, "suppress the .log sidecar file")
	fs.Bool("low", false, "run at low scheduling priority")
	fs.Bool("estimate", false, "show a progress spinner during RAD bounce passes")
	fs.Bool("chart", false, "accepted but not read by any stage")
	fs.StringSlice("wadpath", nil, "directories to search for texture WADs")
}

// BindShared copies fs's parsed shared flags into opts.
func BindShared(fs *pflag.FlagSet, opts *Options) error {
	threads, err := fs.GetInt("threads")
	if err != nil {
		return err
	}
	dev, err := fs.GetInt("dev")
	if err != nil {
		return err
	}
	verbose, err := fs.GetBool("verbose")
	if err != nil {
		return err
	}
	nolog, err := fs.GetBool("nolog")
	if err != nil {
		return err
	}
	low, err := fs.GetBool("low")
	if err != nil {
		return err
	}
	estimate, err := fs.GetBool("estimate")
	if err != nil {
		return err
	}
	chart, err := fs.GetBool("chart")
	if err != nil {
		return err
	}
	wadpath, err := fs.GetStringSlice("wadpath")
	if err != nil {
		return err
	}

	opts.SetThreads(threads)
	opts.SetDev(DevLevel(dev))
	opts.mu.Lock()
	opts.Verbose = verbose
	opts.NoLog = nolog
	opts.LowPriority = low
	opts.Estimate = estimate
	opts.Chart = chart
	opts.WadDirs = wadpath
	opts.mu.Unlock()
	return nil
}
