package config

import (
	"flag"
	"os"
	"time"

	"github.com/mindscale/mindscale/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-r string   remote store endpoint URL
//	-k string   remote store access credential
//	-g string   analysis service credential
//	-d string   local cache DSN (default from Config)
//	-t int      analysis timeout in seconds (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-r", "-k", "-g", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RemoteURL, "r", cfg.RemoteURL, "remote store endpoint URL")
	fs.StringVar(&cfg.RemoteKey, "k", cfg.RemoteKey, "remote store access credential")
	fs.StringVar(&cfg.AnalysisKey, "g", cfg.AnalysisKey, "analysis service credential")
	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "local cache DSN")
	analysisTimeout := fs.Int("t", int(cfg.AnalysisTimeout.Seconds()), "analysis timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AnalysisTimeout = time.Duration(*analysisTimeout) * time.Second
}
