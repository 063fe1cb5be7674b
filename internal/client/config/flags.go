package config

import (
	"flag"
	"os"

	"github.com/fist-o/expoadmin/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend API (default from Config)
//	-d string   path of the local state database
//	-p int      rows per page on list screens
//
// The function filters os.Args to only include the flags it knows about so
// other packages' flags are left alone.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.StateDBPath, "d", cfg.StateDBPath, "path of the local state database")
	pageSize := fs.Int("p", cfg.PageSize, "rows per page on list screens")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *pageSize > 0 {
		cfg.PageSize = *pageSize
	}
}
