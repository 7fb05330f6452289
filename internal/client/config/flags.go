package config

import (
	"flag"
	"os"

	"github.com/mkalvans/farmline/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the REST backend
//	-r string   address of the realtime store (Redis)
//	-s string   storage scope: shared | isolated
//	-d string   state directory for the shared client database
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-s", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST backend")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "address of the realtime store")
	fs.StringVar(&cfg.StorageScope, "s", cfg.StorageScope, "storage scope: shared or isolated")
	fs.StringVar(&cfg.StateDir, "d", cfg.StateDir, "state directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
