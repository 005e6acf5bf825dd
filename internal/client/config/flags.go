package config

import (
	"flag"
	"os"

	"github.com/weesnerdevelopment/authkit/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   auth base URL (default from Config)
//	-d string   local credentials database path
//
// os.Args is filtered to just these flags via flagx.FilterArgs so other
// components' flags don't interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthBaseURL, "u", cfg.AuthBaseURL, "auth base URL")
	fs.StringVar(&cfg.CredentialsDB, "d", cfg.CredentialsDB, "credentials database path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
