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
//	-a string     bind address
//	-d string     PostgreSQL DSN
//	-k string     JWT signing secret
//	-t duration   token validity (e.g. 24h)
//
// os.Args is filtered to just these flags via flagx.FilterArgs so other
// components' flags don't interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "bind address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "JWT signing secret")
	fs.DurationVar(&cfg.TokenValidityDuration, "t", cfg.TokenValidityDuration, "token validity duration")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
