package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/drivenpass/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-m string   storage backend: postgres | memory
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes (0 = no expiry)
//	-k string   secret cipher key
//	-b int      bcrypt cost
//	-n string   session backend: postgres | redis
//	-r string   Redis address
//	-o string   comma separated CORS origins
//	-l string   log backend: slog | zap
//	-v string   log level
//	-w int      shutdown timeout, seconds
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and foreign
// flags do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-d", "-s", "-t", "-k", "-b", "-n", "-r", "-o", "-l", "-v", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.StorageBackend, "m", config.StorageBackend, "storage backend (postgres|memory)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes, 0 = no expiry)")
	fs.StringVar(&config.CipherKey, "k", config.CipherKey, "cipher key")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.SessionBackend, "n", config.SessionBackend, "session backend (postgres|redis)")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	origins := fs.String("o", strings.Join(config.CORSOrigins, ","), "comma separated CORS origins")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend (slog|zap)")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")
	shutdownTimeout := fs.Int("w", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// converted values are applied only when given, so a sub-minute
	// validity from env or JSON survives an absent -t
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		case "o":
			config.CORSOrigins = flagx.SplitList(*origins)
		case "w":
			config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
		}
	})
}
