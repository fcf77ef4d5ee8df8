package config

import (
	"errors"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// parseEnv overlays DRIVENPASS_* environment variables onto config. The
// given dotenv files (".env" when none) are loaded first if present; they
// never override variables already set in the process environment.
//
// List values such as DRIVENPASS_CORS_ORIGINS are separated by ";".
// Only variables that are set change the corresponding field. Numeric and
// duration fields are strict: a value that does not parse is an error.
func parseEnv(config *Config, envFiles ...string) {
	// a missing .env is normal outside development
	_ = godotenv.Load(envFiles...)

	err := envdecode.Decode(config)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		panic(err)
	}
}
