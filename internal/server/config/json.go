package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/drivenpass/internal/flagx"
	"github.com/dmitrijs2005/drivenpass/internal/timex"
)

// JsonConfig is the on-disk shape of the optional configuration file.
// Durations accept both strings such as "15m" and integer nanoseconds.
type JsonConfig struct {
	HTTPAddr              string         `json:"http_addr"`
	StorageBackend        string         `json:"storage_backend"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	CipherKey             string         `json:"cipher_key"`
	BcryptCost            int            `json:"bcrypt_cost"`
	SessionBackend        string         `json:"session_backend"`
	RedisAddr             string         `json:"redis_addr"`
	RedisPassword         string         `json:"redis_password"`
	RedisDB               int            `json:"redis_db"`
	CORSOrigins           []string       `json:"cors_origins"`
	LogBackend            string         `json:"log_backend"`
	LogLevel              string         `json:"log_level"`
	ShutdownTimeout       timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config (or $DRIVENPASS_CONFIG) and
// copies every non-zero value into config. Without a path nothing happens.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err = json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.CipherKey, c.CipherKey)
	setString(&config.SessionBackend, c.SessionBackend)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)

	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.RedisDB != 0 {
		config.RedisDB = c.RedisDB
	}
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
