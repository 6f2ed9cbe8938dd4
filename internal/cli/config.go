package cli

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLogLevel     = "PAGEDFORM_LOG_LEVEL"
	EnvAddr         = "PAGEDFORM_ADDR"
	EnvStore        = "PAGEDFORM_STORE"
	EnvStoreDir     = "PAGEDFORM_STORE_DIR"
	EnvRedisAddr    = "PAGEDFORM_REDIS_ADDR"
	EnvRedisPrefix  = "PAGEDFORM_REDIS_PREFIX"
	EnvRedisTTL     = "PAGEDFORM_REDIS_TTL"
	EnvSealKey      = "PAGEDFORM_SEAL_KEY"
	EnvEncrypt      = "PAGEDFORM_ENCRYPT_SUBMISSIONS"
	EnvMask         = "PAGEDFORM_MASK_FIELDS"
	EnvMaxInputSize = "PAGEDFORM_MAX_INPUT_SIZE"
)

// Config holds the settings shared by every command. Flags override the
// environment, which overrides the defaults.
type Config struct {
	LogLevel     string
	Addr         string
	Store        string
	StoreDir     string
	RedisAddr    string
	RedisPrefix  string
	RedisTTL     time.Duration
	SealKey      string
	Encrypt      bool
	MaskFields   []string
	MaxInputSize int
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		Addr:      ":8080",
		Store:     StoreMemory,
		StoreDir:  "submissions",
		RedisAddr: "localhost:6379",
	}
}

// ConfigFromEnv layers the environment read through getenv over the defaults.
// A nil getenv reads the process environment.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvAddr, &cfg.Addr)
	str(EnvStore, &cfg.Store)
	str(EnvStoreDir, &cfg.StoreDir)
	str(EnvRedisAddr, &cfg.RedisAddr)
	str(EnvRedisPrefix, &cfg.RedisPrefix)
	str(EnvSealKey, &cfg.SealKey)

	if v := strings.TrimSpace(getenv(EnvRedisTTL)); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvRedisTTL, err)
		}
		cfg.RedisTTL = ttl
	}
	if v := strings.TrimSpace(getenv(EnvEncrypt)); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvEncrypt, err)
		}
		cfg.Encrypt = on
	}
	if v := strings.TrimSpace(getenv(EnvMask)); v != "" {
		cfg.MaskFields = splitList(v)
	}
	if v := strings.TrimSpace(getenv(EnvMaxInputSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("%s: must be a positive integer, got %q", EnvMaxInputSize, v)
		}
		cfg.MaxInputSize = n
	}
	return cfg, nil
}

// BindFlags registers persistent flags on cmd, using the current values as defaults.
func (c *Config) BindFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error) ["+EnvLogLevel+"]")
	f.StringVar(&c.Store, "store", c.Store, "submission store: memory, file or redis ["+EnvStore+"]")
	f.StringVar(&c.StoreDir, "store-dir", c.StoreDir, "directory of the file store ["+EnvStoreDir+"]")
	f.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "address of the redis store ["+EnvRedisAddr+"]")
	f.StringVar(&c.RedisPrefix, "redis-prefix", c.RedisPrefix, "key prefix of the redis store ["+EnvRedisPrefix+"]")
	f.DurationVar(&c.RedisTTL, "redis-ttl", c.RedisTTL, "expiry of stored submissions, 0 keeps them ["+EnvRedisTTL+"]")
	f.BoolVar(&c.Encrypt, "encrypt", c.Encrypt, "encrypt stored submissions with the seal key ["+EnvEncrypt+"]")
	f.StringSliceVar(&c.MaskFields, "mask", c.MaskFields, "regular expressions of fields masked before storage ["+EnvMask+"]")
	f.IntVar(&c.MaxInputSize, "max-input-size", c.MaxInputSize, "maximum bytes per submitted value ["+EnvMaxInputSize+"]")
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want %s, %s or %s)", c.Store, StoreMemory, StoreFile, StoreRedis)
	}
	if c.Encrypt && c.SealKey == "" {
		return fmt.Errorf("encryption needs a seal key (%s)", EnvSealKey)
	}
	for _, expr := range c.MaskFields {
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("mask %q: %w", expr, err)
		}
	}
	if c.RedisTTL < 0 {
		return fmt.Errorf("redis ttl must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
