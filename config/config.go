// Package config loads settings from struct defaults, an optional YAML file
// and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Mongo     MongoConfig     `koanf:"mongo"`
	Redis     RedisConfig     `koanf:"redis"`
	Cache     CacheConfig     `koanf:"cache"`
	Auth      AuthConfig      `koanf:"auth"`
	Generator GeneratorConfig `koanf:"generator"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Export    ExportConfig    `koanf:"export"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MongoConfig selects the database. SeedFile, when set, names a JSON array
// of destinations upserted into the catalog at startup.
type MongoConfig struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
	SeedFile string `koanf:"seed_file"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

// GeneratorConfig points at the external itinerary generation service.
// An empty URL disables generation and optimization.
type GeneratorConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

type RateLimitConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type ExportConfig struct {
	ShareBaseURL string `koanf:"share_base_url"`
}

// Addr is the listen address for net/http.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Mongo.URI) == "" {
		errs = append(errs, errors.New("mongo.uri is required"))
	}
	if strings.TrimSpace(c.Mongo.Database) == "" {
		errs = append(errs, errors.New("mongo.database is required"))
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required (set JWT_SECRET)"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.RateLimit.RPS <= 0 {
		errs = append(errs, errors.New("ratelimit.rps must be positive"))
	}
	if c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("ratelimit.burst must be at least 1"))
	}
	return errors.Join(errs...)
}
