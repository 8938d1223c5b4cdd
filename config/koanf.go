package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tripwise/config.yaml",
}

const ConfigPathEnvVar = "CONFIG_PATH"

// sliceConfigPaths may arrive from the environment as comma separated strings.
var sliceConfigPaths = []string{"cors.origins"}

var envMappings = map[string]string{
	"port":                  "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"shutdown_timeout":      "server.shutdown_timeout",
	"mongodb_uri":           "mongo.uri",
	"mongodb_database":      "mongo.database",
	"mongodb_seed_file":     "mongo.seed_file",
	"redis_addr":            "redis.addr",
	"redis_password":        "redis.password",
	"redis_db":              "redis.db",
	"cache_ttl":             "cache.ttl",
	"jwt_secret":            "auth.jwt_secret",
	"token_ttl":             "auth.token_ttl",
	"generator_url":         "generator.url",
	"generator_timeout":     "generator.timeout",
	"rate_limit_rps":        "ratelimit.rps",
	"rate_limit_burst":      "ratelimit.burst",
	"cors_origins":          "cors.origins",
	"log_level":             "log.level",
	"log_format":            "log.format",
	"export_share_base_url": "export.share_base_url",
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     7 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "tripwise",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Cache: CacheConfig{TTL: 5 * time.Minute},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Generator: GeneratorConfig{
			Timeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{RPS: 10, Burst: 20},
		CORS:      CORSConfig{Origins: []string{"*"}},
		Log:       LogConfig{Level: "info", Format: "json"},
		Export:    ExportConfig{ShareBaseURL: "http://localhost:8080"},
	}
}

// Load reads an optional .env file, then layers defaults, the config file
// and the environment, and validates the result.
func Load() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps known variables onto config keys; everything else
// is skipped so unrelated environment never leaks into the config.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
