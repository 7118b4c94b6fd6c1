package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/quaybank/teller/session"
)

const (
	baseURLVar        = "TELLER_BASE_URL"
	dataFolderVar     = "TELLER_FOLDER"
	sessionBackendVar = "TELLER_SESSION_BACKEND"
	redisAddrVar      = "TELLER_REDIS_ADDR"
	redisPasswordVar  = "TELLER_REDIS_PASSWORD"
	requestTimeoutVar = "TELLER_REQUEST_TIMEOUT"
)

const (
	defaultBaseURL        = "http://localhost:8000"
	defaultDataFolder     = "./data"
	defaultSessionBackend = "file"
	defaultRequestTimeout = 30 * time.Second
)

// SessionConfig selects where credentials persist between runs.
// Backend is one of "memory", "file" or "redis".
type SessionConfig struct {
	Backend string              `yaml:"backend"`
	Redis   session.RedisConfig `yaml:"redis"`
}

type Config struct {
	BaseURL        string        `yaml:"base_url"`
	DataFolder     string        `yaml:"data_folder"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Session        SessionConfig `yaml:"session"`
}

// Load reads the YAML config at path (missing files are fine, defaults
// apply) and then layers environment variable overrides on top.
func Load(path string) (Config, error) {
	cfg := Config{
		BaseURL:        defaultBaseURL,
		DataFolder:     defaultDataFolder,
		RequestTimeout: defaultRequestTimeout,
		Session:        SessionConfig{Backend: defaultSessionBackend},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, errors.Wrap(err, "[Load] yaml.Unmarshal")
			}
		case !os.IsNotExist(err):
			return Config{}, errors.Wrap(err, "[Load] os.ReadFile")
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BaseURL = GetEnv(baseURLVar, c.BaseURL)
	c.DataFolder = GetEnv(dataFolderVar, c.DataFolder)
	c.Session.Backend = GetEnv(sessionBackendVar, c.Session.Backend)
	c.Session.Redis.Addr = GetEnv(redisAddrVar, c.Session.Redis.Addr)
	c.Session.Redis.Password = GetEnv(redisPasswordVar, c.Session.Redis.Password)

	if v := os.Getenv(requestTimeoutVar); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		} else if secs, err := strconv.Atoi(v); err == nil {
			c.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
}

func (c Config) validate() error {
	switch c.Session.Backend {
	case "memory", "file":
	case "redis":
		if c.Session.Redis.Addr == "" {
			return errors.New("[validate] redis session backend requires an address")
		}
	default:
		return errors.Errorf("[validate] unknown session backend %q", c.Session.Backend)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("[validate] request timeout must be positive")
	}
	return nil
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
