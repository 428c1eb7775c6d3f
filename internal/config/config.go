package config

import (
	"fmt"
	"os"

	"zerobin/internal/utils"
)

const (
	DATABASE_PATH = "DATABASE_PATH"
	ZERO_SALT     = "ZERO_SALT"
	ZERO_URL      = "ZERO_URL"
	LISTEN_ADDR   = "LISTEN_ADDR"
)

// Config is read once at startup and passed to whoever needs it. The
// salt feeds digest computation, BaseURL is the externally visible host
// rendered into response URLs.
type Config struct {
	DatabasePath string
	Salt         []byte
	BaseURL      string
	ListenAddr   string
}

func FromEnv() (Config, error) {
	var cfg Config

	salt := os.Getenv(ZERO_SALT)
	if salt == "" {
		return cfg, fmt.Errorf("%s needs to be set", ZERO_SALT)
	}
	cfg.Salt = []byte(salt)

	cfg.BaseURL = os.Getenv(ZERO_URL)
	if cfg.BaseURL == "" {
		return cfg, fmt.Errorf("%s needs to be set", ZERO_URL)
	}

	cfg.ListenAddr = os.Getenv(LISTEN_ADDR)
	if cfg.ListenAddr == "" {
		return cfg, fmt.Errorf("%s needs to be set", LISTEN_ADDR)
	}

	cfg.DatabasePath = os.Getenv(DATABASE_PATH)
	if cfg.DatabasePath == "" {
		homeDir, err := utils.GetZerobinHomeDirectory()
		if err != nil {
			return cfg, fmt.Errorf("utils.GetZerobinHomeDirectory(). %w", err)
		}
		cfg.DatabasePath = homeDir
	}

	return cfg, nil
}
