// Package config handles the configuration directory, the optional env file
// and the server settings derived from them.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "todod"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// EnvFile holds optional TODOD_* settings.
	EnvFile = "todod.env"
)

// Defaults used when neither the environment nor a flag sets a value.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8080
	DefaultFile = "tasks.txt"
)

// Environment variables read by New.
const (
	EnvHost       = "TODOD_HOST"
	EnvPort       = "TODOD_PORT"
	EnvFileVar    = "TODOD_FILE"
	EnvAddr       = "TODOD_ADDR"
	EnvMirrorList = "TODOD_MIRROR_LIST"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Host and Port are where serve listens.
	Host string
	Port int

	// File is the task persistence file.
	File string

	// Addr is the server base URL used by client commands.
	Addr string

	// MirrorList names the Google Tasks list to mirror into; empty disables it.
	MirrorList string
}

// New creates a Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todod or $HOME/.config/todod.
// Settings come from the process environment, then from todod.env in the
// config directory; the process environment wins.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	c := &Config{
		Dir:  dir,
		Host: DefaultHost,
		Port: DefaultPort,
		File: DefaultFile,
	}

	fileEnv, err := godotenv.Read(c.EnvPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("invalid %s: %w", EnvFile, err)
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(fileEnv[key])
	}

	if v := lookup(EnvHost); v != "" {
		c.Host = v
	}
	if v := lookup(EnvPort); v != "" {
		port, err := ParsePort(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvPort, err)
		}
		c.Port = port
	}
	if v := lookup(EnvFileVar); v != "" {
		c.File = v
	}
	c.Addr = lookup(EnvAddr)
	c.MirrorList = lookup(EnvMirrorList)
	return c, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ParsePort parses a TCP port number.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port: %s", s)
	}
	return port, nil
}

// ListenAddr returns host:port for the server.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ServerURL returns the base URL client commands talk to.
// Defaults to the configured listen address.
func (c *Config) ServerURL() string {
	if c.Addr != "" {
		return c.Addr
	}
	host := c.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = DefaultHost
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(c.Port))
}

// EnvPath returns the path to the optional env file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
