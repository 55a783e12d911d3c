package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"airoi/internal/crypto"
	"airoi/internal/dialer"
	"airoi/internal/domain"
	"airoi/internal/services/message"
	"airoi/internal/store"
)

// ConfigFilename is looked up inside Home.
const ConfigFilename = "config.yaml"

// Config holds runtime options. Zero fields are filled from DefaultConfig by
// LoadConfig.
type Config struct {
	Home string `yaml:"-"` // config directory, e.g. $XDG_CONFIG_HOME/airoi

	ListenAddr        string                 `yaml:"listen_addr"`
	TrustPolicy       domain.TrustPolicy     `yaml:"trust_policy"`
	DuplicateContacts domain.DuplicatePolicy `yaml:"duplicate_contacts"`
	Keyring           KeyringConfig          `yaml:"keyring"`
	KDF               crypto.KDFParams       `yaml:"kdf"`
	SOCKSProxy        string                 `yaml:"socks_proxy"`
	DefaultPort       int                    `yaml:"default_port"`
	Log               LogConfig              `yaml:"log"`
}

// KeyringConfig addresses the OS credential vault entry.
type KeyringConfig struct {
	Service  string `yaml:"service"`
	Account  string `yaml:"account"`
	Disabled bool   `yaml:"disabled"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in defaults rooted at home.
func DefaultConfig(home string) Config {
	return Config{
		Home:              home,
		ListenAddr:        message.DefaultListenAddr,
		TrustPolicy:       domain.TrustReject,
		DuplicateContacts: domain.DuplicatesAllow,
		Keyring: KeyringConfig{
			Service: store.DefaultVaultService,
			Account: store.DefaultVaultAccount,
		},
		KDF:         crypto.DefaultKDFParams(),
		DefaultPort: dialer.DefaultPort,
		Log:         LogConfig{Level: "info", Format: "console"},
	}
}

// DefaultHome returns <user config dir>/airoi.
func DefaultHome() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "airoi"), nil
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults. A file readable by group or others draws a warning on warn,
// since it names the vault entry and proxy in use.
func LoadConfig(home, path string, warn io.Writer) (Config, error) {
	cfg := DefaultConfig(home)
	if path == "" {
		path = filepath.Join(home, ConfigFilename)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 && warn != nil {
		fmt.Fprintf(warn, "warning: config file %s has permissions %04o, expected 0600\n", path, perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Home = home
	return cfg, cfg.Validate()
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	if !c.TrustPolicy.Valid() {
		return fmt.Errorf("trust_policy %q: want %q or %q", c.TrustPolicy, domain.TrustReject, domain.TrustOnFirstUse)
	}
	if !c.DuplicateContacts.Valid() {
		return fmt.Errorf("duplicate_contacts %q: want %q or %q", c.DuplicateContacts, domain.DuplicatesAllow, domain.DuplicatesReject)
	}
	if err := c.KDF.Validate(); err != nil {
		return fmt.Errorf("kdf: %w", err)
	}
	if c.DefaultPort <= 0 || c.DefaultPort > 65535 {
		return fmt.Errorf("default_port %d out of range", c.DefaultPort)
	}
	return nil
}
