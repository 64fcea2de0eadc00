package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mamba-vcs/mamba/pkg/object"
)

const configFileName = "config.toml"

// Config is the per-repository configuration, stored as TOML under the
// metadata directory.
type Config struct {
	User UserConfig `toml:"user"`
}

// UserConfig identifies the author recorded on new commits.
type UserConfig struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

func defaultConfig() *Config {
	return &Config{
		User: UserConfig{
			Name:  "Your Name",
			Email: "you@example.com",
		},
	}
}

// LoadConfig reads the repository config, falling back to defaults for a
// missing file or any unset field.
func (r *Repo) LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	path := filepath.Join(r.MetaDir, configFileName)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.User.Name == "" {
		cfg.User.Name = "Your Name"
	}
	if cfg.User.Email == "" {
		cfg.User.Email = "you@example.com"
	}
	return cfg, nil
}

// SaveConfig writes the repository config atomically.
func (r *Repo) SaveConfig(cfg *Config) error {
	tmp, err := os.CreateTemp(r.MetaDir, "config-*")
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		return fmt.Errorf("save config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(r.MetaDir, configFileName)); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// authorSignature builds a signature for the configured user stamped with
// the current time.
func (r *Repo) authorSignature() (object.Signature, error) {
	cfg, err := r.LoadConfig()
	if err != nil {
		return object.Signature{}, err
	}
	return object.NewSignature(cfg.User.Name, cfg.User.Email), nil
}
