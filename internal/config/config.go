package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration options for the task manager application
type Config struct {
	Storage     StorageConfig
	Persistence PersistenceConfig
	Application ApplicationConfig
}

// StorageConfig holds task-file related configuration
type StorageConfig struct {
	Dir      string
	Filename string
	// File, when set, overrides Dir and Filename with a full path.
	File string
}

// PersistenceConfig holds background persistence configuration
type PersistenceConfig struct {
	SettleDelay time.Duration
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Verbose bool
}

// NewViper creates a viper instance with this application's defaults and
// environment binding. Settings resolve as flags > TASKMAN_* environment
// variables > defaults.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TASKMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	homeDir, _ := os.UserHomeDir()
	v.SetDefault("storage.dir", filepath.Join(homeDir, ".taskman"))
	v.SetDefault("storage.filename", "tasks.txt")
	v.SetDefault("storage.file", "")
	v.SetDefault("persistence.settle-delay", 1*time.Second)
	v.SetDefault("app.verbose", false)

	return v
}

// Load builds a Config from the given viper instance and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Dir:      v.GetString("storage.dir"),
			Filename: v.GetString("storage.filename"),
			File:     v.GetString("storage.file"),
		},
		Persistence: PersistenceConfig{
			SettleDelay: v.GetDuration("persistence.settle-delay"),
		},
		Application: ApplicationConfig{
			Verbose: v.GetBool("app.verbose"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FilePath returns the full path to the task file.
func (c *Config) FilePath() string {
	if c.Storage.File != "" {
		return c.Storage.File
	}
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// EnsureStorageDir creates the directory holding the task file if it does
// not exist.
func (c *Config) EnsureStorageDir() error {
	dir := filepath.Dir(c.FilePath())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage directory cannot be empty")
	}
	if c.Storage.Filename == "" {
		return fmt.Errorf("storage filename cannot be empty")
	}
	if strings.ContainsRune(c.Storage.Filename, os.PathSeparator) {
		return fmt.Errorf("storage filename must not contain path separators")
	}
	if c.Persistence.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative")
	}
	return nil
}
