package config

import (
	"os"
	"path/filepath"
)

// Config holds application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Conversion history database
	DBPath string

	// Snapshot folder settings (input .mhtml/.txt files)
	SnapshotsPath string

	// Where converted artifacts and extracted assets are written
	OutputPath string
}

// Default returns default configuration. CHATSNAP_* environment variables
// override individual fields.
func Default() *Config {
	// Get user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	// Use ~/.chatsnap for data directory
	dataDir := filepath.Join(homeDir, ".chatsnap")

	cfg := &Config{
		Host:          "localhost",
		Port:          "8080",
		DBPath:        filepath.Join(dataDir, "history.db"),
		SnapshotsPath: "./snapshots",
		OutputPath:    "./converted",
	}

	if v := os.Getenv("CHATSNAP_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("CHATSNAP_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("CHATSNAP_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CHATSNAP_SNAPSHOTS"); v != "" {
		cfg.SnapshotsPath = v
	}
	if v := os.Getenv("CHATSNAP_OUTPUT"); v != "" {
		cfg.OutputPath = v
	}
	return cfg
}

// Address returns the full server address
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

// URL returns the full server URL
func (c *Config) URL() string {
	return "http://" + c.Address()
}
