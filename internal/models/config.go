package models

import (
	"path"
	"path/filepath"
	"sync"

	"github.com/kardianos/osext"
)

// ConfigFileName is the name of the configuration file expected next to the executable
const ConfigFileName = "config.json"

var (
	execDirOnce sync.Once
	execDir     string
	execDirErr  error
)

// AppConfig is the application's main configuration structure
type AppConfig struct {
	// The directory where the database is stored - defaults to the /data subdirectory of the folder the executable
	// resides in
	DataDir string `json:"dataDir" yaml:"data_dir"`
	// The credentials for the admin account that is created on startup
	DefaultUser *DefaultUserConfig `json:"defaultUser" yaml:"default_user"`
	// The IP address to listen at - including the port number
	ListenAddress string `json:"listenAddress" yaml:"listen_address"`
	// The minimum level of log messages to output (debug, info, warning, error)
	LogLevel string `json:"logLevel" yaml:"log_level"`
	// Settings for the event search
	Search SearchConfig `json:"search" yaml:"search"`
}

// The DefaultUserConfig struct configures the admin user that can log in to manage events and venues
type DefaultUserConfig struct {
	Name     string `json:"name" yaml:"name"`
	Password string `json:"password" yaml:"password"`
}

// SearchConfig holds the limits applied to event searches
type SearchConfig struct {
	// Number of results returned when the client does not request a limit
	DefaultLimit int `json:"defaultLimit" yaml:"default_limit"`
	// Largest limit a client may request. 0 removes the bound
	MaxLimit int `json:"maxLimit" yaml:"max_limit"`
}

// ExecutableFolder returns the folder the running executable resides in. It is only looked up once
func ExecutableFolder() (string, error) {
	execDirOnce.Do(func() {
		execDir, execDirErr = osext.ExecutableFolder()
	})
	return execDir, execDirErr
}

// DefaultConfigFile returns the path of the configuration file inside the executable's folder
func DefaultConfigFile() (string, error) {
	dir, err := ExecutableFolder()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// GetDefaultConfig returns the default configuration values for the application
func GetDefaultConfig() (*AppConfig, error) {
	execDir, err := ExecutableFolder()
	if err != nil {
		return nil, err
	}
	return &AppConfig{
		DataDir: path.Join(execDir, "data"),
		DefaultUser: &DefaultUserConfig{
			Name:     "admin",
			Password: "changeme",
		},
		ListenAddress: ":3000",
		LogLevel:      "info",
		Search: SearchConfig{
			DefaultLimit: DefaultSearchLimit,
			MaxLimit:     500,
		},
	}, nil
}
