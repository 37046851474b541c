package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/meshnetworks/hoproute/src/common"
)

// Default filenames.
const (
	// DefaultBadgerFile is the default name of the folder containing
	// the Badger database
	DefaultBadgerFile = "badger_db"
)

// Default configuration values.
const (
	DefaultLogLevel            = "debug"
	DefaultServiceAddr         = "127.0.0.1:8000"
	DefaultCacheSize           = 10000
	DefaultRouteBackCacheSize  = 10000
	DefaultLastRoutedCacheSize = 10000
	DefaultRouteBackTTL        = 30 * time.Second
)

// Config contains all the configuration properties of a hoproute node.
type Config struct {
	// DataDir is the top-level directory containing configuration and
	// data
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// NoService disables the HTTP API service.
	NoService bool `mapstructure:"no-service"`

	// ServiceAddr is the address:port of the HTTP inspection service.
	ServiceAddr string `mapstructure:"service-listen"`

	// DatabaseDir is the directory containing the announcement
	// database files.
	DatabaseDir string `mapstructure:"db"`

	// CacheSize is the max number of items in the announcement caches.
	CacheSize int `mapstructure:"cache-size"`

	// RouteBackCacheSize is the max number of route-back entries.
	RouteBackCacheSize int `mapstructure:"route-back-cache-size"`

	// RouteBackTTL is how long a route-back entry remains usable for
	// replying along the inverse path.
	RouteBackTTL time.Duration `mapstructure:"route-back-ttl"`

	// LastRoutedCacheSize is the max number of neighbors tracked for
	// fair next-hop tie-breaking.
	LastRoutedCacheSize int `mapstructure:"last-routed-cache-size"`

	// Moniker defines the friendly name of this node
	Moniker string `mapstructure:"moniker"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:             DefaultDataDir(),
		LogLevel:            DefaultLogLevel,
		ServiceAddr:         DefaultServiceAddr,
		DatabaseDir:         DefaultDatabaseDir(),
		CacheSize:           DefaultCacheSize,
		RouteBackCacheSize:  DefaultRouteBackCacheSize,
		RouteBackTTL:        DefaultRouteBackTTL,
		LastRoutedCacheSize: DefaultLastRoutedCacheSize,
	}

	return config
}

// NewTestConfig returns a config object with default values and a
// special logger for debugging tests.
func NewTestConfig(t testing.TB) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t)
	return config
}

// SetDataDir sets the top-level hoproute directory, and updates the
// database directory if it is currently set to the default value. If
// the database directory is not currently the default, it means the
// user has explicitely set it to something else, so avoid changing it
// again here.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.DatabaseDir == DefaultDatabaseDir() {
		c.DatabaseDir = filepath.Join(dataDir, DefaultBadgerFile)
	}
}

// Logger returns a formatted logrus Entry, with prefix set to
// "hoproute".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)
	}
	return c.logger.WithField("prefix", "hoproute")
}

// DefaultDatabaseDir returns the default path for the badger database
// files.
func DefaultDatabaseDir() string {
	return filepath.Join(DefaultDataDir(), DefaultBadgerFile)
}

// DefaultDataDir return the default directory name for top-level
// hoproute config based on the underlying OS, attempting to respect
// conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Hoproute")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Hoproute")
		} else {
			return filepath.Join(home, ".hoproute")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
