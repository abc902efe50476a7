package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Interface        string
	Addr             string
	Platform         domain.Platform
	DataDir          string
	DBPath           string
	ScanTimeout      time.Duration
	IwlistPath       string
	IwconfigPath     string
	AirportPath      string
	ProfilerPath     string
	NetworksetupPath string
	IfconfigPath     string
	OperatorPassword string
	Debug            bool
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Interface = getEnv("WIFISCOUT_INTERFACE", "")
	cfg.Addr = getEnv("WIFISCOUT_ADDR", ":8080")
	cfg.DataDir = getEnv("WIFISCOUT_DATA", getDefaultDataDir())
	cfg.DBPath = getEnv("WIFISCOUT_DB", "")
	cfg.OperatorPassword = getEnv("WIFISCOUT_PASSWORD", "wifiscout")
	platform := getEnv("WIFISCOUT_PLATFORM", runtime.GOOS)
	scanTimeout := int(getEnvInt("WIFISCOUT_SCAN_TIMEOUT", 30))

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Interface, "i", cfg.Interface, "Wireless interface (empty: first detected)")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory for scan session files")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite history database")
	flag.StringVar(&platform, "platform", platform, "Platform override (linux, darwin)")
	flag.IntVar(&scanTimeout, "scan-timeout", scanTimeout, "Scan timeout in seconds")
	flag.StringVar(&cfg.IwlistPath, "iwlist-path", "iwlist", "Path to iwlist binary")
	flag.StringVar(&cfg.IwconfigPath, "iwconfig-path", "", "Path to iwconfig binary")
	flag.StringVar(&cfg.AirportPath, "airport-path", "", "Path to airport binary (empty: default framework path)")
	flag.StringVar(&cfg.ProfilerPath, "profiler-path", "", "Path to system_profiler binary")
	flag.StringVar(&cfg.NetworksetupPath, "networksetup-path", "", "Path to networksetup binary")
	flag.StringVar(&cfg.IfconfigPath, "ifconfig-path", "", "Path to ifconfig binary")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")

	flag.Parse()

	cfg.Platform = domain.DetectPlatform(platform)
	cfg.ScanTimeout = time.Duration(scanTimeout) * time.Second
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "wifiscout.db")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// getDefaultDataDir returns the default data directory in the user's
// home. Creates the directory if it doesn't exist.
func getDefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return ".wifiscout"
	}

	dir := filepath.Join(home, ".wifiscout")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create .wifiscout directory, using current dir: %v", err)
		return ".wifiscout"
	}

	return dir
}
