package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Global struct {
		MarketHours struct {
			RegularOpen  string `yaml:"regular_open"`
			RegularClose string `yaml:"regular_close"`
			Timezone     string `yaml:"timezone"`
		} `yaml:"market_hours"`
	} `yaml:"global"`

	Scanner struct {
		Tickers             []string `yaml:"tickers"`
		ScanIntervalSeconds int      `yaml:"scan_interval_seconds"`
		MaxConcurrent       int      `yaml:"max_concurrent"`
		BarLimit            int      `yaml:"bar_limit"`
	} `yaml:"scanner"`

	ORB struct {
		ReferenceRangeWidth float64 `yaml:"reference_range_width"`
		VolumeMode          string  `yaml:"volume_mode"` // session_total or latest_bar
		VolumeBaselineDays  int     `yaml:"volume_baseline_days"`
		DefaultMinScore     float64 `yaml:"default_min_score"`
	} `yaml:"orb"`

	API struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"api"`
}

func LoadConfig() (*Config, error) {
	// Resolve path relative to this file first, then fall back to cwd.
	_, filePath, _, ok := runtime.Caller(0)
	var basePath string
	if ok {
		basePath = filepath.Dir(filePath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	possiblePaths := []string{}
	if basePath != "" {
		possiblePaths = append(possiblePaths, filepath.Join(basePath, "config.yaml"))
	}
	possiblePaths = append(possiblePaths,
		filepath.Join(cwd, "Internal", "utils", "config", "config.yaml"),
		"Internal/utils/config/config.yaml",
		"config.yaml",
	)

	var data []byte
	for _, path := range possiblePaths {
		data, err = os.ReadFile(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Global.MarketHours.RegularOpen == "" {
		c.Global.MarketHours.RegularOpen = "09:30"
	}
	if c.Global.MarketHours.RegularClose == "" {
		c.Global.MarketHours.RegularClose = "16:00"
	}
	if c.Global.MarketHours.Timezone == "" {
		c.Global.MarketHours.Timezone = "America/New_York"
	}
	if c.Scanner.ScanIntervalSeconds <= 0 {
		c.Scanner.ScanIntervalSeconds = 30
	}
	if c.Scanner.MaxConcurrent <= 0 {
		c.Scanner.MaxConcurrent = 5
	}
	if c.Scanner.BarLimit <= 0 {
		c.Scanner.BarLimit = 390 // one full regular session of 1-minute bars
	}
	if c.ORB.ReferenceRangeWidth <= 0 {
		c.ORB.ReferenceRangeWidth = 0.01
	}
	if c.ORB.VolumeMode == "" {
		c.ORB.VolumeMode = "session_total"
	}
	if c.ORB.VolumeBaselineDays <= 0 {
		c.ORB.VolumeBaselineDays = 10
	}
	if c.API.ListenAddr == "" {
		c.API.ListenAddr = ":8080"
	}
}

func (c *Config) Validate() error {
	if len(c.Scanner.Tickers) == 0 {
		return fmt.Errorf("scanner.tickers must not be empty")
	}
	if c.ORB.VolumeMode != "session_total" && c.ORB.VolumeMode != "latest_bar" {
		return fmt.Errorf("orb.volume_mode must be session_total or latest_bar, got %q", c.ORB.VolumeMode)
	}
	return nil
}
