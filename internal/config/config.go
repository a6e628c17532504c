package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Log      LogConfig      `yaml:"log" json:"log"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Chores   ChoresConfig   `yaml:"chores" json:"chores"`
	Comments CommentsConfig `yaml:"comments" json:"comments"`
	Photos   PhotosConfig   `yaml:"photos" json:"photos"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type LogConfig struct {
	// File enables rotated file logging when set; empty logs to stderr.
	File       string `yaml:"file" json:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days"`
}

type StorageConfig struct {
	// Backend: "file", "sqlite", or "memory".
	Backend    string `yaml:"backend" json:"backend"`
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
}

type ChoresConfig struct {
	OwnDayWeeklyCap int    `yaml:"own_day_weekly_cap" json:"own_day_weekly_cap"`
	OwnDayTitle     string `yaml:"own_day_title" json:"own_day_title"`
}

type CommentsConfig struct {
	MaxPhotoBytes int64    `yaml:"max_photo_bytes" json:"max_photo_bytes"`
	PhotoTypes    []string `yaml:"photo_types" json:"photo_types"`
}

type PhotosConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	Bucket        string `yaml:"bucket" json:"bucket"`
	Region        string `yaml:"region" json:"region"`
	Profile       string `yaml:"profile" json:"profile"`
	KeyPrefix     string `yaml:"key_prefix" json:"key_prefix"`
	PublicBaseURL string `yaml:"public_base_url" json:"public_base_url"`
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = ":8080"
	}
	if strings.TrimSpace(c.Server.DataDir) == "" {
		c.Server.DataDir = "data"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 50
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays <= 0 {
		c.Log.MaxAgeDays = 28
	}
	if strings.TrimSpace(c.Storage.Backend) == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Chores.OwnDayWeeklyCap <= 0 {
		c.Chores.OwnDayWeeklyCap = 2
	}
	if strings.TrimSpace(c.Chores.OwnDayTitle) == "" {
		c.Chores.OwnDayTitle = "Make your own day"
	}
	if c.Comments.MaxPhotoBytes <= 0 {
		c.Comments.MaxPhotoBytes = 3 << 20
	}
	if len(c.Comments.PhotoTypes) == 0 {
		c.Comments.PhotoTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	if strings.TrimSpace(c.Photos.KeyPrefix) == "" {
		c.Photos.KeyPrefix = "chores"
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Photos.Enabled && strings.TrimSpace(c.Photos.Bucket) == "" {
		return fmt.Errorf("photos.enabled requires photos.bucket")
	}
	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.ApplyDefaults()
	return &c
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
