package config

import (
	"os"
	"strconv"
)

// ApplyEnv overlays CHORESAPP_* environment variables on a loaded
// config. Unset variables leave the config untouched.
func (c *Config) ApplyEnv() {
	if v := getEnv("CHORESAPP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getEnv("CHORESAPP_DATA_DIR"); v != "" {
		c.Server.DataDir = v
	}
	if v := getEnv("CHORESAPP_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := getEnv("CHORESAPP_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := getEnv("CHORESAPP_SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := getEnvInt("CHORESAPP_OWN_DAY_CAP"); v > 0 {
		c.Chores.OwnDayWeeklyCap = v
	}
	if v := getEnv("CHORESAPP_OWN_DAY_TITLE"); v != "" {
		c.Chores.OwnDayTitle = v
	}
	if v := getEnvInt64("CHORESAPP_MAX_PHOTO_BYTES"); v > 0 {
		c.Comments.MaxPhotoBytes = v
	}
	if v := getEnv("CHORESAPP_PHOTOS_BUCKET"); v != "" {
		c.Photos.Enabled = true
		c.Photos.Bucket = v
	}
	if v := getEnv("CHORESAPP_PHOTOS_REGION"); v != "" {
		c.Photos.Region = v
	}
	if v := getEnv("CHORESAPP_PHOTOS_PROFILE"); v != "" {
		c.Photos.Profile = v
	}
	if v := getEnv("CHORESAPP_PHOTOS_BASE_URL"); v != "" {
		c.Photos.PublicBaseURL = v
	}
}

func getEnv(key string) string {
	return os.Getenv(key)
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvInt64(key string) int64 {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return num
}
