package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	OCR   OCRConfig   `yaml:"ocr"`
	Store StoreConfig `yaml:"store"`
}

// OCRConfig holds OCR-related configuration.
type OCRConfig struct {
	Tesseract      string        `yaml:"tesseract"`       // binary name or absolute path
	Language       string        `yaml:"language"`        // tesseract language, e.g. "eng"
	TessdataDir    string        `yaml:"tessdata_dir"`    // optional --tessdata-dir value
	AttemptTimeout time.Duration `yaml:"attempt_timeout"` // per-configuration wall clock bound; 0 disables
}

// StoreConfig holds result-persistence configuration.
type StoreConfig struct {
	Path string `yaml:"path"` // SQLite file path; empty disables persistence
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Tesseract:      getEnv("TESSERACT_PATH", "tesseract"),
			Language:       getEnv("OCR_LANGUAGE", "eng"),
			TessdataDir:    getEnv("TESSDATA_PREFIX", ""),
			AttemptTimeout: getEnvAsDuration("OCR_ATTEMPT_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Path: getEnv("DOCPIPE_DB", ""),
		},
	}
}

// fileConfig mirrors Config with optional fields so a YAML file only
// overrides what it sets.
type fileConfig struct {
	OCR struct {
		Tesseract   *string `yaml:"tesseract"`
		Language    *string `yaml:"language"`
		TessdataDir *string `yaml:"tessdata_dir"`
		// Duration string, e.g. "45s".
		AttemptTimeout *string `yaml:"attempt_timeout"`
	} `yaml:"ocr"`
	Store struct {
		Path *string `yaml:"path"`
	} `yaml:"store"`
}

// ApplyFile overlays configuration from a YAML file onto c.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	if fc.OCR.Tesseract != nil {
		c.OCR.Tesseract = *fc.OCR.Tesseract
	}
	if fc.OCR.Language != nil {
		c.OCR.Language = *fc.OCR.Language
	}
	if fc.OCR.TessdataDir != nil {
		c.OCR.TessdataDir = *fc.OCR.TessdataDir
	}
	if fc.OCR.AttemptTimeout != nil {
		d, err := time.ParseDuration(*fc.OCR.AttemptTimeout)
		if err != nil {
			return fmt.Errorf("parse ocr.attempt_timeout: %w", err)
		}
		c.OCR.AttemptTimeout = d
	}
	if fc.Store.Path != nil {
		c.Store.Path = *fc.Store.Path
	}
	return nil
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.OCR.Tesseract == "" {
		return NewExtractionError("CONFIG_ERROR", "ocr.tesseract is required", nil)
	}
	if c.OCR.Language == "" {
		return NewExtractionError("CONFIG_ERROR", "ocr.language is required", nil)
	}
	if c.OCR.AttemptTimeout < 0 {
		return NewExtractionError("CONFIG_ERROR", "ocr.attempt_timeout must be >= 0", nil)
	}
	return nil
}

// Helper functions for environment variable parsing.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
