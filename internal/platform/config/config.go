// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory    = "memory"
	StoreFirestore = "firestore"
)

// Config holds all service settings. Build it once with Load and pass it down.
type Config struct {
	Port string

	// Firebase project used for ID-token verification, Firestore and trace correlation.
	ProjectID       string
	CredentialsFile string

	Store          string
	StrictLookup   bool
	AllowedOrigins []string

	ImageMaxBytes int64
	ImageTimeout  time.Duration
}

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Port:            get("PORT", "8080"),
		ProjectID:       firstNonEmpty(get("FIREBASE_PROJECT_ID", ""), get("GOOGLE_CLOUD_PROJECT", "")),
		CredentialsFile: get("GOOGLE_APPLICATION_CREDENTIALS", ""),
		Store:           strings.ToLower(get("CONTACTS_STORE", StoreMemory)),
		AllowedOrigins:  splitList(get("CORS_ALLOWED_ORIGINS", "")),
		ImageMaxBytes:   512 << 10,
		ImageTimeout:    10 * time.Second,
	}

	var err error
	if v := get("CONTACTS_STRICT_LOOKUP", ""); v != "" {
		if cfg.StrictLookup, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("%w: CONTACTS_STRICT_LOOKUP: %v", ErrInvalidConfig, err)
		}
	}
	if v := get("CONTACTS_IMAGE_MAX_BYTES", ""); v != "" {
		if cfg.ImageMaxBytes, err = strconv.ParseInt(v, 10, 64); err != nil || cfg.ImageMaxBytes <= 0 {
			return Config{}, fmt.Errorf("%w: CONTACTS_IMAGE_MAX_BYTES must be a positive integer", ErrInvalidConfig)
		}
	}
	if v := get("CONTACTS_IMAGE_TIMEOUT", ""); v != "" {
		if cfg.ImageTimeout, err = time.ParseDuration(v); err != nil || cfg.ImageTimeout <= 0 {
			return Config{}, fmt.Errorf("%w: CONTACTS_IMAGE_TIMEOUT must be a positive duration", ErrInvalidConfig)
		}
	}

	switch cfg.Store {
	case StoreMemory:
	case StoreFirestore:
		if cfg.ProjectID == "" {
			return Config{}, fmt.Errorf("%w: firestore store requires FIREBASE_PROJECT_ID", ErrInvalidConfig)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown CONTACTS_STORE %q", ErrInvalidConfig, cfg.Store)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
