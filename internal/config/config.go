// Package config resolves settings. FEMCARE_* environment variables (optionally
// loaded from .env) win over .femcare.yaml, which wins over the defaults.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendREST      = "rest"
	BackendFirestore = "firestore"
)

const envPrefix = "FEMCARE"

var ErrUnknownBackend = errors.New("backend must be rest or firestore")

type Config struct {
	BaaSURL             string
	BaaSToken           string
	DBPath              string
	CachePath           string
	Port                string
	SecretKey           string
	TimeZone            string
	DefaultLanguage     string
	FirebaseCredentials string
	FirebaseProject     string
	ReminderSchedule    string
	Backend             string
	UserID              string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("baas_url", "http://localhost:8080")
	v.SetDefault("baas_token", "")
	v.SetDefault("db_path", filepath.Join("data", "femcare.db"))
	v.SetDefault("cache_path", filepath.Join("data", "cache"))
	v.SetDefault("port", "8080")
	v.SetDefault("secret_key", "")
	v.SetDefault("tz", "UTC")
	v.SetDefault("default_language", "en")
	v.SetDefault("firebase_credentials", "")
	v.SetDefault("firebase_project", "")
	v.SetDefault("reminder_schedule", "*/5 * * * *")
	v.SetDefault("backend", BackendREST)
	v.SetDefault("user_id", "")
}

// Load reads .femcare.yaml from configDir (or the working directory) when present.
// A missing .env or config file is not an error.
func Load(configDir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(".femcare")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		BaaSURL:             strings.TrimSpace(v.GetString("baas_url")),
		BaaSToken:           strings.TrimSpace(v.GetString("baas_token")),
		DBPath:              v.GetString("db_path"),
		CachePath:           v.GetString("cache_path"),
		Port:                v.GetString("port"),
		SecretKey:           v.GetString("secret_key"),
		TimeZone:            v.GetString("tz"),
		DefaultLanguage:     v.GetString("default_language"),
		FirebaseCredentials: v.GetString("firebase_credentials"),
		FirebaseProject:     v.GetString("firebase_project"),
		ReminderSchedule:    v.GetString("reminder_schedule"),
		Backend:             strings.ToLower(strings.TrimSpace(v.GetString("backend"))),
		UserID:              strings.TrimSpace(v.GetString("user_id")),
	}
	if cfg.Backend != BackendREST && cfg.Backend != BackendFirestore {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	return cfg, nil
}

// Location falls back to UTC for an unknown zone name.
func (cfg *Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		log.Printf("config: invalid tz %q, falling back to UTC", cfg.TimeZone)
		return time.UTC
	}
	return location
}

func (cfg *Config) ListenAddress() string {
	port := strings.TrimPrefix(strings.TrimSpace(cfg.Port), ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}
