package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	apiURLEnvVar   = "ECOQUEST_API_URL"
	appNameVar     = "ECOQUEST_APP_NAME"
	folderEnvVar   = "ECOQUEST_DATA_FOLDER"
	callbackEnvVar = "ECOQUEST_CALLBACK_ADDR"
)

func init() {
	// Missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "EcoQuest")
}

// GetAPIBaseURL returns the base URL of the EcoQuest backend. All API
// endpoints are relative to this URL under the /api prefix.
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiURLEnvVar, "http://localhost:3000")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, defaultDataFolder())
}

// GetCallbackAddr returns the loopback address the OAuth callback listener
// binds to. The backend redirects the browser here after the provider
// round-trip.
func (EnvVars) GetCallbackAddr() string {
	return GetEnv(callbackEnvVar, "127.0.0.1:8123")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func defaultDataFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ecoquest"
	}
	return filepath.Join(home, ".ecoquest")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
