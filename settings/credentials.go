// Package settings provides storage for aboutdesc user data that lives
// outside the configuration file.
//
// All files are stored in the XDG data directory:
//
//	$XDG_DATA_HOME/aboutdesc/  (default: ~/.local/share/aboutdesc/)
//
// Files stored:
//   - config.yaml   (see package config)
//   - auth.json     API keys, keyed by provider ID
//   - prompts.json  system prompt overrides
//
// auth.json is written with 0600 permissions.
//
// Lookup order for the API key:
//  1. --api-key flag
//  2. ABOUTDESC_API_KEY, then OPENAI_API_KEY
//  3. api.api_key in config.yaml
//  4. this credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "aboutdesc"
	fileName    = "auth.json"

	// DefaultProvider is the store key used by the CLI.
	DefaultProvider = "openai"
)

// ---------------------------------------------------------------------------
// Auth entries
// ---------------------------------------------------------------------------

// Info is stored per provider in auth.json.
type Info struct {
	// Type is always "api" for now.
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
	// BaseURL records the endpoint the key was issued for, if known.
	BaseURL string `json:"baseUrl,omitempty"`
}

// IsAPI returns true if this is an API key entry.
func (i *Info) IsAPI() bool {
	return i.Type == "api"
}

// Store holds all provider credentials, keyed by provider ID.
type Store map[string]*Info

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

// dataDir respects $XDG_DATA_HOME and falls back to ~/.local/share.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func dataFile(name string) (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// DataDir returns the aboutdesc data directory path.
func DataDir() (string, error) {
	return dataDir()
}

// FilePath returns the auth.json path for display purposes.
func FilePath() string {
	p, err := dataFile(fileName)
	if err != nil {
		return ""
	}
	return p
}

// PromptsFilePath returns the path to prompts.json.
func PromptsFilePath() (string, error) {
	return dataFile("prompts.json")
}

// ConfigFilePath returns the default path to config.yaml.
func ConfigFilePath() (string, error) {
	return dataFile("config.yaml")
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := dataFile(fileName)
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := dataFile(fileName)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// SetAPIKey stores an API key for a provider.
func SetAPIKey(providerID, key, baseURL string) error {
	store := Load()
	store[providerID] = &Info{Type: "api", Key: key, BaseURL: baseURL}
	return Save(store)
}

// GetAPIKey returns the stored API key for a provider, or "".
func GetAPIKey(providerID string) string {
	info := Load()[providerID]
	if info == nil || !info.IsAPI() {
		return ""
	}
	return info.Key
}

// Remove deletes credentials for a provider.
func Remove(providerID string) error {
	store := Load()
	if _, ok := store[providerID]; !ok {
		return nil
	}
	delete(store, providerID)
	return Save(store)
}

// ---------------------------------------------------------------------------
// Key resolution
// ---------------------------------------------------------------------------

// Key sources reported by ResolveAPIKey.
const (
	SourceFlag   = "--api-key flag"
	SourceEnv    = "environment"
	SourceConfig = "config file"
	SourceStore  = "auth.json"
)

// ResolveAPIKey picks the API key by priority and reports where it came
// from. Both return values are empty if no key is configured anywhere.
func ResolveAPIKey(flagKey, configKey string) (key, source string) {
	if flagKey != "" {
		return flagKey, SourceFlag
	}
	for _, name := range []string{"ABOUTDESC_API_KEY", "OPENAI_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			return v, SourceEnv + " (" + name + ")"
		}
	}
	if configKey != "" {
		return configKey, SourceConfig
	}
	if v := GetAPIKey(DefaultProvider); v != "" {
		return v, SourceStore
	}
	return "", ""
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
