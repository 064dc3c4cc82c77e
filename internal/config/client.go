package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Client store modes.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Client selects how a store reaches the data: directly against the
// local database file or through the remote API. The value is passed
// into constructors explicitly; there is no ambient global.
type Client struct {
	Mode      string `json:"mode"`
	RemoteURL string `json:"remote_url"`
	DBFile    string `json:"db_file"`
}

func DefaultClient() Client {
	return Client{
		Mode:      ModeLocal,
		RemoteURL: "http://localhost:8080/api",
		DBFile:    "patient_manager.db",
	}
}

// LoadClient reads the client configuration document. A missing file
// yields the defaults and writes them back so the user has a file to
// edit.
func LoadClient(path string) (Client, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := DefaultClient()
		return cfg, SaveClient(path, cfg)
	}
	if err != nil {
		return DefaultClient(), fmt.Errorf("read client config: %w", err)
	}

	cfg := DefaultClient()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultClient(), fmt.Errorf("parse client config: %w", err)
	}
	if cfg.Mode != ModeLocal && cfg.Mode != ModeRemote {
		return DefaultClient(), fmt.Errorf("unknown mode %q in client config", cfg.Mode)
	}
	return cfg, nil
}

func SaveClient(path string, cfg Client) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
