package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Service owns the config file on disk and notifies subscribers when the
// configuration changes, so a key or base-URL edit takes effect without a
// restart.
type Service struct {
	mu         sync.RWMutex
	storageDir string
	logger     func(string)
	callbacks  []func(Config)
}

// NewService creates a config service storing under dir (defaults to
// ~/.slidesmith when empty).
func NewService(dir string, logger func(string)) *Service {
	return &Service{storageDir: dir, logger: logger}
}

func (s *Service) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}

// StorageDir returns the resolved storage directory, creating the default
// location lazily.
func (s *Service) StorageDir() (string, error) {
	s.mu.RLock()
	dir := s.storageDir
	s.mu.RUnlock()
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	dir = filepath.Join(home, ".slidesmith")
	s.mu.Lock()
	s.storageDir = dir
	s.mu.Unlock()
	return dir, nil
}

func (s *Service) configPath() (string, error) {
	dir, err := s.StorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file, returning defaults when none exists yet.
func (s *Service) Load() (Config, error) {
	path, err := s.configPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config file is corrupt: %w", err)
	}
	return cfg, nil
}

// Save persists the config and notifies subscribers.
func (s *Service) Save(cfg Config) error {
	path, err := s.configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create storage dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	s.log("config saved")

	s.mu.RLock()
	callbacks := make([]func(Config), len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.RUnlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
	return nil
}

// OnChanged registers a callback invoked after every successful Save.
func (s *Service) OnChanged(cb func(Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, cb)
}
