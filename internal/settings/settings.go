// Package settings owns the single persisted configuration value of
// the dashboard: the Apps Script web app URL. Every data operation is
// gated on it being present, and a failed listing clears it so the
// setup flow reappears.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"jewel-market-backend/internal/sheet"
)

// ErrNotConfigured is returned by consumers when no endpoint URL has
// been saved yet.
var ErrNotConfigured = errors.New("sheet endpoint not configured")

// ErrEmptyURL is returned by Save for blank input, before any network
// call is made.
var ErrEmptyURL = errors.New("web app url must not be empty")

type persisted struct {
	WebAppURL string `json:"web_app_url"`
}

// Service loads, validates and persists the endpoint URL. The URL
// survives restarts in a small JSON file until explicitly cleared.
type Service struct {
	path   string
	client *sheet.Client

	mu  sync.RWMutex
	url string
}

// NewService reads any previously saved URL from path. A missing file
// means first run; an unreadable one is treated the same and logged.
func NewService(path string, client *sheet.Client) *Service {
	s := &Service{path: path, client: client}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: failed to read settings file %s: %v", path, err)
		}
		return s
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("Warning: failed to parse settings file %s: %v", path, err)
		return s
	}
	s.url = strings.TrimSpace(p.WebAppURL)
	return s
}

// URL returns the configured endpoint, or ErrNotConfigured.
func (s *Service) URL() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.url == "" {
		return "", ErrNotConfigured
	}
	return s.url, nil
}

// Configured reports whether an endpoint URL is active.
func (s *Service) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url != ""
}

// Save validates url with a trial listing against the sheet and, only
// on success, persists and activates it. Blank input is rejected
// locally without touching the network.
func (s *Service) Save(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyURL
	}

	if _, err := s.client.ListOrders(url); err != nil {
		return fmt.Errorf("endpoint validation failed: %w", err)
	}

	data, err := json.Marshal(persisted{WebAppURL: url})
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
	return nil
}

// Clear forgets the endpoint and removes the persisted file, forcing
// the setup flow on the next request.
func (s *Service) Clear() {
	s.mu.Lock()
	s.url = ""
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to remove settings file %s: %v", s.path, err)
	}
}
