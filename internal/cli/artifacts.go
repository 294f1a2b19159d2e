package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/patware/priorart/internal/model"
)

// readJSON decodes one artifact file into v.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v as indented JSON, creating parent directories.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return writeFile(path, append(data, '\n'))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func loadProfile(path string) (*model.InventionProfile, error) {
	var p model.InventionProfile
	if err := readJSON(path, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func loadPriorArt(path string) ([]model.PriorArtRecord, error) {
	var items []model.PriorArtRecord
	if err := readJSON(path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func loadClaimRecords(path string) ([]model.ClaimRecord, error) {
	var records []model.ClaimRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}
