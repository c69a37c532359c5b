package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Preset is a battery file found in the presets directory.
type Preset struct {
	ID      string
	File    string
	Battery BatteryConfig
}

// ListPresets reads every .yaml/.yml/.toml preset in dir, sorted by ID.
// Unreadable files are skipped and reported through skipped.
func ListPresets(dir string) (presets []Preset, skipped map[string]error, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	skipped = map[string]error{}
	for _, e := range entries {
		if e.IsDir() || !isConfigFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		b, err := LoadBatteryFile(path)
		if err != nil {
			skipped[e.Name()] = err
			continue
		}
		// Keep the full filename without extension as the ID for consistency.
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if b.Name == "" {
			b.Name = id
		}
		presets = append(presets, Preset{ID: id, File: path, Battery: b})
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, skipped, nil
}

// ResolvePreset finds the preset file for id in dir, trying each supported extension.
func ResolvePreset(dir, id string) (string, error) {
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", os.ErrNotExist
	}
	for _, ext := range []string{".yaml", ".yml", ".toml"} {
		p := filepath.Join(dir, id+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", os.ErrNotExist
}

func isConfigFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}
