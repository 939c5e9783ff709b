package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var errInvalidVar = errors.New("variable must be in key=value form")

// loadVarsFile reads bindings from a TOML document. Tables become maps.
func loadVarsFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vars file: %w", err)
	}
	vars := make(map[string]any)
	if err := toml.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("failed to parse vars file %s: %w", path, err)
	}
	return vars, nil
}

// parseVar splits a key=value flag. The value is read as a TOML value when it is one, so
// n=42 binds an integer and tags=["a","b"] an array; anything else binds the raw string.
func parseVar(kv string) (string, any, error) {
	key, raw, ok := strings.Cut(kv, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("%w: %q", errInvalidVar, kv)
	}

	var doc struct {
		V any `toml:"v"`
	}
	if err := toml.Unmarshal([]byte("v = "+raw), &doc); err == nil && doc.V != nil {
		return key, doc.V, nil
	}
	return key, raw, nil
}

// collectVars merges the vars file with the individual flags; flags win.
func collectVars(path string, flags []string) (map[string]any, error) {
	vars := make(map[string]any)
	if path != "" {
		fileVars, err := loadVarsFile(path)
		if err != nil {
			return nil, err
		}
		vars = fileVars
	}
	for _, kv := range flags {
		key, value, err := parseVar(kv)
		if err != nil {
			return nil, err
		}
		vars[key] = value
	}
	return vars, nil
}
