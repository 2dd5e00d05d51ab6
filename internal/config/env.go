package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads dotenv files into the process environment before Load applies
// env fallbacks. An explicit path must exist. Without one, ./.env and
// ~/.config/ytscribe/.env are tried in that order; variables already set in the
// environment are never overwritten. It returns the files that were loaded.
func LoadEnv(explicit string) ([]string, error) {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		path, err := expandPath(explicit)
		if err != nil {
			return nil, fmt.Errorf("resolve env file: %w", err)
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
		return []string{path}, nil
	}

	var candidates []string
	if local, err := filepath.Abs(".env"); err == nil {
		candidates = append(candidates, local)
	}
	if global, err := expandPath(defaultEnvPath); err == nil {
		candidates = append(candidates, global)
	}

	var loaded []string
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("stat env file: %w", err)
		}
		if info.IsDir() {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("load env file %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
