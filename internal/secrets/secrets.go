// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text
// files and from a dotenv file. In the secrets directory the filename is the
// key name and the file contents (trimmed) are the value.
//
// Supported key files: openai-api-key, minio-access-key, minio-secret-key.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads the credential files in dir and returns a map of key name to
// trimmed value. A missing directory yields an empty map. Dotfiles, editor
// backups and subdirectories are ignored; an unreadable file is reported on
// warn and skipped.
func Load(dir string, warn io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	values := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read credential %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			values[name] = value
		}
	}

	return values, nil
}

// LoadDotenv parses a dotenv file without touching the process environment.
// A missing file yields an empty map.
func LoadDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return values, nil
}

// Source is one place a credential may come from.
type Source struct {
	// Values maps key names to values.
	Values map[string]string

	// Key is the name to look up in Values.
	Key string
}

// Resolve returns the first non-empty value across sources in order.
func Resolve(sources ...Source) string {
	for _, s := range sources {
		if v := strings.TrimSpace(s.Values[s.Key]); v != "" {
			return v
		}
	}
	return ""
}

// Env snapshots the named environment variables into a map usable as a
// Source.
func Env(keys ...string) map[string]string {
	m := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			m[k] = v
		}
	}
	return m
}
