// Package archive writes plan exports and reply objects to disk.
package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Store manages the export directory.
type Store struct {
	BasePath string
}

// Export names the files written for one plan.
type Export struct {
	TextPath string `json:"text_path"`
	JSONPath string `json:"json_path"`
}

// NewStore creates the store directories. An empty basePath selects
// ~/tripgate/exports.
func NewStore(basePath string) (*Store, error) {
	if basePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		basePath = filepath.Join(home, "tripgate", "exports")
	}

	dirs := []string{
		basePath,
		filepath.Join(basePath, "objects"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, err
		}
	}

	return &Store{BasePath: basePath}, nil
}

// SavePlan writes text and the JSON encoding of record side by side as
// itinerary_<destination>_<timestamp>.{txt,json}.
func (s *Store) SavePlan(destination, text string, record any, at time.Time) (Export, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return Export{}, fmt.Errorf("encode plan: %w", err)
	}

	base := fmt.Sprintf("itinerary_%s_%s", slug(destination), at.UTC().Format("20060102_150405"))
	out := Export{
		TextPath: filepath.Join(s.BasePath, base+".txt"),
		JSONPath: filepath.Join(s.BasePath, base+".json"),
	}
	if err := os.WriteFile(out.TextPath, []byte(text), 0644); err != nil {
		return Export{}, err
	}
	if err := os.WriteFile(out.JSONPath, data, 0644); err != nil {
		return Export{}, err
	}
	return out, nil
}

// StoreObject stores a JSON object by its SHA256 content hash in a sharded
// directory structure and returns the hash.
func (s *Store) StoreObject(obj any) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}

	hashBytes := sha256.Sum256(data)
	hash := hex.EncodeToString(hashBytes[:])

	// Shard by first 2 chars
	dir := filepath.Join(s.BasePath, "objects", hash[:2])
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, hash+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return hash, nil
}

// slug lowercases s and joins its letter and digit runs with underscores.
func slug(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return "trip"
	}
	return strings.Join(fields, "_")
}
