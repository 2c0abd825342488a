// Package output writes normalized episodes to disk
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/umputun/podjson/pkg/domain"
)

// Encode renders episodes as an indented JSON array. Non-ASCII and html characters are kept as is,
// nil episodes render as an empty array.
func Encode(episodes []domain.Episode) ([]byte, error) {
	if episodes == nil {
		episodes = []domain.Episode{}
	}
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(episodes); err != nil {
		return nil, fmt.Errorf("encode episodes: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON writes episodes to path, replacing the file if it exists.
// The data is written to a temp file in the same directory first, so a failed run won't leave a partial file.
func WriteJSON(path string, episodes []domain.Episode) error {
	data, err := Encode(episodes)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after successful rename

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // output is meant to be published
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
