package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/podjson/pkg/domain"
)

func TestEncode(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		data, err := Encode(nil)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))
	})

	t.Run("unicode and html kept", func(t *testing.T) {
		year := 2024
		data, err := Encode([]domain.Episode{{
			Name:          "Эпизод <1> & co",
			Year:          &year,
			EpisodeNumber: domain.ParseIntOrString("1"),
			Season:        domain.ParseIntOrString("S1"),
		}})
		require.NoError(t, err)

		s := string(data)
		assert.Contains(t, s, `"name": "Эпизод <1> & co"`)
		assert.Contains(t, s, "\n    \"desc\": \"\",\n")
		assert.Contains(t, s, `"episode_number": 1,`)
		assert.Contains(t, s, `"season": "S1",`)
		assert.Contains(t, s, `"year": 2024,`)

		var back []map[string]any
		require.NoError(t, json.Unmarshal(data, &back))
		require.Len(t, back, 1)
	})

	t.Run("field order", func(t *testing.T) {
		data, err := Encode([]domain.Episode{{Name: "x"}})
		require.NoError(t, err)
		keys := []string{"name", "desc", "link", "audio_url", "image", "date", "year", "duration",
			"episode_number", "season", "episode_type", "guid", "explicit", "page", "pub_iso"}
		last := -1
		for _, k := range keys {
			idx := strings.Index(string(data), `"`+k+`":`)
			require.Greater(t, idx, last, "key %s out of order", k)
			last = idx
		}
	})
}

func TestWriteJSON(t *testing.T) {
	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "episodes.json")
		require.NoError(t, WriteJSON(path, []domain.Episode{{Name: "one"}, {Name: "two"}}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got []domain.Episode
		require.NoError(t, json.Unmarshal(data, &got))
		require.Len(t, got, 2)
		assert.Equal(t, "one", got[0].Name)
	})

	t.Run("replaces existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "episodes.json")
		require.NoError(t, os.WriteFile(path, []byte("old content"), 0o600))
		require.NoError(t, WriteJSON(path, nil))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no temp files left")
	})

	t.Run("missing directory", func(t *testing.T) {
		err := WriteJSON(filepath.Join(t.TempDir(), "nope", "episodes.json"), nil)
		require.Error(t, err)
	})
}
