package app

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildManifestEntries(t *testing.T) {
	results := []ParseResult{
		{Source: "a.txt", MIME: "text/plain", Path: "/out/cloud-migration-abc.json"},
		{Source: "logo.png", Err: errors.New("unsupported format")},
	}
	entries := buildManifestEntries(results, map[string]string{"/out/cloud-migration-abc.json": "deadbeef"})
	require.Len(t, entries, 2)
	assert.Equal(t, manifestEntry{Source: "a.txt", Output: "cloud-migration-abc.json", MIME: "text/plain", SHA256: "deadbeef"}, entries[0])
	assert.Equal(t, "unsupported format", entries[1].Error)
	assert.Empty(t, entries[1].Output)
}

func TestMarshalManifestJSON(t *testing.T) {
	meta := manifestMeta{Mode: "enhanced", Format: "json", Version: "1.2.3", InputCount: 1, GeneratedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	data, err := marshalManifestJSON(meta, []manifestEntry{{Source: "a.txt", SHA256: computeSHA256Hex([]byte("hello"))}})
	require.NoError(t, err)

	var got struct {
		Meta   map[string]any   `json:"meta"`
		Inputs []map[string]any `json:"inputs"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "enhanced", got.Meta["mode"])
	assert.Equal(t, "2024-01-01T12:00:00Z", got.Meta["generated_at"])
	require.Len(t, got.Inputs, 1)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", got.Inputs[0]["sha256"])
	assert.NotContains(t, got.Inputs[0], "error")
}
