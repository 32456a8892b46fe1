package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"time"
)

// manifestEntry records one input of a batch and where its brief went.
type manifestEntry struct {
	Source string `json:"source"`
	Output string `json:"output,omitempty"`
	MIME   string `json:"mime,omitempty"`
	SHA256 string `json:"sha256,omitempty"`
	Error  string `json:"error,omitempty"`
}

// manifestMeta captures run details that make a batch reproducible.
type manifestMeta struct {
	Mode        string    `json:"mode"`
	Format      string    `json:"format"`
	Version     string    `json:"version"`
	InputCount  int       `json:"input_count"`
	FailedCount int       `json:"failed_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// computeSHA256Hex returns a lowercase hex-encoded SHA-256 of data.
func computeSHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// buildManifestEntries lists results in input order. digests maps an output
// path to the SHA-256 of the bytes written there.
func buildManifestEntries(results []ParseResult, digests map[string]string) []manifestEntry {
	out := make([]manifestEntry, 0, len(results))
	for _, r := range results {
		e := manifestEntry{Source: r.Source, MIME: r.MIME}
		if r.Err != nil {
			e.Error = r.Err.Error()
		} else {
			e.Output = filepath.Base(r.Path)
			e.SHA256 = digests[r.Path]
		}
		out = append(out, e)
	}
	return out
}

// marshalManifestJSON encodes the machine-readable batch manifest.
func marshalManifestJSON(meta manifestMeta, entries []manifestEntry) ([]byte, error) {
	payload := struct {
		Meta   manifestMeta    `json:"meta"`
		Inputs []manifestEntry `json:"inputs"`
	}{Meta: meta, Inputs: entries}
	return json.MarshalIndent(payload, "", "  ")
}

// manifestPath is the manifest location inside an output directory.
func manifestPath(dir string) string {
	return filepath.Join(dir, "manifest.json")
}
