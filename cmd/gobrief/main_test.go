package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/gobrief/internal/app"
	"github.com/hyperifyio/gobrief/internal/brief"
	"github.com/hyperifyio/gobrief/internal/ingest"
)

const cloudBriefing = "Brand: Acme Corp. Topic: cloud migration.\n" +
	"Must include: free trial\n" +
	"Disclaimer: Terms apply."

// isolateEnv keeps the developer's shell from leaking into config assembly.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GOBRIEF_MODE", "GOBRIEF_FORMAT", "GOBRIEF_ADDR", "GOBRIEF_CONCURRENCY",
		"LLM_BASE_URL", "LLM_MODEL", "LLM_API_KEY", "LLM_TIMEOUT", "LLM_CACHE_ONLY",
		"CACHE_DIR", "CACHE_MAX_AGE", "CACHE_CLEAR", "CACHE_STRICT_PERMS",
		"DRY_RUN", "VERBOSE",
	} {
		t.Setenv(k, "")
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	isolateEnv(t)
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--cache.dir", filepath.Join(t.TempDir(), "cache")))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestParse_FileToStdout(t *testing.T) {
	in := writeFile(t, t.TempDir(), "brief.txt", []byte(cloudBriefing))
	out, err := runCLI(t, "", "parse", in)
	require.NoError(t, err)

	var b brief.StructuredBrief
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, "Acme Corp", b.Brand.Name)
	assert.Contains(t, b.Platforms, brief.PlatformFacebook)
}

func TestParse_StdinWithTrace(t *testing.T) {
	out, err := runCLI(t, "Brand: Globex.", "parse", "-", "--explain", "--mode", "standard")
	require.NoError(t, err)

	var doc struct {
		Brief brief.StructuredBrief `json:"brief"`
		Trace brief.Trace           `json:"trace"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Globex", doc.Brief.Brand.Name)
	assert.Equal(t, brief.ModeStandard, doc.Trace.Mode)
}

func TestParse_OutputDirWritesManifest(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte(cloudBriefing))
	b := writeFile(t, dir, "b.txt", []byte("Brand: Globex. Topic: spring sale."))
	outDir := filepath.Join(dir, "out")

	stdout, err := runCLI(t, "", "parse", a, b, "--out", outDir, "-j", "2")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	_, err = os.Stat(filepath.Join(outDir, "manifest.json"))
	assert.NoError(t, err)
}

func TestParse_UnsupportedInputExitsWithInputCode(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "brief.txt", []byte(cloudBriefing))
	png := writeFile(t, dir, "logo.png", append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...))

	out, err := runCLI(t, "", "parse", good, png)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ingest.ErrUnsupportedFormat))
	assert.Equal(t, exitInput, exitCode(err))
	// The good input is still written.
	assert.Contains(t, out, "Acme Corp")
}

func TestParse_TooLargeExitsWithInputCode(t *testing.T) {
	in := writeFile(t, t.TempDir(), "big.txt", []byte(strings.Repeat("brief ", 100)))
	_, err := runCLI(t, "", "parse", in, "--max-bytes", "64")
	require.Error(t, err)
	assert.Equal(t, exitInput, exitCode(err))
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "brief.txt", []byte(cloudBriefing))
	cfgPath := writeFile(t, dir, "gobrief.yaml", []byte("format: yaml\nmode: standard\n"))

	out, err := runCLI(t, "", "parse", in, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "name: Acme Corp")

	out, err = runCLI(t, "", "parse", in, "--config", cfgPath, "--format", "json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"))
}

func TestInvalidConfigExitsWithUsageCode(t *testing.T) {
	in := writeFile(t, t.TempDir(), "brief.txt", []byte(cloudBriefing))
	_, err := runCLI(t, "", "parse", in, "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, app.ErrInvalidConfig))
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = runCLI(t, "", "parse")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestDraft_DryRunMarkdown(t *testing.T) {
	in := writeFile(t, t.TempDir(), "brief.txt", []byte(cloudBriefing))
	out, err := runCLI(t, "", "draft", in, "--dry-run")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Cloud migration\n"))
	assert.Contains(t, out, "Reproducibility: source=template")
	assert.NotContains(t, out, "WARNING")
}

func TestDraft_DataOutput(t *testing.T) {
	in := writeFile(t, t.TempDir(), "brief.txt", []byte(cloudBriefing))
	out, err := runCLI(t, "", "draft", in, "--dry-run", "--data")
	require.NoError(t, err)

	var res app.DraftResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Acme Corp", res.Brief.Brand.Name)
	assert.NotEmpty(t, res.Draft.Article)
	assert.Empty(t, res.Issues)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "brief.txt", []byte(cloudBriefing))
	parsed, err := runCLI(t, "", "parse", in)
	require.NoError(t, err)
	good := writeFile(t, dir, "brief.json", []byte(parsed))

	out, err := runCLI(t, "", "validate", good)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s: valid\n", good), out)

	bad := writeFile(t, dir, "bad.json", []byte(`{"brand":{}}`))
	_, err = runCLI(t, "", "validate", bad)
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "gobrief "))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitInput, exitCode(fmt.Errorf("x: %w", ingest.ErrTooLarge)))
	assert.Equal(t, exitUsage, exitCode(errors.New("boom")))
}
