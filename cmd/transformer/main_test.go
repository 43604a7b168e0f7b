package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackcoderx/transformer/pkg/builder"
	"github.com/blackcoderx/transformer/pkg/transformer"
)

const legacyDoc = `{
	"id": "c1",
	"name": "Legacy",
	"order": ["r1"],
	"requests": [{
		"id": "r1",
		"url": "https://example.com",
		"method": "GET",
		"currentHelper": "basicAuth",
		"helperAttributes": {"id": "basic", "username": "u", "password": "p"}
	}]
}`

func execute(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "legacy.json")
	out := filepath.Join(dir, "out", "modern.json")
	require.NoError(t, os.WriteFile(in, []byte(legacyDoc), 0644))

	execute(t, "convert", "-i", in, "-o", out, "--output-version", "2.1", "--retain-ids", "--pretty")

	got, err := os.ReadFile(out)
	require.NoError(t, err)

	want, err := transformer.Convert([]byte(legacyDoc), transformer.Options{
		Options:       builder.Options{RetainIDs: true},
		OutputVersion: "2.1.0",
	}, nil)
	require.NoError(t, err)

	if diff := cmp.Diff(decode(t, want), decode(t, got)); diff != "" {
		t.Errorf("convert output mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCommand_YAML(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "legacy.json")
	out := filepath.Join(dir, "clean.yaml")
	require.NoError(t, os.WriteFile(in, []byte(legacyDoc), 0644))

	execute(t, "normalize", "-i", in, "-o", out, "--retain-ids")

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(got), "currentHelper: basicAuth")
	assert.Contains(t, string(got), "type: basic")
}

func TestPick(t *testing.T) {
	_, err := pick("folder", transformer.Convert, transformer.ConvertSingle, transformer.ConvertResponse)
	assert.Error(t, err)

	fn, err := pick("request", transformer.Normalize, transformer.NormalizeSingle, transformer.NormalizeResponse)
	require.NoError(t, err)

	out, err := fn([]byte(`{"id":"r","dataMode":"binary"}`), transformer.Options{Options: builder.Options{RetainIDs: true}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"r","dataMode":"binary","data":[]}`, string(out))
}

func TestBatchCommand(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "team"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "one.json"), []byte(legacyDoc), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "team", "two.json"), []byte(legacyDoc), 0644))

	execute(t, "batch", src, "--out-dir", dst, "--to", "2.0.0")

	for _, name := range []string{"one.json", filepath.Join("team", "two.json")} {
		data, err := os.ReadFile(filepath.Join(dst, name))
		require.NoError(t, err)
		version, err := transformer.DetectVersion(data)
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", version)
	}
}

func TestEnvCommand(t *testing.T) {
	t.Setenv("TRANSFORMER_TEST_TOKEN", "s3cret")
	dir := t.TempDir()
	in := filepath.Join(dir, "dev.json")
	out := filepath.Join(dir, "dev")
	require.NoError(t, os.WriteFile(in, []byte(`{"name":"dev","values":[{"key":"token","value":"{{env:TRANSFORMER_TEST_TOKEN}}"}]}`), 0644))

	execute(t, "env", "-i", in, "-o", out)

	data, err := os.ReadFile(out + ".yaml")
	require.NoError(t, err)
	assert.Equal(t, "token: s3cret\n", string(data))
}
