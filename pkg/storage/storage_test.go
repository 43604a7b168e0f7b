package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func TestDocument_YAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "doc.yaml")

	in := []byte(`{"id":"c1","name":"Sample","order":["r1"]}`)
	if err := SaveDocument(in, path, false); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if !strings.Contains(string(raw), "name: Sample") {
		t.Errorf("expected YAML output, got:\n%s", raw)
	}

	out, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	var want, got map[string]any
	_ = json.Unmarshal(in, &want)
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("loaded document is not JSON: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("round trip mismatch: want %v, got %v", want, got)
	}
}

func TestSaveDocument_PrettyJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")

	if err := SaveDocument([]byte(`{"a":1}`), path, true); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "{\n  \"a\": 1\n}\n" {
		t.Errorf("unexpected output: %q", raw)
	}
}

func TestFormat_InvalidJSON(t *testing.T) {
	if _, err := Format([]byte(`{`), "out.yaml", false); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestListDocuments(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"a.json", "b.yaml", "sub/c.yml", "notes.txt"} {
		path := filepath.Join(tmpDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ListDocuments(tmpDir)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	sort.Strings(files)
	want := []string{"a.json", "b.yaml", filepath.Join("sub", "c.yml")}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("want %v, got %v", want, files)
	}

	files, err = ListDocuments(filepath.Join(tmpDir, "missing"))
	if err != nil || len(files) != 0 {
		t.Errorf("missing dir: want empty list, got %v (%v)", files, err)
	}
}

func TestLoadEnvironment_Exported(t *testing.T) {
	t.Setenv("TRANSFORMER_TEST_TOKEN", "secret")
	path := filepath.Join(t.TempDir(), "env.json")
	doc := `{"name":"dev","values":[{"key":"host","value":"localhost"},{"key":"token","value":"{{env:TRANSFORMER_TEST_TOKEN}}","enabled":false}]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := LoadEnvironment(path)
	if err != nil {
		t.Fatalf("LoadEnvironment: %v", err)
	}
	if env.Name != "dev" || len(env.Values) != 2 {
		t.Fatalf("unexpected environment: %+v", env)
	}
	if env.Values[1].Value != "secret" {
		t.Errorf("env reference not resolved: %v", env.Values[1].Value)
	}
	if env.Values[1].Enabled == nil || *env.Values[1].Enabled {
		t.Error("enabled flag lost")
	}
}

func TestLoadEnvironment_FlatYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(path, []byte("host: localhost\nmissing: \"{{env:TRANSFORMER_TEST_UNSET}}\"\nport: 8080\n"), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := LoadEnvironment(path)
	if err != nil {
		t.Fatalf("LoadEnvironment: %v", err)
	}
	got := make(map[string]any)
	for _, v := range env.Values {
		got[v.Key] = v.Value
	}
	want := map[string]any{"host": "localhost", "missing": "{{env:TRANSFORMER_TEST_UNSET}}", "port": float64(8080)}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	if env.Values[0].Key != "host" {
		t.Errorf("values are not sorted by key: %+v", env.Values)
	}
}

func TestSaveEnvironment_AddsExtension(t *testing.T) {
	base := filepath.Join(t.TempDir(), "dev")
	env := EnvironmentFromMap(map[string]any{"a": "1"})
	if err := SaveEnvironment(env, base); err != nil {
		t.Fatalf("SaveEnvironment: %v", err)
	}
	if _, err := os.Stat(base + ".yaml"); err != nil {
		t.Errorf("expected %s.yaml: %v", base, err)
	}
}

func TestWithinDir(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "relative file", path: "a/b.json"},
		{name: "directory itself", path: "."},
		{name: "absolute inside", path: filepath.Join(tmpDir, "x.json")},
		{name: "traversal", path: "../../etc/passwd", wantErr: true},
		{name: "traversal in middle", path: "a/../../x.json", wantErr: true},
		{name: "sibling prefix", path: tmpDir + "-evil/x.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithinDir(tt.path, tmpDir)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got path %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !filepath.IsAbs(got) {
				t.Errorf("got %q, want an absolute path", got)
			}
		})
	}
}
