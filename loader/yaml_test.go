package loader

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dshills/detour"
)

func TestYAMLLoader_LoadFromReader(t *testing.T) {
	doc := `
host: localhost
port: 8080
debug: true
db:
  name: app
  hosts:
    - a
    - b
unset: null
`

	l := NewYAMLLoader("unused.yaml")
	got, err := l.LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	want := map[string]detour.Value{
		"host":     detour.String("localhost"),
		"port":     detour.Int(8080),
		"debug":    detour.Bool(true),
		"db.name":  detour.String("app"),
		"db.hosts": detour.Array(detour.String("a"), detour.String("b")),
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d assignments, got %d: %v", len(want), len(got), got)
	}
	for key, wantVal := range want {
		if !got[key].Equal(wantVal) {
			t.Errorf("%s = %v, want %v", key, got[key], wantVal)
		}
	}
}

func TestYAMLLoader_LoadFrom(t *testing.T) {
	fs := fstest.MapFS{
		"app.yaml": &fstest.MapFile{Data: []byte("workers: 4\n")},
	}

	l := NewYAMLLoaderWithFS(fs, "app.yaml")
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !got["workers"].Equal(detour.Int(4)) {
		t.Errorf("workers = %v, want 4", got["workers"])
	}
}

func TestYAMLLoader_MissingFile(t *testing.T) {
	l := NewYAMLLoaderWithFS(fstest.MapFS{}, "nope.yaml")
	got, err := l.Load()
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestYAMLLoader_Malformed(t *testing.T) {
	l := NewYAMLLoader("unused.yaml")
	if _, err := l.LoadFromReader(strings.NewReader("host: [unterminated")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
