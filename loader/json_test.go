package loader

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dshills/detour"
)

func TestJSONLoader_LoadFromReader(t *testing.T) {
	doc := `{
		"host": "localhost",
		"port": 8080,
		"debug": true,
		"ratio": 0.5,
		"db": {"name": "app", "replicas": ["a", "b"]},
		"ignored": null
	}`

	l := NewJSONLoader("unused.json")
	got, err := l.LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	want := map[string]detour.Value{
		"host":        detour.String("localhost"),
		"port":        detour.Int(8080),
		"debug":       detour.Bool(true),
		"ratio":       detour.Float(0.5),
		"db.name":     detour.String("app"),
		"db.replicas": detour.Array(detour.String("a"), detour.String("b")),
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

func TestJSONLoader_LoadFrom(t *testing.T) {
	fs := fstest.MapFS{
		"config.json": &fstest.MapFile{Data: []byte(`{"host": "db1"}`)},
	}

	l := NewJSONLoaderWithFS(fs, "config.json")
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !got["host"].Equal(detour.String("db1")) {
		t.Errorf("host = %v, want db1", got["host"])
	}
}

func TestJSONLoader_MissingFile(t *testing.T) {
	l := NewJSONLoaderWithFS(fstest.MapFS{}, "nope.json")
	got, err := l.Load()
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestJSONLoader_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{"host": `},
		{"top-level array", `[1, 2]`},
		{"top-level scalar", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewJSONLoader("unused.json")
			if _, err := l.LoadFromReader(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestJSONLoader_Empty(t *testing.T) {
	l := NewJSONLoader("unused.json")
	got, err := l.LoadFromReader(strings.NewReader("  \n"))
	if err != nil {
		t.Fatalf("empty input should not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestJSONLoader_NumberForms(t *testing.T) {
	doc := `{"int": 3, "exp": 1e3, "neg": -2.5}`
	l := NewJSONLoader("unused.json")
	got, err := l.LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	if got["int"].Kind() != detour.KindInt {
		t.Errorf("int kind = %v, want integer", got["int"].Kind())
	}
	if got["exp"].Kind() != detour.KindFloat {
		t.Errorf("exp kind = %v, want number", got["exp"].Kind())
	}
	if got["neg"].Float() != -2.5 {
		t.Errorf("neg = %v, want -2.5", got["neg"])
	}
}
