package loader

import (
	"testing"

	"github.com/dshills/detour"
)

func fakeEnv(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestEnvLoader_PrefixConvention(t *testing.T) {
	l := NewEnvLoader("MYAPP_")
	l.environ = fakeEnv(
		"MYAPP_DB_HOST=localhost",
		"MYAPP_PORT=8080",
		"MYAPP_DEBUG=true",
		"OTHER_THING=ignored",
		"PATH=/usr/bin",
	)

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := map[string]detour.Value{
		"db.host": detour.String("localhost"),
		"port":    detour.Int(8080),
		"debug":   detour.Bool(true),
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

func TestEnvLoader_ExplicitMapping(t *testing.T) {
	l := NewEnvLoaderWithMapping("MYAPP_", map[string]string{
		"DATABASE_URL": "db.url",
	})
	l.environ = fakeEnv("DATABASE_URL=postgres://x")

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !got["db.url"].Equal(detour.String("postgres://x")) {
		t.Errorf("db.url = %v", got["db.url"])
	}
}

func TestEnvLoader_RemoveMapping(t *testing.T) {
	l := NewEnvLoaderWithMapping("MYAPP_", map[string]string{
		"DATABASE_URL": "db.url",
	})
	l.RemoveMapping("DATABASE_URL")
	l.environ = fakeEnv("DATABASE_URL=postgres://x")

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no assignments, got %v", got)
	}
}

func TestEnvLoader_TypedValues(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want detour.Value
	}{
		{"int", "42", detour.Int(42)},
		{"negative int", "-3", detour.Int(-3)},
		{"float", "1.5", detour.Float(1.5)},
		{"bool upper", "TRUE", detour.Bool(true)},
		{"bool false", "false", detour.Bool(false)},
		{"json array", `[1, "two"]`, detour.Array(detour.Int(1), detour.String("two"))},
		{"bad json array stays string", `[1,`, detour.String("[1,")},
		{"empty string", "", detour.String("")},
		{"plain string", "hello world", detour.String("hello world")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewEnvLoader("X_")
			l.environ = fakeEnv("X_KEY=" + tt.raw)

			got, err := l.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !got["key"].Equal(tt.want) {
				t.Errorf("key = %v, want %v", got["key"], tt.want)
			}
		})
	}
}
