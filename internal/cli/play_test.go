package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func runPlay(t *testing.T, input string) string {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("CATALOG_ASSETS_DIR", "")
	t.Setenv("POSTGRES_URL", "")
	t.Setenv("REDIS_ADDR", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"play", "--seed", "7", "--delay", "1ms",
		"--config", filepath.Join(t.TempDir(), "absent.yaml")})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("play: %v", err)
	}
	return out.String()
}

func TestPlayShowsFirstQuestion(t *testing.T) {
	out := runPlay(t, "state\n7\nnot a dish\nquit\n")

	for _, want := range []string{
		"Question 1 of 10",
		"1) ",
		"[x] British",
		"error: guess is not one of the choices",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPlayRowsAndCategories(t *testing.T) {
	out := runPlay(t, "rows 3\noff British\noff Chinese\noff Indian\noff Italian\nstate\nquit\n")

	if !strings.Contains(out, "9) ") {
		t.Fatalf("expected nine choices after rows 3:\n%s", out)
	}
	if !strings.Contains(out, "enable at least one category") {
		t.Fatalf("expected empty pool error:\n%s", out)
	}
	if !strings.Contains(out, "[ ] Italian") {
		t.Fatalf("expected Italian disabled in state:\n%s", out)
	}
}
