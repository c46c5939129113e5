package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestModeFits(t *testing.T) {
	cases := []struct {
		mode, want string
		ok         bool
	}{
		{"serve", "serve", true},
		{"dev", "serve", true},
		{"tui", "serve", false},
		{"terminal", "tui", true},
		{"audit", "audit", true},
		{"", "audit", false},
	}
	for _, tc := range cases {
		if got := modeFits(tc.mode, tc.want); got != tc.ok {
			t.Fatalf("modeFits(%q, %q): want %v got %v", tc.mode, tc.want, tc.ok, got)
		}
	}
}

func TestGenerateValidateReport(t *testing.T) {
	dir := t.TempDir()
	pure := filepath.Join(dir, "pure.json")
	hybrid := filepath.Join(dir, "hybrid.json")
	csvPath := mustAbs(t, "../../internal/generate/testdata/proposals.csv")

	run := func(argv ...string) string {
		t.Helper()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs(argv)
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("%v: %v", argv, err)
		}
		return out.String()
	}

	// No config.yaml here, so defaults apply.
	t.Chdir(dir)

	run("generate", "--input", csvPath, "--pure-out", pure, "--hybrid-out", hybrid)

	out := run("validate", "--pure", pure, "--hybrid", hybrid)
	if !strings.Contains(out, "ok: 3 pure and 3 hybrid allocations") {
		t.Fatalf("unexpected validate output %q", out)
	}

	out = run("report", "--pure", pure, "--hybrid", hybrid, "--project", "Bridge Audit Kit", "--approach", "hybrid", "--index", "4")
	if !strings.Contains(out, "Hybrid Vesting at month 4") || !strings.Contains(out, "Vested This Month") {
		t.Fatalf("unexpected report output %q", out)
	}
}

func mustAbs(t *testing.T, rel string) string {
	t.Helper()
	p, err := filepath.Abs(rel)
	if err != nil {
		t.Fatal(err)
	}
	return p
}
