package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GoPolymarket/vesting-dashboard/internal/generate"
)

func writeFixtures(t *testing.T, dir string) (string, string) {
	t.Helper()
	projects := []generate.Project{
		{Name: "Alpha", FundingUSD: decimal.NewFromInt(8000)},
		{Name: "Beta", FundingUSD: decimal.NewFromInt(40000)},
	}
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	purePath := filepath.Join(dir, "pure.json")
	hybridPath := filepath.Join(dir, "hybrid.json")
	for path, doc := range map[string]any{
		purePath:   generate.PureDataset(projects, now),
		hybridPath: generate.HybridDataset(projects, now),
	} {
		f, err := os.Create(path)
		if err != nil {
			t.Fatalf("create %s: %v", path, err)
		}
		if err := generate.WriteJSON(f, doc); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		f.Close()
	}
	return purePath, hybridPath
}

func TestLoadFromFiles(t *testing.T) {
	pure, hybrid := writeFixtures(t, t.TempDir())
	l := NewLoader(Source(pure), Source(hybrid), true)
	b, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(b.Pure.Allocations) != 2 || len(b.Hybrid.Allocations) != 2 {
		t.Fatalf("unexpected allocation counts %d/%d", len(b.Pure.Allocations), len(b.Hybrid.Allocations))
	}
	if b.LoadID == uuid.Nil {
		t.Fatal("expected load id")
	}
	if b.LoadedAt.IsZero() {
		t.Fatal("expected load time")
	}
}

func TestLoadFromURL(t *testing.T) {
	pure, hybrid := writeFixtures(t, t.TempDir())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pure.json":
			http.ServeFile(w, r, pure)
		case "/hybrid.json":
			http.ServeFile(w, r, hybrid)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(Source(srv.URL+"/pure.json"), Source(srv.URL+"/hybrid.json"), false)
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	l.Hybrid = Source(srv.URL + "/missing.json")
	_, err := l.Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "unexpected status 404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoadFailsWhenEitherSourceFails(t *testing.T) {
	dir := t.TempDir()
	pure, _ := writeFixtures(t, dir)
	l := NewLoader(Source(pure), Source(filepath.Join(dir, "nope.json")), false)
	_, err := l.Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "load hybrid dataset") {
		t.Fatalf("expected hybrid load error, got %v", err)
	}
}

func TestStrictLoadRejectsBadProportions(t *testing.T) {
	dir := t.TempDir()
	pure, hybrid := writeFixtures(t, dir)
	raw, err := os.ReadFile(pure)
	if err != nil {
		t.Fatal(err)
	}
	bad := strings.Replace(string(raw), `"project_tokens": 4000,`, `"project_tokens": 6000,`, 1)
	if bad == string(raw) {
		t.Fatal("fixture did not contain expected project_tokens")
	}
	if err := os.WriteFile(pure, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader(Source(pure), Source(hybrid), false).Load(context.Background()); err != nil {
		t.Fatalf("lenient load should succeed, got %v", err)
	}
	_, err = NewLoader(Source(pure), Source(hybrid), true).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "pure dataset") {
		t.Fatalf("expected strict validation error, got %v", err)
	}
}

func TestSourceKinds(t *testing.T) {
	if !Source("HTTPS://example.com/a.json").IsURL() {
		t.Fatal("expected url source")
	}
	if Source("https://example.com/a.json").Path() != "" {
		t.Fatal("url source has no path")
	}
	if Source("data/a.json").Path() != "data/a.json" {
		t.Fatal("expected file path")
	}
	if StateFailed.String() != "failed" {
		t.Fatalf("unexpected state string %s", StateFailed)
	}
}
