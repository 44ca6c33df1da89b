package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCatalog(t *testing.T, cfg *GatewayConfig, content string) {
	t.Helper()
	if err := os.MkdirAll(cfg.Root, 0755); err != nil {
		t.Fatalf("mkdir root: %v", err)
	}
	if err := os.WriteFile(cfg.CatalogPath(), []byte(content), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
}

func TestLoadCatalog(t *testing.T) {
	cfg := &GatewayConfig{Root: t.TempDir()}
	writeCatalog(t, cfg, "lor.forum.talks 42 Talks\nlor.news 7 News and announcements\n")

	groups, err := cfg.LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Name != "lor.forum.talks" || groups[0].ForumID != 42 || groups[0].Description != "Talks" {
		t.Errorf("groups[0] = %+v, unexpected", groups[0])
	}
}

func TestLoadCatalogRejectsInvalidNames(t *testing.T) {
	cfg := &GatewayConfig{Root: t.TempDir()}
	writeCatalog(t, cfg, "lor.forum.* 1 bad\n")
	if _, err := cfg.LoadCatalog(); err == nil {
		t.Error("expected error for wildcard in group name")
	}
}

func TestLookupGroup(t *testing.T) {
	cfg := &GatewayConfig{Root: t.TempDir()}
	writeCatalog(t, cfg, "lor.forum.talks 42 Talks\n")

	g, ok, err := cfg.LookupGroup("lor.forum.talks")
	if err != nil || !ok || g.ForumID != 42 {
		t.Errorf("LookupGroup = (%+v, %v, %v), want (ForumID=42, true, nil)", g, ok, err)
	}

	_, ok, err = cfg.LookupGroup("lor.forum.unknown")
	if err != nil || ok {
		t.Errorf("LookupGroup(unknown) = (_, %v, %v), want (false, nil)", ok, err)
	}
}

func TestCreationDateRoundTrip(t *testing.T) {
	cfg := &GatewayConfig{Root: t.TempDir()}
	want := time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)
	if err := cfg.WriteCreationDate(want); err != nil {
		t.Fatalf("WriteCreationDate: %v", err)
	}
	got, err := cfg.LoadCreationDate()
	if err != nil {
		t.Fatalf("LoadCreationDate: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("LoadCreationDate = %v, want %v", got, want)
	}
}

func TestGroupDirDotSplit(t *testing.T) {
	cfg := &GatewayConfig{Root: "/root/x"}
	got := cfg.GroupDir("lor.forum.talks")
	want := filepath.Join("/root/x", "news", "lor", "forum", "talks")
	if got != want {
		t.Errorf("GroupDir = %q, want %q", got, want)
	}
}
