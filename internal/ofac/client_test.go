package ofac

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFreshCachedFileFindsTodaysFile(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, 0, 7)

	path := c.cachePath(time.Now())
	if err := os.WriteFile(path, []byte("<sdn/>"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	got, ok := c.freshCachedFile()
	if !ok {
		t.Fatal("expected a fresh cache file to be found")
	}
	if got != path {
		t.Errorf("got %q, want %q", got, path)
	}
}

func TestFreshCachedFileFindsRecentFileWithinWindow(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, 0, 7)

	threeDaysAgo := time.Now().AddDate(0, 0, -3)
	path := filepath.Join(dir, "sdn_"+threeDaysAgo.Format("2006-01-02")+".xml")
	if err := os.WriteFile(path, []byte("<sdn/>"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, ok := c.freshCachedFile(); !ok {
		t.Fatal("expected a cache file within the freshness window to be found")
	}
}

func TestFreshCachedFileMissingWhenEmpty(t *testing.T) {
	c := New(t.TempDir(), 0, 7)
	if _, ok := c.freshCachedFile(); ok {
		t.Fatal("expected no cache file to be found in an empty directory")
	}
}

func TestFreshCachedFileIgnoresStaleFiles(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, 0, 7)

	stale := time.Now().AddDate(0, 0, -30)
	path := filepath.Join(dir, "sdn_"+stale.Format("2006-01-02")+".xml")
	if err := os.WriteFile(path, []byte("<sdn/>"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, ok := c.freshCachedFile(); ok {
		t.Fatal("expected stale cache file to be ignored")
	}
}
