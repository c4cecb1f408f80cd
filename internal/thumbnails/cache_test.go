package thumbnails

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func imageServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path == "/missing.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("fake image data " + r.URL.Path))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestNewCache(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "thumbnails")

	cache, err := NewCache(cacheDir)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	if cache.CacheDir() != cacheDir {
		t.Errorf("expected cache dir %s, got %s", cacheDir, cache.CacheDir())
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		t.Error("cache directory was not created")
	}
}

func TestGetThumbnail_EmptyURL(t *testing.T) {
	cache, _ := NewCache(t.TempDir())

	path, err := cache.GetThumbnail(context.Background(), 1, "")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path for empty URL, got %s", path)
	}
}

func TestGetThumbnail_FetchAndCache(t *testing.T) {
	server, hits := imageServer(t)
	cache, _ := NewCache(t.TempDir())
	ctx := context.Background()

	path1, err := cache.GetThumbnail(ctx, 1, server.URL+"/a.jpg")
	if err != nil {
		t.Fatalf("GetThumbnail failed: %v", err)
	}
	if _, err := os.Stat(path1); err != nil {
		t.Fatalf("cached file does not exist: %v", err)
	}

	path2, err := cache.GetThumbnail(ctx, 1, server.URL+"/a.jpg")
	if err != nil {
		t.Fatalf("GetThumbnail (cached) failed: %v", err)
	}
	if path1 != path2 {
		t.Error("expected same path for cached request")
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Errorf("expected 1 upstream fetch, got %d", got)
	}
}

func TestGetThumbnail_URLChangeReplacesFile(t *testing.T) {
	server, _ := imageServer(t)
	cache, _ := NewCache(t.TempDir())
	ctx := context.Background()

	oldPath, err := cache.GetThumbnail(ctx, 7, server.URL+"/old.jpg")
	if err != nil {
		t.Fatalf("GetThumbnail failed: %v", err)
	}
	newPath, err := cache.GetThumbnail(ctx, 7, server.URL+"/new.jpg")
	if err != nil {
		t.Fatalf("GetThumbnail failed: %v", err)
	}

	if oldPath == newPath {
		t.Fatal("expected a different file for a different URL")
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("old thumbnail should have been removed")
	}
}

func TestGetThumbnail_FetchError(t *testing.T) {
	server, _ := imageServer(t)
	cache, _ := NewCache(t.TempDir())

	path, err := cache.GetThumbnail(context.Background(), 1, server.URL+"/missing.jpg")
	if err == nil {
		t.Error("expected error for 404 response")
	}
	if path != "" {
		t.Errorf("expected empty path on error, got %s", path)
	}
}

func TestInvalidate(t *testing.T) {
	server, _ := imageServer(t)
	cache, _ := NewCache(t.TempDir())
	ctx := context.Background()

	path, _ := cache.GetThumbnail(ctx, 1, server.URL+"/a.jpg")
	other, _ := cache.GetThumbnail(ctx, 11, server.URL+"/b.jpg")

	if err := cache.Invalidate(1); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("thumbnail should have been removed")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("thumbnail of book 11 should survive invalidating book 1")
	}
}

func TestPrune(t *testing.T) {
	server, _ := imageServer(t)
	dir := t.TempDir()
	cache, _ := NewCache(dir)
	ctx := context.Background()

	kept, _ := cache.GetThumbnail(ctx, 1, server.URL+"/a.jpg")
	orphan, _ := cache.GetThumbnail(ctx, 2, server.URL+"/b.jpg")
	outdated, _ := cache.GetThumbnail(ctx, 3, server.URL+"/c.jpg")

	staleTmp := filepath.Join(dir, tmpPrefix+"stale")
	freshTmp := filepath.Join(dir, tmpPrefix+"fresh")
	unrelated := filepath.Join(dir, "notes.txt")
	for _, p := range []string{staleTmp, freshTmp, unrelated} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(staleTmp, old, old); err != nil {
		t.Fatal(err)
	}

	removed, err := cache.Prune(map[uint]string{
		1: server.URL + "/a.jpg",
		3: server.URL + "/c-new.jpg",
	})
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 files removed, got %d", removed)
	}

	for _, p := range []string{kept, freshTmp, unrelated} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s should have been kept", filepath.Base(p))
		}
	}
	for _, p := range []string{orphan, outdated, staleTmp} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should have been removed", filepath.Base(p))
		}
	}
}
