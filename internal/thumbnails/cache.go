// Package thumbnails keeps local copies of book thumbnail images so the
// gallery never hotlinks the original host.
package thumbnails

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	filePrefix = "thumb_"
	tmpPrefix  = "thumb_tmp_"

	// staleTmpAge is how old an abandoned download must be before Prune removes it.
	staleTmpAge = time.Hour
)

// Cache handles local caching of book thumbnails.
type Cache struct {
	cacheDir   string
	httpClient *http.Client
}

// NewCache creates a thumbnail cache at the specified directory.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		cacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetThumbnail returns the cached thumbnail for a book, fetching it first if
// needed. Files cached for an earlier URL of the same book are removed.
// Returns an empty path for an empty URL.
func (c *Cache) GetThumbnail(ctx context.Context, bookID uint, thumbnailURL string) (string, error) {
	if thumbnailURL == "" {
		return "", nil
	}

	cachePath := filepath.Join(c.cacheDir, c.filename(bookID, thumbnailURL))
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := c.fetchAndCache(ctx, thumbnailURL, cachePath); err != nil {
		return "", err
	}

	if err := c.removeExcept(bookID, cachePath); err != nil {
		return "", err
	}
	return cachePath, nil
}

// Invalidate removes every cached thumbnail for a book.
func (c *Cache) Invalidate(bookID uint) error {
	return c.removeExcept(bookID, "")
}

// Prune deletes cached files that no longer belong to a live book, given
// the current thumbnail URL of every live book, plus abandoned downloads.
// It returns the number of files removed.
func (c *Cache) Prune(live map[uint]string) (int, error) {
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) {
			continue
		}

		if strings.HasPrefix(name, tmpPrefix) {
			info, err := entry.Info()
			if err != nil || time.Since(info.ModTime()) < staleTmpAge {
				continue
			}
		} else if id, ok := parseBookID(name); ok {
			if url, exists := live[id]; exists && url != "" && name == c.filename(id, url) {
				continue
			}
		}

		if err := os.Remove(filepath.Join(c.cacheDir, name)); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

// filename derives the cache file name from the book ID and a URL hash, so a
// changed URL never serves the old image.
func (c *Cache) filename(bookID uint, thumbnailURL string) string {
	hash := sha256.Sum256([]byte(thumbnailURL))
	return fmt.Sprintf("%s%d_%x.img", filePrefix, bookID, hash[:8])
}

// parseBookID extracts the book ID from "thumb_<id>_<hash>.img".
func parseBookID(name string) (uint, bool) {
	rest := strings.TrimPrefix(name, filePrefix)
	idPart, _, found := strings.Cut(rest, "_")
	if !found {
		return 0, false
	}
	id, err := strconv.ParseUint(idPart, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (c *Cache) removeExcept(bookID uint, keep string) error {
	pattern := filepath.Join(c.cacheDir, fmt.Sprintf("%s%d_*", filePrefix, bookID))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	for _, match := range matches {
		if match == keep {
			continue
		}
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (c *Cache) fetchAndCache(ctx context.Context, url, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "BookGallery/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch thumbnail: status %d", resp.StatusCode)
	}

	// Temp file in the same directory for an atomic rename
	tmpFile, err := os.CreateTemp(c.cacheDir, tmpPrefix)
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return err
	}
	tmpFile.Close()

	return os.Rename(tmpPath, cachePath)
}
