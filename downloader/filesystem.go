package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Caches downloaded documents in a JSON file, so repeated runs of a
// command don't hit the API once per stop again.
//
// Fetched documents are kept in memory until Flush writes them out.
// Concurrent Gets for different URLs run in parallel.
type Filesystem struct {
	Path    string
	Logger  *slog.Logger
	TimeNow func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
	dirty   bool
}

// Bodies are base64 in the file, as encoding/json does for []byte.
type cacheEntry struct {
	Body      []byte    `json:"body"`
	Retrieved time.Time `json:"retrieved_at"`
}

// Opens the cache at path. A missing file is an empty cache.
func NewFilesystem(path string) (*Filesystem, error) {
	f := &Filesystem{
		Path:    path,
		Logger:  slog.Default().With(slog.String("component", "downloader")),
		TimeNow: time.Now,
		entries: map[string]cacheEntry{},
	}

	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache %s: %w", path, err)
	}
	if err := json.Unmarshal(buf, &f.entries); err != nil {
		return nil, fmt.Errorf("decoding cache %s: %w", path, err)
	}

	f.Logger.Debug("cache loaded", slog.String("path", path), slog.Int("entries", len(f.entries)))

	return f, nil
}

func (f *Filesystem) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {
	if options.Cache {
		f.mu.RLock()
		entry, found := f.entries[url]
		f.mu.RUnlock()

		if found {
			if entry.Retrieved.Add(options.CacheTTL).After(f.TimeNow()) {
				f.Logger.Debug("cache hit", slog.String("url", url))
				return entry.Body, nil
			}
			f.Logger.Debug("cache expired", slog.String("url", url))
		}
	}

	body, err := HTTPGet(ctx, url, headers, options)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}

	if options.Cache {
		f.mu.Lock()
		f.entries[url] = cacheEntry{Body: body, Retrieved: f.TimeNow().UTC()}
		f.dirty = true
		f.mu.Unlock()
	}

	return body, nil
}

// Writes the cache file if anything was fetched since the last flush.
func (f *Filesystem) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.dirty {
		return nil
	}

	buf, err := json.Marshal(f.entries)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := os.WriteFile(f.Path, buf, 0644); err != nil {
		return fmt.Errorf("writing cache %s: %w", f.Path, err)
	}
	f.dirty = false

	f.Logger.Debug("cache flushed", slog.String("path", f.Path), slog.Int("entries", len(f.entries)))

	return nil
}
