package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/engine"
)

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// calendarFeed serves the generated ICS document with conditional-request
// support.
type calendarFeed struct {
	// cache uses atomic.Pointer for lock-free reads. The feed is read
	// frequently by calendar clients and regenerated only when a record or
	// the reminder schedule changes, so this beats a RWMutex on the hot
	// path (HTTP GET).
	cache     atomic.Pointer[cacheItem]
	generator *engine.Generator
}

func newCalendarFeed(generator *engine.Generator) *calendarFeed {
	return &calendarFeed{generator: generator}
}

// Invalidate drops the cached rendering. The next GET regenerates.
func (f *calendarFeed) Invalidate() {
	f.cache.Store(nil)
	slog.Debug(config.MsgCacheDropped, config.LogKeyComponent, config.CompServer)
}

// current returns the cached item, rendering a fresh one if needed.
func (f *calendarFeed) current() (*cacheItem, error) {
	if item := f.cache.Load(); item != nil {
		return item, nil
	}

	data, err := f.generator.Generate()
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256(data)
	item := &cacheItem{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}

	// Atomic store ensures concurrent readers see either the old or the new
	// complete item, never a partial state.
	f.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(item.data),
		config.LogKeyETag, item.etag,
	)
	return item, nil
}

// ServeHTTP serves the ICS content with HTTP caching support.
// GET /api/birthdays/calendar
func (f *calendarFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	item, err := f.current()
	if err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		writeInternalError(w)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	// Conditional headers let calendar clients skip unchanged downloads.
	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
