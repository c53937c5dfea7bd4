package engine_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/engine"
)

func TestHTTPFetcher_Fetch_Success(t *testing.T) {
	expectedBody := "BEGIN:VCARD\nVERSION:3.0\nFN:Test\nBDAY:--01-01\nEND:VCARD"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.UserAgent, r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(expectedBody))
	}))
	defer ts.Close()

	fetcher := engine.NewHTTPFetcher()
	rc, err := fetcher.Fetch(context.Background(), ts.URL)

	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, expectedBody, string(body))
}

func TestHTTPFetcher_Fetch_RejectsNonHTTPSchemes(t *testing.T) {
	fetcher := engine.NewHTTPFetcher()

	for _, url := range []string{
		"ftp://example.com/book.vcf",
		"file:///etc/passwd",
		"gopher://example.com",
	} {
		_, err := fetcher.Fetch(context.Background(), url)
		require.Error(t, err, url)
		assert.Contains(t, err.Error(), config.ErrProtocol)
	}
}

func TestHTTPFetcher_Fetch_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer ts.Close()

	fetcher := engine.NewHTTPFetcher()
	_, err := fetcher.Fetch(context.Background(), ts.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPFetcher_Fetch_ResponseSizeLimited(t *testing.T) {
	// Serve more than the cap; the reader must stop at the limit instead of
	// buffering an unbounded payload.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := []byte(strings.Repeat("X", 64*1024))
		written := int64(0)
		for written <= config.MaxHTTPResponseSize {
			n, err := w.Write(chunk)
			if err != nil {
				return
			}
			written += int64(n)
		}
	}))
	defer ts.Close()

	fetcher := engine.NewHTTPFetcher()
	rc, err := fetcher.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, int64(config.MaxHTTPResponseSize), int64(len(body)))
}

func TestHTTPFetcher_Fetch_ContextCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	fetcher := engine.NewHTTPFetcher()
	_, err := fetcher.Fetch(ctx, ts.URL)

	assert.Error(t, err, "cancelled context must abort the download")
}
