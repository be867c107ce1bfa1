// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jaycherian/go-reel-metadata/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mp4Header is a minimal MP4 "ftyp" box that the filetype sniffer accepts
// as video.
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00,
	'm', 'p', '4', '2', 'i', 's', 'o', 'm',
}

func newTestDownloader(t *testing.T) *HTTPDownloader {
	t.Helper()
	return NewHTTPDownloader(config.Downloader{
		DownloadDir:      t.TempDir(),
		TimeoutInSeconds: 5,
		MaxRetries:       3,
		BackoffInMillis:  1,
		UserAgent:        "test-agent",
	})
}

func TestExtractShortcode(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "reel path", url: "https://example.com/reel/ABC123/", want: "ABC123"},
		{name: "post path", url: "https://example.com/p/XYZ789", want: "XYZ789"},
		{name: "plain path", url: "https://example.com/videos/last-segment", want: "last-segment"},
		{name: "reel with query", url: "https://example.com/reel/Q1W2E3?utm_source=share", want: "Q1W2E3"},
		{name: "empty path", url: "https://example.com/", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractShortcode(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestDownloadRetriesTransientFailures verifies that server errors are
// retried with backoff until the video is served.
func TestDownloadRetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(mp4Header)
	}))
	defer server.Close()

	d := newTestDownloader(t)
	path, err := d.Download(context.Background(), server.URL+"/reel/RETRY1")
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Contains(t, path, "reel_RETRY1.mp4")
	assert.Equal(t, int32(3), attempts.Load())
}

// TestDownloadPermanentFailuresShortCircuit verifies that removed and
// private content fail without retries.
func TestDownloadPermanentFailuresShortCircuit(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "private", status: http.StatusForbidden, wantErr: ErrPrivateContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			d := newTestDownloader(t)
			_, err := d.Download(context.Background(), server.URL+"/reel/GONE42")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, int32(1), attempts.Load())
		})
	}
}

// TestDownloadRejectsNonVideoPayload verifies that an HTML page served with
// a 200 status is not accepted as a video.
func TestDownloadRejectsNonVideoPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>log in to continue</body></html>"))
	}))
	defer server.Close()

	d := newTestDownloader(t)
	_, err := d.Download(context.Background(), server.URL+"/reel/WALLED")
	assert.ErrorIs(t, err, ErrPrivateContent)
}

// TestDownloadServesCachedFile verifies that a previously downloaded
// shortcode is reused without a network request.
func TestDownloadServesCachedFile(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Write(mp4Header)
	}))
	defer server.Close()

	d := newTestDownloader(t)
	first, err := d.Download(context.Background(), server.URL+"/reel/CACHED")
	require.NoError(t, err)
	second, err := d.Download(context.Background(), server.URL+"/reel/CACHED")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), attempts.Load())
}
