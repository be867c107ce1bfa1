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

// This file implements the HTTP-backed Downloader. Downloads land in the
// configured directory as "reel_<shortcode>.mp4". Transient failures are
// retried with exponential backoff; private or removed content fails fast.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/h2non/filetype"
	"github.com/jaycherian/go-reel-metadata/internal/config"
)

// HTTPDownloader implements Downloader over plain HTTP GET requests with
// browser-like headers.
type HTTPDownloader struct {
	client      *http.Client
	downloadDir string
	userAgent   string
	retryCfg    RetryConfig
}

// NewHTTPDownloader creates a downloader from the application configuration.
func NewHTTPDownloader(cfg config.Downloader) *HTTPDownloader {
	retryCfg := DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retryCfg.MaxAttempts = cfg.MaxRetries
	}
	if cfg.BackoffInMillis > 0 {
		retryCfg.InitialDelay = time.Duration(cfg.BackoffInMillis) * time.Millisecond
	}
	return &HTTPDownloader{
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutInSeconds) * time.Second,
		},
		downloadDir: cfg.DownloadDir,
		userAgent:   cfg.UserAgent,
		retryCfg:    retryCfg,
	}
}

// Download fetches the video behind the URL into the download directory and
// returns the local path. Already-downloaded shortcodes are served from disk
// without a network request.
func (d *HTTPDownloader) Download(ctx context.Context, url string) (string, error) {
	shortcode, err := ExtractShortcode(url)
	if err != nil {
		return "", err
	}

	destPath := filepath.Join(d.downloadDir, fmt.Sprintf("reel_%s.mp4", shortcode))
	if _, err := os.Stat(destPath); err == nil {
		slog.Info("video already downloaded", "shortcode", shortcode, "path", destPath)
		return destPath, nil
	}

	if err := os.MkdirAll(d.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory %s: %w", d.downloadDir, err)
	}

	return RetryWithCheck(ctx, d.retryCfg,
		func() (string, error) { return d.downloadOnce(ctx, url, destPath) },
		isRetryable)
}

func (d *HTTPDownloader) downloadOnce(ctx context.Context, url string, destPath string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "video/mp4,video/*;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("%s: %w", url, ErrPrivateContent)
	case http.StatusNotFound, http.StatusGone:
		return "", fmt.Errorf("%s: %w", url, ErrNotFound)
	case http.StatusTooManyRequests:
		return "", fmt.Errorf("%s: %w", url, ErrRateLimited)
	default:
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	tempPath := destPath + ".part"
	out, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", tempPath, err)
	}
	written, err := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to write video body: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to close %s: %w", tempPath, closeErr)
	}

	if err := verifyVideoFile(tempPath); err != nil {
		os.Remove(tempPath)
		return "", err
	}
	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to move download into place: %w", err)
	}

	slog.Info("video downloaded", "url", url, "path", destPath, "bytes", written)
	return destPath, nil
}

// verifyVideoFile sniffs the file header and rejects payloads that are not
// video, such as an HTML login wall served with a 200 status.
func verifyVideoFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for verification: %w", path, err)
	}
	defer file.Close()

	head := make([]byte, 261)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if !filetype.IsVideo(head[:n]) {
		return fmt.Errorf("downloaded payload is not a video: %w", ErrPrivateContent)
	}
	return nil
}

// isRetryable reports whether another attempt can succeed. Private and
// removed content are permanent failures.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	for _, permanent := range []error{ErrPrivateContent, ErrNotFound} {
		if errors.Is(err, permanent) {
			return false
		}
	}
	return true
}
