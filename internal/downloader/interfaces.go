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

// Package downloader provides the video acquisition collaborator: it turns a
// reel or post URL into a local video file the pipeline can sample. Failures
// are wrapped in a small error taxonomy so callers can distinguish content
// that is gone from content that is merely throttled.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Sentinel errors describing why a download failed. They are wrapped with
// request detail; test with errors.Is.
var (
	// ErrPrivateContent indicates the content exists but is not publicly
	// accessible.
	ErrPrivateContent = errors.New("content is private")
	// ErrNotFound indicates the content does not exist or was removed.
	ErrNotFound = errors.New("content not found")
	// ErrRateLimited indicates the remote host throttled the request.
	ErrRateLimited = errors.New("rate limited by remote host")
)

// Downloader fetches a video from a URL to local disk.
type Downloader interface {
	// Download fetches the video behind the URL and returns the local file
	// path it was written to.
	Download(ctx context.Context, url string) (string, error)
}

// ExtractShortcode pulls the content shortcode out of a reel or post URL.
// For paths of the form /reel/<code> or /p/<code> the segment after the
// marker is the shortcode; otherwise the last path segment is used.
func ExtractShortcode(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	parts := make([]string, 0)
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no shortcode in url %q", rawURL)
	}

	for i, part := range parts {
		if (part == "reel" || part == "p") && i+1 < len(parts) {
			return parts[i+1], nil
		}
	}
	return parts[len(parts)-1], nil
}
