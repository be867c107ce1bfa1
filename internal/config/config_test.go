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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseToml = `
[application]
name = "reel-metadata"
port = 8080

[media]
ffmpeg_path = "ffmpeg"
frame_size = 512

[generator_models.creative-flash]
model = "gemini-2.0-flash-exp"
rate_limit = 1

[prompt_templates]
title = "title for {{ .ANALYSIS }}"
`

const overrideToml = `
[application]
port = 9090

[media]
frame_size = 256
`

// TestLoadConfigHierarchy verifies that the runtime-specific file overrides
// the base file while untouched values survive.
func TestLoadConfigHierarchy(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(baseToml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.unittest.toml"), []byte(overrideToml), 0o644))

	t.Setenv(EnvConfigFilePrefix, dir)
	t.Setenv(EnvConfigRuntime, "unittest")

	cfg := NewConfig()
	LoadConfig(&cfg)

	assert.Equal(t, "reel-metadata", cfg.Application.Name)
	assert.Equal(t, 9090, cfg.Application.Port)
	assert.Equal(t, "ffmpeg", cfg.Media.FFMpegPath)
	assert.Equal(t, 256, cfg.Media.FrameSize)
	assert.Equal(t, "gemini-2.0-flash-exp", cfg.GeneratorModels["creative-flash"].Model)
	assert.Equal(t, "title for {{ .ANALYSIS }}", cfg.PromptTemplates.TitlePrompt)
}

// TestLoadConfigMissingOverride verifies that a missing runtime file leaves
// base values in place.
func TestLoadConfigMissingOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(baseToml), 0o644))

	t.Setenv(EnvConfigFilePrefix, dir)
	t.Setenv(EnvConfigRuntime, "nonexistent")

	cfg := NewConfig()
	LoadConfig(&cfg)

	assert.Equal(t, 8080, cfg.Application.Port)
	assert.Equal(t, 512, cfg.Media.FrameSize)
}
