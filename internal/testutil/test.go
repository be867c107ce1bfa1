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

// Package test provides utility functions and mock data to support the
// application's test suite: a cached test configuration, a scripted
// ContentGenerator that stands in for the model, and canned description
// documents.
package test

import (
	"context"
	"sync"
	"testing"

	"github.com/jaycherian/go-reel-metadata/internal/config"
	"google.golang.org/genai"
)

// StateManager caches the test configuration so it is built only once per
// test run.
type StateManager struct {
	config *config.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetConfig is a singleton accessor for the test configuration. The config
// is constructed in code rather than loaded from TOML files so tests do not
// depend on their working directory.
func GetConfig() *config.Config {
	if state.config == nil {
		cfg := config.NewConfig()
		cfg.Application.Name = "reel-metadata-test"
		cfg.Application.Port = 8080
		cfg.Media = config.Media{
			FFMpegPath:         "ffmpeg",
			FFProbePath:        "ffprobe",
			FrameSize:          512,
			SampleFrameCount:   3,
			AnalysisFrameCount: 2,
			OutputDir:          "output",
		}
		cfg.Downloader = config.Downloader{
			DownloadDir:      "downloads",
			TimeoutInSeconds: 5,
			MaxRetries:       2,
			BackoffInMillis:  10,
			UserAgent:        "Mozilla/5.0 (X11; Linux x86_64)",
		}
		cfg.PromptTemplates = config.PromptTemplates{
			AnalysisPrompt:    "Analyze this video frame and describe what you see briefly.",
			TitlePrompt:       "Based on this video analysis, create a catchy title:\n\nVIDEO CONTENT: {{ .ANALYSIS }}\n\nReturn only the title, nothing else.",
			DescriptionPrompt: "Create a complete video description based on this video analysis:\n\nVIDEO CONTENT: {{ .ANALYSIS }}",
		}
		cfg.GeneratorModels["creative-flash"] = config.GeneratorModel{
			Model:       "gemini-2.0-flash-exp",
			Temperature: 1.0,
			TopP:        0.95,
			TopK:        40,
			MaxTokens:   8192,
			RateLimit:   1,
		}
		state.config = cfg
	}
	return state.config
}

// GetTestDescriptionDocument returns a small, well-formed description
// document with three keywords and three hashtags.
func GetTestDescriptionDocument() string {
	return `A skier carves through fresh powder on a bright alpine morning.
The camera follows close behind through the trees.

Keywords: skiing, powder day, alpine

Hashtags: #skiing #powder #alpine

⚠️ Copyright Disclaimer: This content is used for educational and entertainment purposes. All rights belong to their respective owners. If you are the owner and want this removed, please contact us.`
}

// ScriptedGenerator is a ContentGenerator test double. It replays the
// configured responses in order and records the parts of every call. When
// Err is set every call fails with it.
type ScriptedGenerator struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Calls     [][]*genai.Part
}

// GenerateText returns the next scripted response. Calls beyond the script
// repeat the last response.
func (s *ScriptedGenerator) GenerateText(_ context.Context, parts ...*genai.Part) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, parts)
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.Responses) == 0 {
		return "", nil
	}
	idx := len(s.Calls) - 1
	if idx >= len(s.Responses) {
		idx = len(s.Responses) - 1
	}
	return s.Responses[idx], nil
}
