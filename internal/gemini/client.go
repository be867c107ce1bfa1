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

// Package gemini provides the client plumbing for the Gemini generative
// models: client construction from the environment, a rate-limited model
// wrapper, and typed helpers for extracting text from responses. All model
// access in the pipeline goes through the ContentGenerator interface so
// tests can substitute a scripted implementation.
package gemini

import (
	"context"
	"fmt"
	"os"

	"github.com/jaycherian/go-reel-metadata/internal/config"
	"google.golang.org/genai"
)

// DefaultSafetySettings disables content blocking for all harm categories.
// The pipeline processes trusted input and the structured description
// document must never be silently withheld by a safety filter.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// NewClient creates a Gemini API client using the API key from the
// GEMINI_API_KEY environment variable. A missing key is a configuration
// error and fails construction; callers treat it as fatal at startup.
func NewClient(ctx context.Context) (*genai.Client, error) {
	apiKey := os.Getenv(config.EnvGeminiAPIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable is not set", config.EnvGeminiAPIKey)
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// NewGenerateContentConfig builds the generation config for a model from its
// application configuration, applying the default safety settings.
func NewGenerateContentConfig(cfg config.GeneratorModel) *genai.GenerateContentConfig {
	temperature := cfg.Temperature
	topP := cfg.TopP
	topK := cfg.TopK
	return &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopP:            &topP,
		TopK:            &topK,
		MaxOutputTokens: cfg.MaxTokens,
		SafetySettings:  DefaultSafetySettings,
	}
}
