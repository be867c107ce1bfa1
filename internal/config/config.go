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

// Package config defines the application configuration structures, loaded
// from TOML files. Settings cover the HTTP server, media tooling (ffmpeg /
// ffprobe), the generative models, the downloader, and the prompt templates
// sent to the models.
//
// Configuration is hierarchical: a base file (".env.toml") is loaded first,
// then an environment-specific file (".env.<runtime>.toml") overwrites any
// values it defines. The directory and runtime are selected with the
// REEL_CONFIG_PREFIX and REEL_RUNTIME environment variables.
package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ConfigFileBaseName  = ".env"
	ConfigFileExtension = ".toml"
	ConfigSeparator     = "."
	// EnvConfigFilePrefix names the environment variable holding the config
	// file directory.
	EnvConfigFilePrefix = "REEL_CONFIG_PREFIX"
	// EnvConfigRuntime names the environment variable selecting the runtime
	// override file, e.g. "local", "test", "prod".
	EnvConfigRuntime = "REEL_RUNTIME"
	// EnvGeminiAPIKey names the environment variable holding the Gemini API
	// key. The key never lives in config files.
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// PromptTemplates holds the text templates for the prompts sent to the
// generative models. Templates use Go text/template syntax with an uppercase
// vocabulary, e.g. {{ .ANALYSIS }}.
type PromptTemplates struct {
	// AnalysisPrompt asks the vision model to describe a sampled frame.
	AnalysisPrompt string `toml:"analysis"`
	// TitlePrompt asks for a short engaging title from the analysis text.
	TitlePrompt string `toml:"title"`
	// DescriptionPrompt asks for the full structured description document.
	DescriptionPrompt string `toml:"description"`
}

// GeneratorModel configures a single generative model endpoint.
type GeneratorModel struct {
	Model       string  `toml:"model"`       // The model identifier, e.g. "gemini-2.0-flash-exp".
	Temperature float32 `toml:"temperature"` // Sampling temperature.
	TopP        float32 `toml:"top_p"`       // Nucleus sampling parameter.
	TopK        float32 `toml:"top_k"`       // Top-k sampling parameter.
	MaxTokens   int32   `toml:"max_tokens"`  // Maximum output tokens.
	RateLimit   int     `toml:"rate_limit"`  // Allowed requests per second.
}

// Media configures the frame sampling tools and directories.
type Media struct {
	FFMpegPath         string `toml:"ffmpeg_path"`          // Path to the ffmpeg binary.
	FFProbePath        string `toml:"ffprobe_path"`         // Path to the ffprobe binary.
	FrameSize          int    `toml:"frame_size"`           // Square pixel size frames are scaled to.
	SampleFrameCount   int    `toml:"sample_frame_count"`   // Default number of frames to sample.
	AnalysisFrameCount int    `toml:"analysis_frame_count"` // Frames requested for content analysis.
	OutputDir          string `toml:"output_dir"`           // Directory metadata records are persisted to.
}

// Downloader configures the reel acquisition collaborator.
type Downloader struct {
	DownloadDir      string `toml:"download_dir"`       // Directory downloaded videos land in.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // Per-request HTTP timeout.
	MaxRetries       int    `toml:"max_retries"`        // Attempts before giving up on a URL.
	BackoffInMillis  int    `toml:"backoff_in_millis"`  // Base delay for exponential backoff.
	UserAgent        string `toml:"user_agent"`         // User-Agent header sent with requests.
}

// Config is the top-level application configuration, aggregated from the
// TOML files.
type Config struct {
	Application struct {
		Name string `toml:"name"` // The application name, used for telemetry resources.
		Port int    `toml:"port"` // The HTTP listen port.
	} `toml:"application"`
	Media           Media                     `toml:"media"`
	Downloader      Downloader                `toml:"downloader"`
	PromptTemplates PromptTemplates           `toml:"prompt_templates"`
	GeneratorModels map[string]GeneratorModel `toml:"generator_models"` // Models keyed by a logical name, e.g. "creative-flash".
}

// NewConfig creates a Config with its map fields initialized so the TOML
// decoder can populate them.
func NewConfig() *Config {
	return &Config{
		GeneratorModels: make(map[string]GeneratorModel),
	}
}

func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig populates baseConfig from the base TOML file and then from the
// runtime-specific override file when present. The runtime defaults to
// "test" when REEL_RUNTIME is unset. Decode failures are fatal: the
// application cannot run with a half-loaded configuration.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		if _, err := toml.DecodeFile(baseConfigFileName, baseConfig); err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	if fileExists(envConfigFileName) {
		if _, err := toml.DecodeFile(envConfigFileName, baseConfig); err != nil {
			log.Fatalf("failed to decode environment configuration file %s with error: %s", envConfigFileName, err)
		}
	}
}
