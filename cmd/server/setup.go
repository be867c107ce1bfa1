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

package main

import (
	"context"
	"log"
	"os"

	"github.com/jaycherian/go-reel-metadata/internal/config"
	"github.com/jaycherian/go-reel-metadata/internal/core/workflow"
	"github.com/jaycherian/go-reel-metadata/internal/downloader"
	"github.com/jaycherian/go-reel-metadata/internal/gemini"
	"github.com/jaycherian/go-reel-metadata/internal/storage"
)

// AgentModelName selects which configured generator model the pipeline uses.
const AgentModelName = "creative-flash"

// StateManager holds the shared components of the running server.
type StateManager struct {
	config     *config.Config
	generator  *gemini.QuotaAwareGenerativeAIModel
	store      storage.MetadataStore
	downloader downloader.Downloader
	pipeline   *workflow.MetadataGeneratorWorkflow
}

var state = &StateManager{}

// SetupOS points the configuration loader at the server's config directory
// and the "local" runtime overrides.
func SetupOS() (err error) {
	err = os.Setenv(config.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(config.EnvConfigRuntime, "local")
	return err
}

// GetConfig loads the application configuration once and caches it.
func GetConfig() *config.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment: %v\n", err)
		}
		cfg := config.NewConfig()
		config.LoadConfig(&cfg)
		state.config = cfg
	}
	return state.config
}

// InitState constructs the model client, the collaborators, and the metadata
// generation pipeline. A missing API key or model configuration is fatal.
func InitState(ctx context.Context) {
	cfg := GetConfig()

	client, err := gemini.NewClient(ctx)
	if err != nil {
		log.Fatalf("failed to create genai client: %v\n", err)
	}

	modelCfg, ok := cfg.GeneratorModels[AgentModelName]
	if !ok {
		log.Fatalf("generator model %q is not configured\n", AgentModelName)
	}

	state.generator = gemini.NewQuotaAwareModel(
		gemini.NewGenerateContentConfig(modelCfg),
		modelCfg.Model,
		client.Models,
		modelCfg.RateLimit)
	state.store = storage.NewFileStore()
	state.downloader = downloader.NewHTTPDownloader(cfg.Downloader)
	state.pipeline = workflow.NewMetadataGeneratorPipeline(cfg, state.generator, state.store)
}
