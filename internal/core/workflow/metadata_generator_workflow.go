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

// Package workflow defines the high-level business logic orchestrations,
// combining commands into coherent pipelines. This file implements the
// metadata generation workflow: from a local video path to a persisted,
// fully populated MetadataRecord.
package workflow

import (
	"text/template"

	"github.com/jaycherian/go-reel-metadata/internal/config"
	"github.com/jaycherian/go-reel-metadata/internal/core/commands"
	"github.com/jaycherian/go-reel-metadata/internal/core/cor"
	"github.com/jaycherian/go-reel-metadata/internal/gemini"
	"github.com/jaycherian/go-reel-metadata/internal/storage"
)

// RecordParamName is the context key under which the workflow stores the
// assembled MetadataRecord. Callers seed the chain context with the video
// path under cor.CtxIn, execute the workflow, and read the record from this
// key.
const RecordParamName = "__metadata_record__"

// Context keys used to hand named intermediate values between the commands
// of this workflow.
const (
	videoPathParamName   = "__video_path__"
	analysisParamName    = "__video_analysis__"
	titleParamName       = "__title__"
	descriptionParamName = "__description__"
)

// MetadataGeneratorWorkflow orchestrates the full metadata synthesis
// pipeline as a Chain of Responsibility: sample frames, analyze content,
// generate the title and description, assemble the record, persist it.
//
// Every generation stage substitutes a deterministic fallback on failure, so
// a workflow run always ends with a complete record even when the model is
// unreachable.
type MetadataGeneratorWorkflow struct {
	cor.BaseCommand
	config              *config.Config
	generator           gemini.ContentGenerator
	store               storage.MetadataStore
	analysisTemplate    *template.Template
	titleTemplate       *template.Template
	descriptionTemplate *template.Template
	chain               cor.Chain
}

// Execute runs the workflow by invoking the underlying chain. The context
// must carry the local video path under cor.CtxIn.
func (m *MetadataGeneratorWorkflow) Execute(context cor.Context) {
	m.chain.Execute(context)
}

// initializeChain builds the sequence of commands that make up this
// workflow. Called by the constructor.
func (m *MetadataGeneratorWorkflow) initializeChain() {
	out := cor.NewBaseChain(m.GetName())

	// Step 1: Sample still frames from the source video. The video path is
	// recorded in the context for the assembler; the frames are piped to the
	// analyzer. An unreadable source yields an empty frame sequence.
	out.AddCommand(commands.NewFrameSampler(
		"sample-frames",
		m.config.Media,
		m.config.Media.AnalysisFrameCount,
		videoPathParamName))

	// Step 2: Ask the vision model to describe the first sampled frame.
	// Empty frames or a model failure produce a sentinel analysis.
	out.AddCommand(commands.NewContentAnalyzer(
		"analyze-content",
		m.generator,
		m.analysisTemplate,
		analysisParamName))

	// Step 3: Generate the title from the analysis text. The analysis is
	// re-piped so the description generator receives it too.
	out.AddCommand(commands.NewTitleGenerator(
		"generate-title",
		m.generator,
		m.titleTemplate,
		titleParamName))

	// Step 4: Generate the structured description document and validate its
	// labeled sections.
	out.AddCommand(commands.NewDescriptionGenerator(
		"generate-description",
		m.generator,
		m.descriptionTemplate,
		descriptionParamName))

	// Step 5: Parse the document and combine everything into the final
	// MetadataRecord.
	out.AddCommand(commands.NewMetadataAssembler(
		"assemble-metadata",
		videoPathParamName,
		analysisParamName,
		titleParamName,
		descriptionParamName,
		RecordParamName))

	// Step 6: Write the record to the metadata store. A failed write is
	// logged but does not discard the record.
	out.AddCommand(commands.NewMetadataPersist(
		"persist-metadata",
		m.store,
		m.config.Media.OutputDir))

	m.chain = out
}

// NewMetadataGeneratorPipeline is the constructor for the workflow. It
// compiles the prompt templates from configuration and builds the command
// chain.
//
// Inputs:
//   - cfg: The application configuration.
//   - generator: The model wrapper shared by all generation commands.
//   - store: The metadata persistence collaborator.
func NewMetadataGeneratorPipeline(
	cfg *config.Config,
	generator gemini.ContentGenerator,
	store storage.MetadataStore) *MetadataGeneratorWorkflow {

	analysisTemplate, err := template.New("analysis-template").Parse(cfg.PromptTemplates.AnalysisPrompt)
	if err != nil {
		panic(err) // The application cannot run without valid templates.
	}
	titleTemplate, err := template.New("title-template").Parse(cfg.PromptTemplates.TitlePrompt)
	if err != nil {
		panic(err)
	}
	descriptionTemplate, err := template.New("description-template").Parse(cfg.PromptTemplates.DescriptionPrompt)
	if err != nil {
		panic(err)
	}

	pipeline := &MetadataGeneratorWorkflow{
		BaseCommand:         *cor.NewBaseCommand("metadata-generator-pipeline"),
		config:              cfg,
		generator:           generator,
		store:               store,
		analysisTemplate:    analysisTemplate,
		titleTemplate:       titleTemplate,
		descriptionTemplate: descriptionTemplate,
	}
	pipeline.initializeChain()
	return pipeline
}
