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

// This file defines the command that asks the vision model to describe the
// sampled video content. The analysis text it produces seeds both the title
// and description prompts downstream.
//
// The command never fails the chain. An empty frame sequence or a model
// error is replaced with a sentinel analysis so the generators downstream
// always have input to work with.
package commands

import (
	"bytes"
	"log/slog"
	"text/template"

	"github.com/jaycherian/go-reel-metadata/internal/core/cor"
	"github.com/jaycherian/go-reel-metadata/internal/core/model"
	"github.com/jaycherian/go-reel-metadata/internal/gemini"
	"google.golang.org/genai"
)

// ContentAnalyzer is a command that produces a short textual description of
// the video from its first sampled frame.
type ContentAnalyzer struct {
	cor.BaseCommand
	generator         gemini.ContentGenerator
	template          *template.Template // The prompt template; takes no parameters.
	analysisParamName string             // Context key the analysis text is stored under.
}

// NewContentAnalyzer is the constructor for the ContentAnalyzer command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - generator: The model wrapper used for the vision call.
//   - template: The parsed analysis prompt template.
//   - analysisParamName: The context key to store the analysis text under.
func NewContentAnalyzer(name string, generator gemini.ContentGenerator, template *template.Template, analysisParamName string) *ContentAnalyzer {
	return &ContentAnalyzer{
		BaseCommand:       *cor.NewBaseCommand(name),
		generator:         generator,
		template:          template,
		analysisParamName: analysisParamName,
	}
}

// Execute reads the frame sequence from the input parameter and writes the
// analysis text to both the named analysis key and the output parameter.
func (c *ContentAnalyzer) Execute(context cor.Context) {
	frames := context.Get(c.GetInputParam()).([]*model.Frame)

	analysis := c.analyze(context, frames)

	context.Add(c.analysisParamName, analysis)
	context.Add(c.GetOutputParam(), analysis)
}

func (c *ContentAnalyzer) analyze(context cor.Context, frames []*model.Frame) string {
	if len(frames) == 0 {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		slog.Warn("no frames sampled, using sentinel analysis")
		return model.AnalysisUnavailableNoFrames
	}

	var buffer bytes.Buffer
	if err := c.template.Execute(&buffer, map[string]interface{}{}); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		slog.Warn("failed to execute analysis prompt template", "error", err)
		return model.AnalysisUnavailableModelError
	}

	// Only the first frame is sent to the model.
	frame := frames[0]
	parts := []*genai.Part{
		{Text: buffer.String()},
		{InlineData: &genai.Blob{MIMEType: frame.MIMEType, Data: frame.Data}},
	}

	analysis, err := c.generator.GenerateText(context.GetContext(), parts...)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		slog.Warn("content analysis request failed, using sentinel analysis", "error", err)
		return model.AnalysisUnavailableModelError
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	return analysis
}
