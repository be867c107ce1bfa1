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

// This file defines the command that generates the video title from the
// content analysis text. A failed model call is replaced with a fixed
// fallback title, never a chain error.
package commands

import (
	"bytes"
	"log/slog"
	"strings"
	"text/template"

	"github.com/jaycherian/go-reel-metadata/internal/core/cor"
	"github.com/jaycherian/go-reel-metadata/internal/core/model"
	"github.com/jaycherian/go-reel-metadata/internal/gemini"
	"google.golang.org/genai"
)

// CleanTitle normalizes raw model output into a publishable title by
// trimming whitespace and removing quote characters the model tends to wrap
// titles in.
func CleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.ReplaceAll(title, `"`, "")
	title = strings.ReplaceAll(title, "'", "")
	return title
}

// TitleGenerator is a command that prompts the model for an engaging,
// SEO-friendly title based on the analysis text.
type TitleGenerator struct {
	cor.BaseCommand
	generator         gemini.ContentGenerator
	template          *template.Template // The title prompt template; takes the ANALYSIS parameter.
	titleParamName    string             // Context key the title is stored under.
}

// NewTitleGenerator is the constructor for the TitleGenerator command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - generator: The model wrapper used for the generation call.
//   - template: The parsed title prompt template.
//   - titleParamName: The context key to store the title under.
func NewTitleGenerator(name string, generator gemini.ContentGenerator, template *template.Template, titleParamName string) *TitleGenerator {
	return &TitleGenerator{
		BaseCommand:    *cor.NewBaseCommand(name),
		generator:      generator,
		template:       template,
		titleParamName: titleParamName,
	}
}

// Execute reads the analysis text from the input parameter and stores the
// generated title under the named title key. The analysis text is re-piped
// to the output parameter so the description generator receives it as well.
func (c *TitleGenerator) Execute(context cor.Context) {
	analysis := context.Get(c.GetInputParam()).(string)

	title := c.generate(context, analysis)

	context.Add(c.titleParamName, title)
	context.Add(c.GetOutputParam(), analysis)
}

func (c *TitleGenerator) generate(context cor.Context, analysis string) string {
	var buffer bytes.Buffer
	if err := c.template.Execute(&buffer, map[string]interface{}{"ANALYSIS": analysis}); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		slog.Warn("failed to execute title prompt template, using fallback title", "error", err)
		return model.FallbackTitle
	}

	out, err := c.generator.GenerateText(context.GetContext(), &genai.Part{Text: buffer.String()})
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		slog.Warn("title generation request failed, using fallback title", "error", err)
		return model.FallbackTitle
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	return CleanTitle(out)
}
