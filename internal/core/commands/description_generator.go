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

// This file defines the command that generates the full description
// document: narrative lines, a labeled Keywords section, a labeled Hashtags
// section, and a copyright disclaimer. The document is validated after
// generation; a model failure or a document missing its labeled sections is
// replaced with the static fallback document, which always parses to a
// complete record.
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

// Labels identifying the structured sections of a description document.
const (
	KeywordsLabel = "Keywords:"
	HashtagsLabel = "Hashtags:"
)

// IsDescriptionComplete reports whether the document contains both labeled
// sections the assembler parses. Documents that fail this check would
// produce a record with empty keyword and hashtag fields.
func IsDescriptionComplete(description string) bool {
	hasKeywords := false
	hasHashtags := false
	for _, line := range strings.Split(description, "\n") {
		if strings.HasPrefix(line, KeywordsLabel) {
			hasKeywords = true
		} else if strings.HasPrefix(line, HashtagsLabel) {
			hasHashtags = true
		}
	}
	return hasKeywords && hasHashtags
}

// DescriptionGenerator is a command that prompts the model for the complete
// description document based on the analysis text.
type DescriptionGenerator struct {
	cor.BaseCommand
	generator            gemini.ContentGenerator
	template             *template.Template // The description prompt template; takes the ANALYSIS parameter.
	descriptionParamName string             // Context key the document is stored under.
}

// NewDescriptionGenerator is the constructor for the DescriptionGenerator
// command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - generator: The model wrapper used for the generation call.
//   - template: The parsed description prompt template.
//   - descriptionParamName: The context key to store the document under.
func NewDescriptionGenerator(name string, generator gemini.ContentGenerator, template *template.Template, descriptionParamName string) *DescriptionGenerator {
	return &DescriptionGenerator{
		BaseCommand:          *cor.NewBaseCommand(name),
		generator:            generator,
		template:             template,
		descriptionParamName: descriptionParamName,
	}
}

// Execute reads the analysis text from the input parameter and stores the
// description document under the named description key and the output
// parameter.
func (c *DescriptionGenerator) Execute(context cor.Context) {
	analysis := context.Get(c.GetInputParam()).(string)

	description := c.generate(context, analysis)

	context.Add(c.descriptionParamName, description)
	context.Add(c.GetOutputParam(), description)
}

func (c *DescriptionGenerator) generate(context cor.Context, analysis string) string {
	var buffer bytes.Buffer
	if err := c.template.Execute(&buffer, map[string]interface{}{"ANALYSIS": analysis}); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		slog.Warn("failed to execute description prompt template, using fallback description", "error", err)
		return model.FallbackDescription
	}

	out, err := c.generator.GenerateText(context.GetContext(), &genai.Part{Text: buffer.String()})
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		slog.Warn("description generation request failed, using fallback description", "error", err)
		return model.FallbackDescription
	}

	description := strings.TrimSpace(out)
	if !IsDescriptionComplete(description) {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		slog.Warn("generated description is missing labeled sections, using fallback description")
		return model.FallbackDescription
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	return description
}
