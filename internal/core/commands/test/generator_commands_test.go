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

// This file tests the generation commands against a scripted model double:
// sentinel substitution in the analyzer, quote cleanup and fallback in the
// title generator, and document validation in the description generator.
package commands_test

import (
	"context"
	"errors"
	"testing"
	"text/template"

	"github.com/jaycherian/go-reel-metadata/internal/core/commands"
	"github.com/jaycherian/go-reel-metadata/internal/core/cor"
	"github.com/jaycherian/go-reel-metadata/internal/core/model"
	test "github.com/jaycherian/go-reel-metadata/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTemplate(t *testing.T, text string) *template.Template {
	t.Helper()
	tmpl, err := template.New("test-template").Parse(text)
	require.NoError(t, err)
	return tmpl
}

func newChainContext(input interface{}) cor.Context {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(cor.CtxIn, input)
	return chainCtx
}

// TestCleanTitle verifies quote removal and trimming of raw model output.
func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Epic Powder Day", commands.CleanTitle(`  "Epic Powder Day"  `))
	assert.Equal(t, "Its Here", commands.CleanTitle("'It's Here'"))
	assert.Equal(t, "Plain", commands.CleanTitle("Plain"))
}

// TestIsDescriptionComplete verifies the structural check applied to
// generated documents.
func TestIsDescriptionComplete(t *testing.T) {
	assert.True(t, commands.IsDescriptionComplete(test.GetTestDescriptionDocument()))
	assert.False(t, commands.IsDescriptionComplete("a document without labeled sections"))
	assert.False(t, commands.IsDescriptionComplete("Keywords: only, keywords"))
	assert.False(t, commands.IsDescriptionComplete("Hashtags: #only #hashtags"))
}

// TestContentAnalyzerEmptyFrames verifies that an empty frame sequence
// yields the no-frames sentinel without any model call.
func TestContentAnalyzerEmptyFrames(t *testing.T) {
	generator := &test.ScriptedGenerator{Responses: []string{"should not be used"}}
	analyzer := commands.NewContentAnalyzer("analyze-content", generator,
		mustTemplate(t, "describe the frame"), "__video_analysis__")

	chainCtx := newChainContext(make([]*model.Frame, 0))
	defer chainCtx.Close()

	analyzer.Execute(chainCtx)

	assert.Equal(t, model.AnalysisUnavailableNoFrames, chainCtx.Get("__video_analysis__"))
	assert.Equal(t, model.AnalysisUnavailableNoFrames, chainCtx.Get(cor.CtxOut))
	assert.Empty(t, generator.Calls)
	assert.False(t, chainCtx.HasErrors())
}

// TestContentAnalyzerModelError verifies the model-error sentinel.
func TestContentAnalyzerModelError(t *testing.T) {
	generator := &test.ScriptedGenerator{Err: errors.New("model unreachable")}
	analyzer := commands.NewContentAnalyzer("analyze-content", generator,
		mustTemplate(t, "describe the frame"), "__video_analysis__")

	frames := []*model.Frame{{Data: []byte{0xff, 0xd8}, MIMEType: "image/jpeg", Position: 7}}
	chainCtx := newChainContext(frames)
	defer chainCtx.Close()

	analyzer.Execute(chainCtx)

	assert.Equal(t, model.AnalysisUnavailableModelError, chainCtx.Get("__video_analysis__"))
	assert.Equal(t, 1, len(generator.Calls))
	assert.False(t, chainCtx.HasErrors())
}

// TestContentAnalyzerSendsFirstFrame verifies that exactly one frame, the
// first, accompanies the prompt.
func TestContentAnalyzerSendsFirstFrame(t *testing.T) {
	generator := &test.ScriptedGenerator{Responses: []string{"a skier in powder"}}
	analyzer := commands.NewContentAnalyzer("analyze-content", generator,
		mustTemplate(t, "describe the frame"), "__video_analysis__")

	frames := []*model.Frame{
		{Data: []byte{0x01}, MIMEType: "image/jpeg", Position: 7},
		{Data: []byte{0x02}, MIMEType: "image/jpeg", Position: 15},
	}
	chainCtx := newChainContext(frames)
	defer chainCtx.Close()

	analyzer.Execute(chainCtx)

	assert.Equal(t, "a skier in powder", chainCtx.Get("__video_analysis__"))
	require.Equal(t, 1, len(generator.Calls))
	parts := generator.Calls[0]
	require.Equal(t, 2, len(parts))
	assert.Equal(t, "describe the frame", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, []byte{0x01}, parts[1].InlineData.Data)
}

// TestTitleGeneratorFallback verifies the fixed fallback title and that the
// analysis text is re-piped for the description generator.
func TestTitleGeneratorFallback(t *testing.T) {
	generator := &test.ScriptedGenerator{Err: errors.New("model unreachable")}
	titleGen := commands.NewTitleGenerator("generate-title", generator,
		mustTemplate(t, "title for {{ .ANALYSIS }}"), "__title__")

	chainCtx := newChainContext("a skier in powder")
	defer chainCtx.Close()

	titleGen.Execute(chainCtx)

	assert.Equal(t, model.FallbackTitle, chainCtx.Get("__title__"))
	assert.Equal(t, "a skier in powder", chainCtx.Get(cor.CtxOut))
	assert.False(t, chainCtx.HasErrors())
}

// TestTitleGeneratorCleansOutput verifies quote stripping on model output
// and template substitution of the analysis text.
func TestTitleGeneratorCleansOutput(t *testing.T) {
	generator := &test.ScriptedGenerator{Responses: []string{`"Epic Powder Day"`}}
	titleGen := commands.NewTitleGenerator("generate-title", generator,
		mustTemplate(t, "title for {{ .ANALYSIS }}"), "__title__")

	chainCtx := newChainContext("a skier in powder")
	defer chainCtx.Close()

	titleGen.Execute(chainCtx)

	assert.Equal(t, "Epic Powder Day", chainCtx.Get("__title__"))
	require.Equal(t, 1, len(generator.Calls))
	assert.Equal(t, "title for a skier in powder", generator.Calls[0][0].Text)
}

// TestDescriptionGeneratorFallback verifies that a model failure yields the
// static fallback document.
func TestDescriptionGeneratorFallback(t *testing.T) {
	generator := &test.ScriptedGenerator{Err: errors.New("model unreachable")}
	descGen := commands.NewDescriptionGenerator("generate-description", generator,
		mustTemplate(t, "describe {{ .ANALYSIS }}"), "__description__")

	chainCtx := newChainContext("a skier in powder")
	defer chainCtx.Close()

	descGen.Execute(chainCtx)

	assert.Equal(t, model.FallbackDescription, chainCtx.Get("__description__"))
	assert.False(t, chainCtx.HasErrors())
}

// TestDescriptionGeneratorRejectsIncompleteDocument verifies that a
// generated document missing its labeled sections is replaced by the
// fallback.
func TestDescriptionGeneratorRejectsIncompleteDocument(t *testing.T) {
	generator := &test.ScriptedGenerator{Responses: []string{"a short reply without sections"}}
	descGen := commands.NewDescriptionGenerator("generate-description", generator,
		mustTemplate(t, "describe {{ .ANALYSIS }}"), "__description__")

	chainCtx := newChainContext("a skier in powder")
	defer chainCtx.Close()

	descGen.Execute(chainCtx)

	assert.Equal(t, model.FallbackDescription, chainCtx.Get("__description__"))
}

// TestDescriptionGeneratorKeepsCompleteDocument verifies that a well-formed
// document passes through verbatim.
func TestDescriptionGeneratorKeepsCompleteDocument(t *testing.T) {
	document := test.GetTestDescriptionDocument()
	generator := &test.ScriptedGenerator{Responses: []string{document}}
	descGen := commands.NewDescriptionGenerator("generate-description", generator,
		mustTemplate(t, "describe {{ .ANALYSIS }}"), "__description__")

	chainCtx := newChainContext("a skier in powder")
	defer chainCtx.Close()

	descGen.Execute(chainCtx)

	assert.Equal(t, document, chainCtx.Get("__description__"))
}
