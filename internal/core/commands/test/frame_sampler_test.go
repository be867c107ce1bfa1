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

// Package commands_test contains unit tests for the pipeline commands. This
// file covers frame sample position selection and the sampler's behavior on
// unreadable sources.
package commands_test

import (
	"context"
	"testing"

	"github.com/jaycherian/go-reel-metadata/internal/core/commands"
	"github.com/jaycherian/go-reel-metadata/internal/core/cor"
	"github.com/jaycherian/go-reel-metadata/internal/core/model"
	test "github.com/jaycherian/go-reel-metadata/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSamplePositions verifies the even spacing of sample positions across
// the stream, including the documented 30-frame example.
func TestSamplePositions(t *testing.T) {
	assert.Equal(t, []int{7, 15, 22}, commands.SamplePositions(30, 3))
	assert.Equal(t, []int{15}, commands.SamplePositions(30, 1))
	assert.Equal(t, []int{10, 20}, commands.SamplePositions(30, 2))

	// One-frame sources resolve every position to frame zero.
	assert.Equal(t, []int{0, 0, 0}, commands.SamplePositions(1, 3))

	assert.Empty(t, commands.SamplePositions(0, 3))
	assert.Empty(t, commands.SamplePositions(-5, 3))
	assert.Empty(t, commands.SamplePositions(30, 0))
}

// TestFrameSamplerUnreadableSource verifies that a missing video file
// produces an empty frame sequence without recording a chain error.
func TestFrameSamplerUnreadableSource(t *testing.T) {
	cfg := test.GetConfig()
	sampler := commands.NewFrameSampler("sample-frames", cfg.Media, cfg.Media.AnalysisFrameCount, "__video_path__")

	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(cor.CtxIn, "no/such/video.mp4")

	require.True(t, sampler.IsExecutable(chainCtx))
	sampler.Execute(chainCtx)

	frames, ok := chainCtx.Get(cor.CtxOut).([]*model.Frame)
	require.True(t, ok)
	assert.Empty(t, frames)
	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, "no/such/video.mp4", chainCtx.Get("__video_path__"))
}
