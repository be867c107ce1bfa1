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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// command that samples still frames from a video for vision analysis.
//
// Logic Flow:
//  1. Receive the local video path from the context.
//  2. Count the frames in the primary video stream with ffprobe.
//  3. Compute evenly spaced sample positions across the stream.
//  4. Decode each sampled frame with ffmpeg, scaled to a square JPEG,
//     captured from stdout so no temporary files are created.
//  5. Place the frame sequence in the context for the analyzer.
//
// Frame sampling is best-effort: an unreadable source or a failed decode
// never aborts the chain. A frame that cannot be decoded is skipped, and an
// unreadable source yields an empty sequence, which the content analyzer
// turns into a sentinel analysis.
package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jaycherian/go-reel-metadata/internal/config"
	"github.com/jaycherian/go-reel-metadata/internal/core/cor"
	"github.com/jaycherian/go-reel-metadata/internal/core/model"
)

const frameMIMEType = "image/jpeg"

// SamplePositions returns numFrames frame numbers spaced evenly across a
// stream of totalFrames frames: position i is floor((i+1)*total/(n+1)).
// The boundaries are excluded so the samples avoid title cards and end
// screens. A non-positive total or count yields an empty slice.
func SamplePositions(totalFrames int, numFrames int) []int {
	positions := make([]int, 0, max(numFrames, 0))
	if totalFrames <= 0 || numFrames <= 0 {
		return positions
	}
	for i := 0; i < numFrames; i++ {
		positions = append(positions, (i+1)*totalFrames/(numFrames+1))
	}
	return positions
}

// FrameSampler is a command that extracts representative still frames from a
// local video file using ffprobe and ffmpeg.
type FrameSampler struct {
	cor.BaseCommand
	media              config.Media // Tool paths and frame sizing.
	frameCount         int          // Number of frames to sample per video.
	videoPathParamName string       // Context key the source path is recorded under for later commands.
}

// NewFrameSampler is the constructor for the FrameSampler command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - media: The media tooling configuration (ffmpeg/ffprobe paths, frame size).
//   - frameCount: How many frames to sample from each video.
//   - videoPathParamName: The context key to record the source video path under.
func NewFrameSampler(name string, media config.Media, frameCount int, videoPathParamName string) *FrameSampler {
	return &FrameSampler{
		BaseCommand:        *cor.NewBaseCommand(name),
		media:              media,
		frameCount:         frameCount,
		videoPathParamName: videoPathParamName,
	}
}

// Execute samples frames from the video path found in the input parameter.
// The output is always a []*model.Frame, possibly empty.
func (c *FrameSampler) Execute(context cor.Context) {
	videoPath := context.Get(c.GetInputParam()).(string)
	context.Add(c.videoPathParamName, videoPath)

	frames := make([]*model.Frame, 0, c.frameCount)

	totalFrames, err := c.countFrames(context.GetContext(), videoPath)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		slog.Warn("failed to probe video, continuing with no frames", "video", videoPath, "error", err)
		context.Add(c.GetOutputParam(), frames)
		return
	}

	for _, position := range SamplePositions(totalFrames, c.frameCount) {
		data, err := c.extractFrame(context.GetContext(), videoPath, position)
		if err != nil {
			slog.Warn("failed to decode frame, skipping", "video", videoPath, "position", position, "error", err)
			continue
		}
		frames = append(frames, &model.Frame{Data: data, MIMEType: frameMIMEType, Position: position})
	}

	if len(frames) > 0 {
		c.GetSuccessCounter().Add(context.GetContext(), 1)
	} else {
		c.GetErrorCounter().Add(context.GetContext(), 1)
	}
	context.Add(c.GetOutputParam(), frames)
}

// countFrames returns the number of packets in the first video stream, which
// for the short-form content this pipeline handles equals the frame count.
func (c *FrameSampler) countFrames(ctx context.Context, videoPath string) (int, error) {
	cmd := exec.CommandContext(ctx, c.media.FFProbePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=nb_read_packets",
		"-of", "csv=p=0",
		videoPath)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w", videoPath, err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q: %w", strings.TrimSpace(string(out)), err)
	}
	return count, nil
}

// extractFrame decodes the frame at the given stream position, scaled to a
// square of the configured size with Lanczos resampling, and returns the
// JPEG bytes from ffmpeg's stdout.
func (c *FrameSampler) extractFrame(ctx context.Context, videoPath string, position int) ([]byte, error) {
	filter := fmt.Sprintf("select=eq(n\\,%d),scale=%d:%d:flags=lanczos", position, c.media.FrameSize, c.media.FrameSize)
	cmd := exec.CommandContext(ctx, c.media.FFMpegPath,
		"-v", "error",
		"-i", videoPath,
		"-vf", filter,
		"-vsync", "0",
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed at frame %d: %w", position, err)
	}
	if stdout.Len() == 0 {
		return nil, errors.New("ffmpeg produced no frame data")
	}
	return stdout.Bytes(), nil
}
