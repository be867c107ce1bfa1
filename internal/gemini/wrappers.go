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

// This file implements a decorator around the Gemini model handle that adds
// rate limiting and token-usage metrics. Failed calls are NOT retried: the
// pipeline stages own failure handling and substitute deterministic
// fallbacks, so a retry loop here would only delay the fallback.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ContentGenerator is the model access contract the pipeline commands depend
// on. Implementations must be safe for concurrent use.
type ContentGenerator interface {
	// GenerateText sends the given parts as a single user turn and returns
	// the model's concatenated text output, trimmed of markdown code fences
	// and surrounding whitespace.
	GenerateText(ctx context.Context, parts ...*genai.Part) (string, error)
}

// QuotaAwareGenerativeAIModel wraps a model handle with a rate limiter and
// usage counters. It implements ContentGenerator.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig
	ModelName               string
	ModelHandle             *genai.Models
	RateLimit               *rate.Limiter
	inputTokenCounter       metric.Int64Counter
	outputTokenCounter      metric.Int64Counter
}

// NewQuotaAwareModel wraps the given model handle. requestsPerSecond bounds
// the steady-state call rate and the burst size.
func NewQuotaAwareModel(cfg *genai.GenerateContentConfig, name string, modelHandle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	meter := otel.Meter("github.com/jaycherian/go-reel-metadata")
	inputTokenCounter, err := meter.Int64Counter(fmt.Sprintf("%s.tokens.input", name))
	if err != nil {
		slog.Warn("failed to create input token counter", "model", name, "error", err)
	}
	outputTokenCounter, err := meter.Int64Counter(fmt.Sprintf("%s.tokens.output", name))
	if err != nil {
		slog.Warn("failed to create output token counter", "model", name, "error", err)
	}
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: cfg,
		ModelName:               name,
		ModelHandle:             modelHandle,
		RateLimit:               rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		inputTokenCounter:       inputTokenCounter,
		outputTokenCounter:      outputTokenCounter,
	}
}

// GenerateContent blocks until the rate limiter admits the request, then
// makes a single model call. Errors are returned to the caller untouched.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
	if err != nil {
		return nil, err
	}
	if resp.UsageMetadata != nil {
		q.inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		q.outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
	}
	return resp, nil
}

// GenerateText implements ContentGenerator by sending the parts as one user
// turn and extracting the response text.
func (q *QuotaAwareGenerativeAIModel) GenerateText(ctx context.Context, parts ...*genai.Part) (string, error) {
	content := []*genai.Content{{Parts: parts, Role: genai.RoleUser}}
	resp, err := q.GenerateContent(ctx, content)
	if err != nil {
		return "", err
	}
	return ResponseText(resp), nil
}

// ResponseText concatenates the text parts of every candidate in the
// response, strips a markdown code fence when the model added one, and trims
// surrounding whitespace.
func ResponseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	value := strings.TrimSpace(sb.String())
	value = strings.TrimPrefix(value, "```json")
	value = strings.TrimPrefix(value, "```")
	value = strings.TrimSuffix(value, "```")
	return strings.TrimSpace(value)
}
