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

// Package workflow_test contains integration tests for the metadata
// generation workflow. This file provides the shared setup for the suite:
// configuration, logging, and telemetry are initialized once in TestMain.
package workflow_test

import (
	"context"
	"os"
	"testing"

	"github.com/jaycherian/go-reel-metadata/internal/config"
	"github.com/jaycherian/go-reel-metadata/internal/telemetry"
	test "github.com/jaycherian/go-reel-metadata/internal/testutil"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

var (
	ctx context.Context
	cfg *config.Config
)

const tName = "github.com/jaycherian/go-reel-metadata/tests/workflow"

var (
	tracer = otel.Tracer(tName)
	logger = otelslog.NewLogger(tName)
)

// TestMain initializes shared suite state before any test runs and flushes
// telemetry afterwards.
func TestMain(m *testing.M) {
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	cfg = test.GetConfig()

	telemetry.SetupLogging()

	shutdown, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		panic(err)
	}

	logger.Info("completed test setup")

	exitCode := m.Run()

	if err := shutdown(ctx); err != nil {
		logger.Error("failed to shutdown telemetry", "error", err)
	}

	os.Exit(exitCode)
}
