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

// Package cor (Chain of Responsibility) provides the building blocks for
// composing the metadata-generation pipeline out of small, testable commands.
// This file defines the interfaces that govern every component of the
// pattern: the shared Context that carries state through a run, the Command
// as the atomic unit of work, and the Chain that sequences commands.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the reserved keys used to pipe the primary data flow
// between commands in a BaseChain.
const (
	// CtxIn is the default key a command reads its primary input from. The
	// BaseChain populates it with the previous command's output.
	CtxIn = "__IN__"
	// CtxOut is the default key a command writes its primary output to. The
	// BaseChain picks the value up and hands it to the next command.
	CtxOut = "__OUT__"
)

// Context is the shared state object passed through a chain of commands.
// It acts as a property bag for a single pipeline run, carrying data,
// errors, and temporary files between commands.
type Context interface {
	// SetContext sets the standard Go context.Context, used for cancellation
	// signals and OpenTelemetry trace propagation.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go context.Context.
	GetContext() context.Context

	// Add stores a key-value pair. Returns the Context for fluent chaining.
	Add(key string, value interface{}) Context

	// AddError records an error produced by a command, keyed by the command
	// name. Only non-recoverable failures belong here; commands with a
	// deterministic fallback substitute it instead of erroring the chain.
	AddError(key string, err error)

	// GetErrors returns all errors collected during the run.
	GetErrors() map[string]error

	// Get retrieves a value by key, or nil when absent.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any errors have been recorded.
	HasErrors() bool

	// AddTempFile tracks a temporary file created during the run so Close
	// can clean it up.
	AddTempFile(file string)

	// GetTempFiles returns all tracked temporary file paths.
	GetTempFiles() []string

	// Close removes all tracked temporary files. Defer it at the start of a
	// pipeline run.
	Close()
}

// Executable is any object with a core execution step.
type Executable interface {
	// Execute runs the business logic, reading inputs from and writing
	// outputs to the given Context.
	Execute(context Context)
}

// Command is an atomic, thread-safe unit of work and the fundamental
// building block of a pipeline.
type Command interface {
	Executable

	// GetName returns the command name used for logging and telemetry.
	GetName() string

	// GetInputParam returns the context key holding the command's input.
	GetInputParam() string

	// GetOutputParam returns the context key the command writes its output to.
	GetOutputParam() string

	// IsExecutable is a precondition check run before Execute.
	IsExecutable(context Context) bool

	// GetTracer returns the OpenTelemetry tracer for this command.
	GetTracer() trace.Tracer

	// GetMeter returns the OpenTelemetry meter for this command.
	GetMeter() metric.Meter

	// GetSuccessCounter returns the counter incremented on success.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns the counter incremented on failure.
	GetErrorCounter() metric.Int64Counter
}

// Chain is a sequence of commands. A Chain is itself a Command, so chains
// may be nested.
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps executing after a
	// command records an error.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
