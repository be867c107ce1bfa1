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

// This file defines the command that persists the assembled MetadataRecord
// through the storage collaborator. A failed write is logged and counted but
// does not fail the chain; the in-memory record remains the result of the
// run.
package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jaycherian/go-reel-metadata/internal/core/cor"
	"github.com/jaycherian/go-reel-metadata/internal/core/model"
	"github.com/jaycherian/go-reel-metadata/internal/storage"
)

// MetadataPersist is a command that writes the final record to the metadata
// store as "metadata_<id>.json" under the configured output directory.
type MetadataPersist struct {
	cor.BaseCommand
	store     storage.MetadataStore
	outputDir string
}

// NewMetadataPersist is the constructor for the MetadataPersist command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - store: The metadata store to write records through.
//   - outputDir: The directory record files are written to.
func NewMetadataPersist(name string, store storage.MetadataStore, outputDir string) *MetadataPersist {
	return &MetadataPersist{
		BaseCommand: *cor.NewBaseCommand(name),
		store:       store,
		outputDir:   outputDir,
	}
}

// Execute saves the record found in the input parameter and re-pipes it to
// the output parameter so callers can read the final record off the chain.
func (c *MetadataPersist) Execute(context cor.Context) {
	record := context.Get(c.GetInputParam()).(*model.MetadataRecord)

	destPath := filepath.Join(c.outputDir, fmt.Sprintf("metadata_%s.json", record.Id))
	if err := c.store.Save(record, destPath); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		slog.Error("failed to persist metadata record", "id", record.Id, "dest", destPath, "error", err)
	} else {
		c.GetSuccessCounter().Add(context.GetContext(), 1)
		slog.Info("metadata record persisted", "id", record.Id, "dest", destPath)
	}

	context.Add(c.GetOutputParam(), record)
}
