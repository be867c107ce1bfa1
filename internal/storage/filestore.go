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

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jaycherian/go-reel-metadata/internal/core/model"
)

// FileStore is the default MetadataStore. It writes each record as an
// indented UTF-8 JSON document, creating parent directories as needed.
type FileStore struct{}

// NewFileStore creates a filesystem-backed metadata store.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Save marshals the record with two-space indentation and writes it to
// destPath. Field order is stable because it follows the struct definition.
func (s *FileStore) Save(record *model.MetadataRecord, destPath string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata record %s: %w", record.Id, err)
	}
	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata record to %s: %w", destPath, err)
	}
	return nil
}
