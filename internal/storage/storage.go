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

// Package storage provides the persistence collaborator for metadata
// records. The pipeline depends only on the MetadataStore interface; the
// default implementation writes JSON documents to the local filesystem.
package storage

import "github.com/jaycherian/go-reel-metadata/internal/core/model"

// MetadataStore persists assembled metadata records. Implementations must
// write the record's canonical JSON form. A failed save never invalidates
// the in-memory record.
type MetadataStore interface {
	// Save writes the record to the given destination path.
	Save(record *model.MetadataRecord, destPath string) error
}
