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
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/go-reel-metadata/internal/core/model"
	"github.com/zeebo/assert"
)

func TestFileStoreSave(t *testing.T) {
	record := model.NewMetadataRecord("videos/run.mp4")
	record.Title = "Epic Powder Day"
	record.Keywords = []string{"skiing", "powder"}
	record.Tags = record.Keywords
	record.Hashtags = []string{"#skiing"}

	dest := filepath.Join(t.TempDir(), "nested", "metadata.json")
	store := NewFileStore()
	assert.NoError(t, store.Save(record, dest))

	data, err := os.ReadFile(dest)
	assert.NoError(t, err)

	var loaded model.MetadataRecord
	assert.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, record.Id, loaded.Id)
	assert.Equal(t, record.Title, loaded.Title)
	assert.DeepEqual(t, record.Keywords, loaded.Keywords)
	assert.DeepEqual(t, record.Hashtags, loaded.Hashtags)
}

func TestFileStoreSaveUnwritableDestination(t *testing.T) {
	record := model.NewMetadataRecord("videos/run.mp4")

	// A destination under an existing file cannot be created.
	blocker := filepath.Join(t.TempDir(), "blocker")
	assert.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewFileStore()
	err := store.Save(record, filepath.Join(blocker, "metadata.json"))
	assert.Error(t, err)
}
