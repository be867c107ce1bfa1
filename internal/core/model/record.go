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

// Package model defines the data structures that flow through the metadata
// generation pipeline: the ephemeral video frames handed to the vision model
// and the MetadataRecord that is the pipeline's end product.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Frame is a single still image sampled from the source video. Frames are
// held in memory as encoded JPEG bytes and discarded once the content
// analysis step has run.
type Frame struct {
	// Data is the encoded image payload.
	Data []byte
	// MIMEType identifies the encoding of Data, e.g. "image/jpeg".
	MIMEType string
	// Position is the zero-based frame number in the source stream this
	// frame was decoded from.
	Position int
}

// MetadataRecord is the complete publishable metadata package for one video.
// Every field is populated by the time the record leaves the pipeline: when a
// generation stage fails, the stage substitutes a deterministic fallback
// rather than leaving the field empty. Once assembled a record is treated as
// immutable.
type MetadataRecord struct {
	// Id is a deterministic UUIDv5 derived from the source video path.
	Id string `json:"id"`
	// SourceVideo is the local path of the video the record describes.
	SourceVideo string `json:"source_video"`
	// VideoAnalysis is the vision model's short description of the content.
	VideoAnalysis string `json:"video_analysis"`
	// Title is the generated headline for the video.
	Title string `json:"title"`
	// Description is the full generated description document, verbatim.
	Description string `json:"description"`
	// Tags are the first 15 (at most) entries of Keywords.
	Tags []string `json:"tags"`
	// Hashtags are the "#"-prefixed tokens parsed from the description.
	Hashtags []string `json:"hashtags"`
	// Keywords are the comma-separated terms parsed from the description.
	Keywords []string `json:"keywords"`
	// GeneratedAt is the wall-clock time the record was assembled.
	GeneratedAt time.Time `json:"generated_at"`
}

// NewMetadataRecord creates a record for the given source video with a
// deterministic id, the current timestamp, and all slice fields initialized
// to empty non-nil slices.
func NewMetadataRecord(sourceVideo string) *MetadataRecord {
	return &MetadataRecord{
		Id:          uuid.NewSHA1(uuid.NameSpaceURL, []byte(sourceVideo)).String(),
		SourceVideo: sourceVideo,
		Tags:        make([]string, 0),
		Hashtags:    make([]string, 0),
		Keywords:    make([]string, 0),
		GeneratedAt: time.Now(),
	}
}
