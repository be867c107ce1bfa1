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

// This file defines the command that assembles the final MetadataRecord
// from the outputs of the upstream generation commands. Assembly is a pure
// text transformation: it parses the description document's labeled sections
// into keyword and hashtag lists and derives the tag list. No I/O and no
// model calls happen here.
package commands

import (
	"strings"

	"github.com/jaycherian/go-reel-metadata/internal/core/cor"
	"github.com/jaycherian/go-reel-metadata/internal/core/model"
)

// MaxTags caps the number of tags derived from the keyword list.
const MaxTags = 15

// ExtractKeywords parses the keyword list from the description document's
// "Keywords:" line: the label is stripped, the remainder split on commas,
// and each term trimmed. Empty terms are dropped.
func ExtractKeywords(description string) []string {
	keywords := make([]string, 0)
	for _, line := range strings.Split(description, "\n") {
		if !strings.HasPrefix(line, KeywordsLabel) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, KeywordsLabel))
		for _, term := range strings.Split(rest, ",") {
			if term = strings.TrimSpace(term); term != "" {
				keywords = append(keywords, term)
			}
		}
	}
	return keywords
}

// ExtractHashtags parses the hashtag list from the description document's
// "Hashtags:" line: the label is stripped, the remainder split on
// whitespace, and only "#"-prefixed tokens kept.
func ExtractHashtags(description string) []string {
	hashtags := make([]string, 0)
	for _, line := range strings.Split(description, "\n") {
		if !strings.HasPrefix(line, HashtagsLabel) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, HashtagsLabel))
		for _, token := range strings.Fields(rest) {
			if strings.HasPrefix(token, "#") {
				hashtags = append(hashtags, token)
			}
		}
	}
	return hashtags
}

// MetadataAssembler is a command that combines the analysis, title, and
// description produced upstream into a complete MetadataRecord.
type MetadataAssembler struct {
	cor.BaseCommand
	videoPathParamName   string // Context key holding the source video path.
	analysisParamName    string // Context key holding the analysis text.
	titleParamName       string // Context key holding the title.
	descriptionParamName string // Context key holding the description document.
	recordParamName      string // Context key the assembled record is stored under.
}

// NewMetadataAssembler is the constructor for the MetadataAssembler command.
// The parameter names identify where the upstream commands stored their
// outputs and where the assembled record should be placed.
func NewMetadataAssembler(
	name string,
	videoPathParamName string,
	analysisParamName string,
	titleParamName string,
	descriptionParamName string,
	recordParamName string) *MetadataAssembler {
	return &MetadataAssembler{
		BaseCommand:          *cor.NewBaseCommand(name),
		videoPathParamName:   videoPathParamName,
		analysisParamName:    analysisParamName,
		titleParamName:       titleParamName,
		descriptionParamName: descriptionParamName,
		recordParamName:      recordParamName,
	}
}

// Execute builds the record and stores it under both the named record key
// and the output parameter.
func (c *MetadataAssembler) Execute(context cor.Context) {
	videoPath := context.Get(c.videoPathParamName).(string)
	analysis := context.Get(c.analysisParamName).(string)
	title := context.Get(c.titleParamName).(string)
	description := context.Get(c.descriptionParamName).(string)

	record := model.NewMetadataRecord(videoPath)
	record.VideoAnalysis = analysis
	record.Title = title
	record.Description = description
	record.Keywords = ExtractKeywords(description)
	record.Hashtags = ExtractHashtags(description)
	record.Tags = record.Keywords[:min(len(record.Keywords), MaxTags)]

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.recordParamName, record)
	context.Add(c.GetOutputParam(), record)
}
