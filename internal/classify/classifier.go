// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package classify decides whether an email is a job application by scoring
// its subject and body against keyword lexicons. This is deliberately a
// cheap heuristic, not a trained model: the threshold favours recall over
// precision so real applicants are rarely dropped.
package classify

import (
	"strings"

	"github.com/hireloop/ingestion/internal/models"
)

// Scoring constants. Negative phrases weigh double; the raw score is scaled
// to a 0-100 confidence capped at 100.
const (
	negativeWeight      = 2
	confidencePerPoint  = 15
	confidenceThreshold = 30
	minKeywordMatches   = 2
)

// Classify scores subject+body and returns the decision with its confidence
// and the matched positive phrases. Pure function over text.
func Classify(subject, body string) models.ClassificationResult {
	text := strings.ToLower(subject + " " + body)

	var matched []string
	for _, kw := range positiveKeywords {
		if strings.Contains(text, kw) {
			matched = append(matched, kw)
		}
	}

	negative := 0
	for _, kw := range negativeKeywords {
		if strings.Contains(text, kw) {
			negative++
		}
	}

	raw := len(matched) - negativeWeight*negative
	if raw < 0 {
		raw = 0
	}

	confidence := raw * confidencePerPoint
	if confidence > 100 {
		confidence = 100
	}

	// Low-confidence text with two or more distinct positive matches still
	// passes: a deliberate low bar.
	return models.ClassificationResult{
		IsJobApplication: confidence >= confidenceThreshold || len(matched) >= minKeywordMatches,
		Confidence:       confidence,
		MatchedKeywords:  matched,
	}
}
