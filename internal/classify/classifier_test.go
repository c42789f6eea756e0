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

package classify

import "testing"

// TestClassify_Accepts verifies that job-application text passes the
// threshold.
func TestClassify_Accepts(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
	}{
		{
			name:    "application subject with experience body",
			subject: "Application for Backend Developer",
			body:    "Please find attached my resume. I have 5 years of experience in Node and MongoDB.",
		},
		{
			name:    "two positive matches, low confidence",
			subject: "Regarding the open position",
			body:    "my resume is attached",
		},
		{
			name:    "resume submission phrasing",
			subject: "CV attached",
			body:    "I am applying for the software engineer vacancy at your company.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.subject, tt.body)
			if !got.IsJobApplication {
				t.Errorf("Classify() rejected a job application (confidence %d, matched %v)",
					got.Confidence, got.MatchedKeywords)
			}
			if len(got.MatchedKeywords) < 2 {
				t.Errorf("expected at least 2 matched keywords, got %v", got.MatchedKeywords)
			}
		})
	}
}

// TestClassify_Rejects verifies non-application text is rejected.
func TestClassify_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
	}{
		{
			name:    "no positive matches",
			subject: "Lunch on Friday?",
			body:    "Shall we meet at noon?",
		},
		{
			name:    "marketing mail with negative phrases",
			subject: "Sale ends tonight",
			body:    "Huge discount on everything. Unsubscribe here. Limited time offer for our newsletter readers.",
		},
		{
			name:    "security notification",
			subject: "Security alert",
			body:    "A sign-in attempt was blocked. Verify your email to continue.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.subject, tt.body)
			if got.IsJobApplication {
				t.Errorf("Classify() accepted non-application text (confidence %d, matched %v)",
					got.Confidence, got.MatchedKeywords)
			}
		})
	}
}

// TestClassify_EmptyText verifies the zero-input case.
func TestClassify_EmptyText(t *testing.T) {
	got := Classify("", "")
	if got.IsJobApplication {
		t.Error("Classify() accepted empty text")
	}
	if got.Confidence != 0 {
		t.Errorf("confidence = %d, want 0", got.Confidence)
	}
	if len(got.MatchedKeywords) != 0 {
		t.Errorf("matched keywords = %v, want none", got.MatchedKeywords)
	}
}

// TestClassify_NegativeWeight verifies that negative phrases count double
// against the score.
func TestClassify_NegativeWeight(t *testing.T) {
	// One positive ("resume") against one negative ("unsubscribe"):
	// raw = max(0, 1 - 2) = 0, one matched keyword — must be rejected.
	got := Classify("resume builder", "click unsubscribe to stop these mails")
	if got.IsJobApplication {
		t.Errorf("one positive vs one negative should be rejected (confidence %d)", got.Confidence)
	}
	if got.Confidence != 0 {
		t.Errorf("confidence = %d, want 0", got.Confidence)
	}
}

// TestClassify_ConfidenceCap verifies the 100 ceiling.
func TestClassify_ConfidenceCap(t *testing.T) {
	body := "job application applying for position vacancy resume cover letter " +
		"candidate developer engineer years of experience notice period hiring opportunity"
	got := Classify("Application for the job opening", body)
	if got.Confidence != 100 {
		t.Errorf("confidence = %d, want capped at 100", got.Confidence)
	}
	if !got.IsJobApplication {
		t.Error("high-scoring text must be accepted")
	}
}
