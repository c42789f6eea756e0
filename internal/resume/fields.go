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

// Package resume derives structured candidate fields from resume plain text.
// Every field runs an ordered fallback chain of patterns and normalisers;
// the whole engine is pure and deterministic, no I/O.
package resume

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hireloop/ingestion/internal/models"
)

// maxRetainedText bounds the extracted text kept on the parsed result for
// downstream reference.
const maxRetainedText = 2000

// nameScanLines is how many leading non-empty lines the fallback name scan
// inspects.
const nameScanLines = 8

// ExtractFields runs all field chains over resume plain text.
func ExtractFields(text string) models.ParsedResume {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	retained := text
	if len(retained) > maxRetainedText {
		// Back off to a rune boundary so the cut never produces invalid
		// UTF-8.
		cut := maxRetainedText
		for cut > 0 && !utf8.RuneStart(retained[cut]) {
			cut--
		}
		retained = retained[:cut]
	}

	return models.ParsedResume{
		Name:            name(text),
		Email:           email(text),
		Phone:           phone(text),
		Domain:          domain(text),
		ExperienceLevel: experienceLevel(text),
		NoticePeriod:    noticePeriod(text),
		Text:            retained,
	}
}

// email prefers a labeled match ("email: x@y.z") over a bare address.
func email(text string) string {
	if m := labeledEmailRe.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1])
	}
	if m := bareEmailRe.FindString(text); m != "" {
		return strings.ToLower(m)
	}
	return ""
}

// name prefers a labeled "Name:" line, then scans the first few lines of the
// document for something shaped like a person's name.
func name(text string) string {
	if m := labeledNameRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > nameScanLines {
			break
		}
		if !nameLineOK(line) {
			continue
		}
		return line
	}
	return ""
}

// nameLineOK applies the fallback scan's disqualifiers: contact markers,
// leading digits, colons, section headers, and shape (2-4 alphabetic words,
// 4-50 characters total).
func nameLineOK(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range nameSkipMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	if line[0] >= '0' && line[0] <= '9' {
		return false
	}
	if strings.Contains(line, ":") {
		return false
	}
	if len(line) < 4 || len(line) > 50 {
		return false
	}
	if !nameLineRe.MatchString(line) {
		return false
	}
	for _, header := range nameHeaderWords {
		if strings.Contains(lower, header) {
			return false
		}
	}
	return true
}

// noticePeriod tries the labeled chain, then standalone phrases.
func noticePeriod(text string) string {
	if v := noticePeriodChain.apply(text); v != "" {
		return v
	}
	if m := standaloneNoticeRe.FindString(text); m != "" {
		if strings.Contains(strings.ToLower(m), "serving") {
			return "Currently serving notice"
		}
		return "Immediate"
	}
	return ""
}

// domain counts keyword hits per entry in table order; the strictly highest
// count wins, ties keep the earlier entry.
func domain(text string) string {
	lower := strings.ToLower(text)

	best := defaultDomain
	bestCount := 0
	for _, entry := range domainTable {
		count := 0
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		if count > bestCount {
			best = entry.label
			bestCount = count
		}
	}
	return best
}

// experienceLevel maps extracted years to a bucket, or Fresher/Intern when
// no numeric experience is present but fresher phrasing is.
func experienceLevel(text string) string {
	years, ok := experienceYears(text)
	if !ok {
		if fresherRe.MatchString(text) {
			return "Fresher/Intern"
		}
		return ""
	}
	return bucketYears(years)
}

// experienceYears runs the ordered experience patterns and accepts the first
// value in (0, 50].
func experienceYears(text string) (float64, bool) {
	for _, re := range experiencePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		years, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if years > 0 && years <= 50 {
			return years, true
		}
	}
	return 0, false
}

// bucketYears translates numeric years into the fixed label ranges.
func bucketYears(years float64) string {
	switch {
	case years >= 10:
		return "10+ years"
	case years >= 8:
		return "8-10 years"
	case years >= 6:
		return "6-8 years"
	case years >= 4:
		return "4-6 years"
	case years >= 2:
		return "2-4 years"
	case years >= 1:
		return "1-2 years"
	default:
		return "0-1 years"
	}
}
