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

package resume

import (
	"strconv"
	"strings"
)

// Year guard bounds: a 10-digit run whose first four digits parse into this
// range is almost certainly a year glued to other digits (dates, durations),
// not a phone number.
const (
	yearGuardMin = 1950
	yearGuardMax = 2030
)

// phone extracts and normalises a phone number from resume text. URLs,
// domains and email addresses are stripped first so link digits are never
// captured. Labeled patterns are tried before bare digit runs.
func phone(text string) string {
	cleaned := urlRe.ReplaceAllString(text, " ")
	cleaned = mailtoRe.ReplaceAllString(cleaned, " ")

	if m := labeledPhoneRe.FindStringSubmatch(cleaned); m != nil {
		if v := normalizePhone(m[1]); v != "" {
			return v
		}
	}
	for _, m := range barePhoneRe.FindAllString(cleaned, -1) {
		if v := normalizePhone(m); v != "" {
			return v
		}
	}
	return ""
}

// normalizePhone canonicalises a raw phone match. Multiple numbers separated
// by '|', '/' or ',' collapse to the first. Indian numbers with country code
// 91 normalise to +91 plus the last ten digits; other +-prefixed numbers are
// kept as-is; anything else keeps its last ten digits. Returns "" when the
// candidate fails the year guard or is too short.
func normalizePhone(raw string) string {
	// First segment only when several numbers share one line.
	for _, sep := range []string{"|", "/", ","} {
		if i := strings.Index(raw, sep); i >= 0 {
			raw = raw[:i]
		}
	}
	raw = strings.TrimSpace(raw)

	hasPlus := strings.HasPrefix(raw, "+")
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	num := digits.String()

	switch {
	case strings.HasPrefix(num, "91") && len(num) >= 12:
		tail := num[len(num)-10:]
		if isYearRun(tail) {
			return ""
		}
		return "+91" + tail
	case hasPlus:
		if len(num) < 10 || isYearRun(num[len(num)-10:]) {
			return ""
		}
		return "+" + num
	case len(num) >= 10:
		tail := num[len(num)-10:]
		if isYearRun(tail) {
			return ""
		}
		return tail
	default:
		return ""
	}
}

// isYearRun reports whether the first four digits of a 10-digit run fall in
// the year-guard range.
func isYearRun(run string) bool {
	if len(run) < 4 {
		return false
	}
	n, err := strconv.Atoi(run[:4])
	if err != nil {
		return false
	}
	return n >= yearGuardMin && n <= yearGuardMax
}
