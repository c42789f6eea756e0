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

import "regexp"

// rule pairs a pattern with a normaliser. The normaliser receives the
// submatches and may return "" to reject the match, letting the chain fall
// through to the next rule.
type rule struct {
	re        *regexp.Regexp
	normalize func(match []string) string
}

// chain is an ordered list of rules evaluated first-match-wins.
type chain []rule

// apply runs the chain over text and returns the first accepted value, or ""
// when no rule matches.
func (c chain) apply(text string) string {
	for _, r := range c {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if r.normalize == nil {
			if len(m) > 1 {
				return m[1]
			}
			return m[0]
		}
		if v := r.normalize(m); v != "" {
			return v
		}
	}
	return ""
}

// group returns submatch 1 when present, else the whole match.
func group(m []string) string {
	if len(m) > 1 && m[1] != "" {
		return m[1]
	}
	return m[0]
}
