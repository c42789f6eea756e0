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

// Extraction patterns and lexicons. Kept as package data rather than inline
// literals so individual chains stay testable.

const emailPattern = `[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`

var (
	labeledEmailRe = regexp.MustCompile(`(?i)e[\s-]?mail[^a-zA-Z0-9]{0,10}(` + emailPattern + `)`)
	bareEmailRe    = regexp.MustCompile(emailPattern)
)

// Phone patterns. Labeled forms are tried before bare digit runs; URL and
// domain text is stripped beforehand so link digits never match.
var (
	urlRe    = regexp.MustCompile(`(?i)(?:https?://\S+|www\.\S+|\S+\.(?:com|org|net|io|in|co)(?:/\S*)?)`)
	mailtoRe = regexp.MustCompile(emailPattern)

	// The separator classes deliberately exclude newlines so a number never
	// absorbs digits from the following line.
	labeledPhoneRe = regexp.MustCompile(`(?i)(?:phone|mobile|contact|cell|tel|whatsapp)(?:[ \t]*(?:no|number|#))?[^0-9+\n]{0,10}(\+?[0-9][0-9\- \t().|/,+]{7,})`)
	barePhoneRe    = regexp.MustCompile(`\+?[0-9][0-9\- \t().]{8,}[0-9]`)
)

// Name patterns. The labeled form wins; the fallback line scan in name.go
// applies the disqualifier lists below.
var (
	labeledNameRe = regexp.MustCompile(`(?im)^[ \t]*(?:full[ \t]+)?name[ \t]*[:\-][ \t]*([A-Za-z][A-Za-z.' ]{2,60})[ \t]*$`)
	nameLineRe    = regexp.MustCompile(`^[A-Za-z]+(?:\s+[A-Za-z.']+){1,3}$`)
)

// nameSkipMarkers disqualify a line from the fallback name scan outright.
var nameSkipMarkers = []string{"@", "http", "www.", "linkedin"}

// nameHeaderWords are section headers that look like 2-4 word lines but are
// never a person's name.
var nameHeaderWords = []string{
	"resume", "curriculum", "vitae", "objective", "summary", "profile",
	"education", "experience", "skills", "projects", "contact", "address",
	"phone", "email", "career", "professional",
}

// Notice period: labeled numeric+unit and phrase forms, then standalone
// phrases scanned by noticePeriod in fields.go.
var noticePeriodChain = chain{
	{re: regexp.MustCompile(`(?i)notice\s*period[^a-zA-Z0-9]{0,15}(\d{1,3}\s*(?:days?|weeks?|months?))`), normalize: group},
	{re: regexp.MustCompile(`(?i)notice\s*period[^a-zA-Z0-9]{0,15}(immediate(?:ly)?(?:\s*available)?)`), normalize: func([]string) string { return "Immediate" }},
	{re: regexp.MustCompile(`(?i)(\d{1,3}\s*(?:days?|weeks?|months?))(?:\s*of)?\s*notice`), normalize: group},
	{re: regexp.MustCompile(`(?i)(?:currently\s+)?serving\s+(?:my\s+)?notice`), normalize: func([]string) string { return "Currently serving notice" }},
}

var standaloneNoticeRe = regexp.MustCompile(`(?i)immediate(?:ly)?\s+(?:available|joiner)|available\s+immediately|currently\s+serving\s+notice`)

// domainEntry maps a domain label to its keyword list. Table order is the
// tie-break: equal hit counts resolve to the earlier entry.
type domainEntry struct {
	label    string
	keywords []string
}

var domainTable = []domainEntry{
	{"Frontend", []string{"react", "angular", "vue", "html", "css", "frontend", "front-end", "ui developer", "tailwind", "redux"}},
	{"Backend", []string{"node", "express", "django", "spring", "backend", "back-end", "mongodb", "postgresql", "mysql", "microservices", "rest api", "graphql"}},
	{"Full Stack", []string{"full stack", "fullstack", "full-stack", "mern", "mean stack"}},
	{"Mobile", []string{"android", "ios", "flutter", "react native", "kotlin", "swift", "mobile app"}},
	{"DevOps", []string{"devops", "docker", "kubernetes", "jenkins", "terraform", "ansible", "ci/cd", "aws", "azure", "gcp"}},
	{"Data Science", []string{"machine learning", "data science", "deep learning", "pandas", "numpy", "tensorflow", "pytorch", "nlp", "data analysis"}},
	{"QA", []string{"selenium", "test automation", "quality assurance", "manual testing", "qa engineer", "cypress", "test cases"}},
}

// defaultDomain is used when no keyword matches at all.
const defaultDomain = "Full Stack"

// Experience patterns, ordered: labeled, value-with-context, range, bare.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:total\s+)?(?:work\s+)?experience[^0-9]{0,20}(\d{1,2}(?:\.\d)?)\s*\+?\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d)?)\s*\+?\s*(?:years?|yrs?)\s+of\s+(?:\w+\s+){0,3}?(?:experience|exp)`),
	regexp.MustCompile(`(?i)(\d{1,2})\s*(?:-|–|to)\s*\d{1,2}\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d)?)\s*\+?\s*(?:years?|yrs?)`),
}

var fresherRe = regexp.MustCompile(`(?i)\bfresher\b|\bintern(?:ship)?\b|entry[\s-]level|recent\s+graduate`)
