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

// positiveKeywords are phrases that indicate a genuine job application:
// application intent, resume submission, role/position and experience
// phrasing. Matching is case-insensitive substring search; each distinct
// phrase counts once.
var positiveKeywords = []string{
	"job application",
	"applying for",
	"application for",
	"apply for",
	"interested in the position",
	"interested in this position",
	"interested in the role",
	"resume",
	"cv attached",
	"curriculum vitae",
	"my resume",
	"attached resume",
	"please find attached",
	"cover letter",
	"position",
	"vacancy",
	"job opening",
	"opening for",
	"opportunity",
	"candidate",
	"developer",
	"engineer",
	"years of experience",
	"work experience",
	"notice period",
	"current ctc",
	"expected ctc",
	"looking for a job",
	"job opportunity",
	"hiring",
}

// negativeKeywords are phrases typical of transactional, marketing or
// security-notification mail. Each hit counts double against the score.
var negativeKeywords = []string{
	"unsubscribe",
	"newsletter",
	"invoice",
	"receipt",
	"order confirmation",
	"payment",
	"password reset",
	"verify your email",
	"verification code",
	"security alert",
	"sign-in attempt",
	"account update",
	"promotional",
	"discount",
	"sale ends",
	"limited time offer",
	"webinar",
	"no-reply",
	"do not reply",
}
