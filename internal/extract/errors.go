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

package extract

import "fmt"

// UnsupportedFormatError is returned when neither content sniffing nor the
// declared metadata selects a decoder for the attachment bytes.
type UnsupportedFormatError struct {
	Filename     string
	DeclaredType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format for %q (declared type %q)", e.Filename, e.DeclaredType)
}

// ExtractionError wraps a decoder-level parse failure (corrupt PDF, ZIP
// container without a word-processing document, truncated bytes).
type ExtractionError struct {
	Format string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s text: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
