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

// Package extract converts raw attachment bytes into plain text. Decoder
// selection is content-first: the leading bytes are sniffed for a PDF or ZIP
// magic marker (DOCX is a ZIP container); the declared MIME type and the
// filename extension are consulted only when sniffing is inconclusive.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

type format int

const (
	formatUnknown format = iota
	formatPDF
	formatDOCX
)

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// Text extracts plain text from attachment bytes. It returns an
// *UnsupportedFormatError when no decoder matches and an *ExtractionError
// when the selected decoder fails on the bytes.
func Text(data []byte, declaredType, filename string) (string, error) {
	switch detect(data, declaredType, filename) {
	case formatPDF:
		text, err := pdfText(data)
		if err != nil {
			return "", &ExtractionError{Format: "pdf", Err: err}
		}
		return text, nil
	case formatDOCX:
		text, err := docxText(data)
		if err != nil {
			// A ZIP that is not actually a DOCX lands here with the
			// decoder's own descriptive error.
			return "", &ExtractionError{Format: "docx", Err: err}
		}
		return text, nil
	default:
		return "", &UnsupportedFormatError{Filename: filename, DeclaredType: declaredType}
	}
}

// detect sniffs content first and falls back to metadata.
func detect(data []byte, declaredType, filename string) format {
	if bytes.HasPrefix(data, pdfMagic) {
		return formatPDF
	}
	if bytes.HasPrefix(data, zipMagic) {
		return formatDOCX
	}

	switch {
	case strings.Contains(declaredType, "pdf"):
		return formatPDF
	case strings.Contains(declaredType, "officedocument.wordprocessingml"),
		strings.Contains(declaredType, "msword"):
		return formatDOCX
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return formatPDF
	case ".doc", ".docx":
		return formatDOCX
	}

	return formatUnknown
}

// pdfText extracts all page text from a PDF. The pdf package panics on some
// malformed files, so the recover converts those into ordinary errors.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	return string(out), nil
}

// docxText extracts the text body of a word-processing document from a ZIP
// container. The decoder resource is released regardless of outcome.
func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	return flattenDocxXML(doc.Editable().GetContent()), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// flattenDocxXML strips WordprocessingML markup, keeping paragraph breaks.
func flattenDocxXML(content string) string {
	text := paragraphEnd.ReplaceAllString(content, "\n")
	text = xmlTag.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&apos;", "'")
	return strings.TrimSpace(text)
}
