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

// Package mimewalk flattens a message's MIME structure tree into attachment
// descriptors and locates the first readable text body part. The walk is a
// depth-first fold over models.BodyNode; part paths are dot-joined 1-based
// indices ("2.1") matching IMAP part numbering.
package mimewalk

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hireloop/ingestion/internal/models"
)

// maxDepth bounds recursion over hostile or malformed structure trees.
const maxDepth = 16

// resumeExtensions is the filename allow-list for resume-like attachments.
var resumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// TextPartRef identifies a readable text body part within a message.
type TextPartRef struct {
	Path      string
	MediaType string
}

// ExtractAttachments walks the structure tree and returns a descriptor for
// every leaf part that carries a filename and an attachment or inline
// disposition.
func ExtractAttachments(root *models.BodyNode) []models.AttachmentDescriptor {
	var out []models.AttachmentDescriptor
	walk(root, nil, 0, func(path []int, leaf *models.BodyNode) bool {
		if leaf.Filename == "" {
			return true
		}
		disp := strings.ToLower(leaf.Disposition)
		if disp != "attachment" && disp != "inline" {
			return true
		}
		out = append(out, models.AttachmentDescriptor{
			Filename:  leaf.Filename,
			Path:      joinPath(path),
			MediaType: mediaType(leaf),
			Size:      leaf.Size,
		})
		return true
	})
	return out
}

// FindFirstTextPart returns the first leaf whose media type is text/plain or
// text/html, used to fetch the message body for classification.
func FindFirstTextPart(root *models.BodyNode) (TextPartRef, bool) {
	var ref TextPartRef
	found := false
	walk(root, nil, 0, func(path []int, leaf *models.BodyNode) bool {
		mt := mediaType(leaf)
		if mt != "text/plain" && mt != "text/html" {
			return true
		}
		ref = TextPartRef{Path: joinPath(path), MediaType: mt}
		found = true
		return false
	})
	return ref, found
}

// IsResumeFile reports whether the filename extension is on the resume
// allow-list (pdf, doc, docx). This gate is independent of the structural walk.
func IsResumeFile(filename string) bool {
	return resumeExtensions[strings.ToLower(filepath.Ext(filename))]
}

// walk visits every leaf depth-first, carrying the 1-based part path. The
// visitor returns false to stop the traversal early.
func walk(node *models.BodyNode, path []int, depth int, visit func(path []int, leaf *models.BodyNode) bool) bool {
	if node == nil || depth > maxDepth {
		return true
	}
	if !node.IsMultipart() {
		// A root without children is a single-part message: part path "1".
		if len(path) == 0 {
			path = []int{1}
		}
		return visit(path, node)
	}
	for i, child := range node.Children {
		if !walk(child, append(path, i+1), depth+1, visit) {
			return false
		}
	}
	return true
}

func joinPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}

func mediaType(n *models.BodyNode) string {
	return strings.ToLower(n.Type) + "/" + strings.ToLower(n.Subtype)
}
