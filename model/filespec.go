/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

// FileSpec interprets an embedded-file-spec dictionary (F, UF, DOS, Mac,
// Unix, EF, RF). It only reads: it resolves filename and content, never
// writes a spec back.
import (
	"strings"

	"github.com/pdfxref/pdfxref/common"
	"github.com/pdfxref/pdfxref/core"
)

// FileSpec is the read side of a PDF file specification dictionary.
type FileSpec struct {
	dict *core.PdfObjectDictionary
	xref core.Resolver
}

// Attachment is the normalized output of resolving a FileSpec:
// filename plus raw embedded content.
type Attachment struct {
	Filename string
	Content  []byte
}

// NewFileSpec wraps dict (the value of a /Names/EmbeddedFiles leaf, or any
// other file-spec-shaped dictionary) as a FileSpec.
func NewFileSpec(dict *core.PdfObjectDictionary, xref core.Resolver) *FileSpec {
	return &FileSpec{dict: dict, xref: xref}
}

// filenamePriority orders both the filename keys and the matching /EF
// content keys: UF > F > Unix > Mac > DOS.
var filenamePriority = []core.PdfObjectName{"UF", "F", "Unix", "Mac", "DOS"}

// Filename picks the file-spec's name by priority UF > F > Unix > Mac >
// DOS, normalizing backslashes, with fallback "unnamed".
func (fs *FileSpec) Filename() string {
	for _, key := range filenamePriority {
		if v := fs.dict.Get(key); v != nil {
			if s, ok := core.GetStringVal(mustResolve(v, fs.xref)); ok && s != "" {
				return normalizeFilename(s)
			}
		}
	}
	return "unnamed"
}

// normalizeFilename rewrites path separators after PDF-string decoding:
// "\\" -> "\", then "\/" -> "/", then "\" -> "/".
func normalizeFilename(s string) string {
	s = strings.ReplaceAll(s, `\\`, `\`)
	s = strings.ReplaceAll(s, `\/`, "/")
	s = strings.ReplaceAll(s, `\`, "/")
	return s
}

// unsupported reports whether this file spec has no embedded content to
// extract: missing /EF (non-embedded spec) or carrying /RF (related-file
// tree).
func (fs *FileSpec) unsupported() bool {
	if fs.dict.Get("EF") == nil {
		return true
	}
	if fs.dict.Get("RF") != nil {
		return true
	}
	return false
}

// Content fetches the embedded file's bytes from /EF, again by the UF >
// F > Unix > Mac > DOS priority. Non-embedded specs and /RF-bearing specs
// are reported unsupported and produce empty content.
func (fs *FileSpec) Content() ([]byte, error) {
	if fs.unsupported() {
		common.Log.Debug("FileSpec: unsupported (no /EF or has /RF) - returning empty content")
		return nil, nil
	}
	efObj, err := core.TraceToDirectObject(fs.dict.Get("EF"), fs.xref)
	if err != nil {
		return nil, err
	}
	ef, ok := core.GetDict(efObj)
	if !ok {
		return nil, core.NewFormatError("filespec /EF is not a dictionary")
	}
	for _, key := range filenamePriority {
		v := ef.Get(key)
		if v == nil {
			continue
		}
		direct, err := core.TraceToDirectObject(v, fs.xref)
		if err != nil {
			return nil, err
		}
		if stream, ok := core.GetStream(direct); ok {
			return stream.Stream, nil
		}
	}
	return nil, nil
}

// Serializable resolves the file specification into its
// {filename, content} pair.
func (fs *FileSpec) Serializable() (*Attachment, error) {
	content, err := fs.Content()
	if err != nil {
		return nil, err
	}
	return &Attachment{Filename: fs.Filename(), Content: content}, nil
}

func mustResolve(obj core.PdfObject, xref core.Resolver) core.PdfObject {
	direct, err := core.TraceToDirectObject(obj, xref)
	if err != nil {
		return obj
	}
	return direct
}
