/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdfxref/pdfxref/core"
)

func embeddedFileStream(content string) *core.PdfObjectStream {
	d := core.MakeDict()
	d.Set("Type", core.MakeName("EmbeddedFile"))
	return &core.PdfObjectStream{PdfObjectDictionary: d, Stream: []byte(content)}
}

func TestFileSpecFilenamePriority(t *testing.T) {
	d := core.MakeDict()
	d.Set("F", core.MakeString("dos-name.txt"))
	d.Set("UF", core.MakeString("unicode-name.txt"))

	fs := NewFileSpec(d, newStubResolver())
	require.Equal(t, "unicode-name.txt", fs.Filename())
}

func TestFileSpecFilenameNormalizesBackslashes(t *testing.T) {
	d := core.MakeDict()
	d.Set("F", core.MakeString(`dir\sub\file.txt`))
	fs := NewFileSpec(d, newStubResolver())
	require.Equal(t, "dir/sub/file.txt", fs.Filename())
}

func TestFileSpecFilenameFallback(t *testing.T) {
	fs := NewFileSpec(core.MakeDict(), newStubResolver())
	require.Equal(t, "unnamed", fs.Filename())
}

func TestFileSpecContentFromEF(t *testing.T) {
	ef := core.MakeDict()
	ef.Set("F", embeddedFileStream("attachment body"))

	d := core.MakeDict()
	d.Set("F", core.MakeString("a.txt"))
	d.Set("EF", ef)

	fs := NewFileSpec(d, newStubResolver())
	att, err := fs.Serializable()
	require.NoError(t, err)
	require.Equal(t, "a.txt", att.Filename)
	require.Equal(t, []byte("attachment body"), att.Content)
}

func TestFileSpecNonEmbeddedHasEmptyContent(t *testing.T) {
	d := core.MakeDict()
	d.Set("F", core.MakeString("external.txt"))

	fs := NewFileSpec(d, newStubResolver())
	content, err := fs.Content()
	require.NoError(t, err)
	require.Empty(t, content)
}

func TestFileSpecRelatedFilesUnsupported(t *testing.T) {
	ef := core.MakeDict()
	ef.Set("F", embeddedFileStream("body"))

	d := core.MakeDict()
	d.Set("F", core.MakeString("a.txt"))
	d.Set("EF", ef)
	d.Set("RF", core.MakeDict())

	fs := NewFileSpec(d, newStubResolver())
	content, err := fs.Content()
	require.NoError(t, err)
	require.Empty(t, content)
}
