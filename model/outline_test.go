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

func outlineNode(title string) *core.PdfObjectDictionary {
	d := core.MakeDict()
	d.Set("Title", core.MakeString(title))
	return d
}

func TestReadDocumentOutlineSiblingsAndChildren(t *testing.T) {
	child := outlineNode("Section 1.1")
	first := outlineNode("Chapter 1")
	first.Set("First", child)
	second := outlineNode("Chapter 2")
	first.Set("Next", second)

	root := core.MakeDict()
	root.Set("First", first)

	items, err := ReadDocumentOutline(root, newStubResolver(), "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Chapter 1", items[0].Title)
	require.Equal(t, "Chapter 2", items[1].Title)
	require.Len(t, items[0].Items, 1)
	require.Equal(t, "Section 1.1", items[0].Items[0].Title)
}

func TestReadDocumentOutlineCycleTerminates(t *testing.T) {
	first := outlineNode("Loop")
	first.Set("Next", first) // self-referential sibling chain

	root := core.MakeDict()
	root.Set("First", first)

	items, err := ReadDocumentOutline(root, newStubResolver(), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestReadDocumentOutlineMissingTitleIsFormatError(t *testing.T) {
	bad := core.MakeDict() // no /Title
	root := core.MakeDict()
	root.Set("First", bad)

	_, err := ReadDocumentOutline(root, newStubResolver(), "")
	require.Error(t, err)
	require.True(t, core.IsFormatError(err))
}

func TestReadDocumentOutlineFlagsAndColor(t *testing.T) {
	item := outlineNode("Styled")
	item.Set("F", core.MakeInteger(3))
	item.Set("C", core.MakeArray(core.MakeFloat(1), core.MakeFloat(0), core.MakeFloat(0)))
	item.Set("Count", core.MakeInteger(-2))

	root := core.MakeDict()
	root.Set("First", item)

	items, err := ReadDocumentOutline(root, newStubResolver(), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	got := items[0]
	require.True(t, got.IsItalic())
	require.True(t, got.IsBold())
	require.True(t, got.HasColor)
	require.Equal(t, [3]float64{1, 0, 0}, got.Color)
	require.True(t, got.HasCount)
	require.Equal(t, int64(-2), got.Count)
}

func TestReadDocumentOutlineEmptyIsNil(t *testing.T) {
	items, err := ReadDocumentOutline(core.MakeDict(), newStubResolver(), "")
	require.NoError(t, err)
	require.Nil(t, items)
}
