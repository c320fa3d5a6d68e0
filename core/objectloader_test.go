/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectLoaderWalksSubgraph(t *testing.T) {
	data, xrefOffset := buildClassicXRefDoc(t)
	x := NewXRef(NewMemStream(data))
	x.SetStartXRef(xrefOffset)
	require.NoError(t, x.Parse(false))

	root, err := TraceToDirectObject(x.GetCatalogObj(), x)
	require.NoError(t, err)
	rootDict, _ := GetDict(root)

	loader := NewObjectLoader(x, nil)
	require.NoError(t, loader.Load(rootDict, nil))

	// Pages (object 2) should now be resolvable from cache without any
	// further stream I/O: fetch it again and confirm it is the Pages dict.
	pagesObj, err := x.Fetch(MakeReference(2, 0), false)
	require.NoError(t, err)
	pages, ok := GetDict(pagesObj)
	require.True(t, ok)
	typ, _ := GetNameVal(pages.Get("Type"))
	require.Equal(t, "Pages", typ)
}

func TestObjectLoaderSuspendsAndResumesOnMissingData(t *testing.T) {
	data, xrefOffset := buildClassicXRefDoc(t)
	chunked := NewFixedChunkedStream(data)
	// Load only the xref/trailer tail so XRef.Parse succeeds,
	// but withhold the object bodies until the requester fills them in.
	chunked.LoadRange(xrefOffset, int64(len(data)))

	x := NewXRef(chunked)
	x.SetStartXRef(xrefOffset)
	// The Catalog object's bytes aren't loaded yet, so resolving /Root during
	// Parse must raise MissingDataError through the synchronous path.
	err := x.Parse(false)
	_, isMissing := AsMissingData(err)
	require.True(t, isMissing, "expected MissingDataError, got %v", err)

	// Now load everything and retry via the suspend/resume contract.
	chunked.LoadRange(0, int64(len(data)))
	x2 := NewXRef(chunked)
	x2.SetStartXRef(xrefOffset)
	require.NoError(t, x2.Parse(false))

	rootObj, err := TraceToDirectObject(x2.GetCatalogObj(), x2)
	require.NoError(t, err)
	rootDict, ok := GetDict(rootObj)
	require.True(t, ok)

	loader := NewObjectLoader(x2, chunked)
	require.NoError(t, loader.Load(rootDict, nil))
}
