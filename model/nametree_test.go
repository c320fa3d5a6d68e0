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

func namesLeaf(pairs ...core.PdfObject) *core.PdfObjectDictionary {
	d := core.MakeDict()
	d.Set("Names", core.MakeArray(pairs...))
	return d
}

func TestNameTreeFlatLeaf(t *testing.T) {
	root := namesLeaf(
		core.MakeString("alpha"), core.MakeInteger(1),
		core.MakeString("beta"), core.MakeInteger(2),
		core.MakeString("gamma"), core.MakeInteger(3),
	)
	tree := NewNameTree(root, newStubResolver())

	v, found := tree.Get("beta")
	require.True(t, found)
	i, _ := core.GetIntVal(v)
	require.Equal(t, 2, i)

	_, found = tree.Get("missing")
	require.False(t, found)
}

func TestNameTreeKidsWithLimits(t *testing.T) {
	leafA := namesLeaf(core.MakeString("a"), core.MakeInteger(1), core.MakeString("b"), core.MakeInteger(2))
	leafA.Set("Limits", core.MakeArray(core.MakeString("a"), core.MakeString("b")))
	leafB := namesLeaf(core.MakeString("y"), core.MakeInteger(3), core.MakeString("z"), core.MakeInteger(4))
	leafB.Set("Limits", core.MakeArray(core.MakeString("y"), core.MakeString("z")))

	root := core.MakeDict()
	root.Set("Kids", core.MakeArray(leafA, leafB))

	tree := NewNameTree(root, newStubResolver())
	v, found := tree.Get("z")
	require.True(t, found)
	i, _ := core.GetIntVal(v)
	require.Equal(t, 4, i)
}

func TestNameTreeOutOfOrderLeafFallsBackToLinearScan(t *testing.T) {
	// Keys are out of sorted order: binary search misses "a"; the linear
	// fallback must still find it.
	root := namesLeaf(
		core.MakeString("b"), core.MakeInteger(1),
		core.MakeString("a"), core.MakeInteger(2),
	)
	tree := NewNameTree(root, newStubResolver())
	v, found := tree.Get("a")
	require.True(t, found)
	i, _ := core.GetIntVal(v)
	require.Equal(t, 2, i)
}

func TestNameTreeGetMatchesGetAll(t *testing.T) {
	root := namesLeaf(
		core.MakeString("one"), core.MakeInteger(1),
		core.MakeString("three"), core.MakeInteger(3),
		core.MakeString("two"), core.MakeInteger(2),
	)
	tree := NewNameTree(root, newStubResolver())

	all, err := tree.GetAll()
	require.NoError(t, err)
	for k, want := range all {
		got, found := tree.Get(k)
		require.True(t, found, k)
		require.Equal(t, want, got)
	}
}

func TestNameTreeGetAllDetectsCycle(t *testing.T) {
	root := core.MakeDict()
	root.Set("Kids", core.MakeArray(root)) // self-referential
	tree := NewNameTree(root, newStubResolver())
	_, err := tree.GetAll()
	require.Error(t, err)
	require.True(t, core.IsFormatError(err))
}

func TestNumberTreeLimitsDescent(t *testing.T) {
	leafA := core.MakeDict()
	leafA.Set("Nums", core.MakeArray(core.MakeInteger(0), core.MakeString("i"), core.MakeInteger(2), core.MakeString("iii")))
	leafA.Set("Limits", core.MakeArray(core.MakeInteger(0), core.MakeInteger(2)))
	leafB := core.MakeDict()
	leafB.Set("Nums", core.MakeArray(core.MakeInteger(3), core.MakeString("1")))
	leafB.Set("Limits", core.MakeArray(core.MakeInteger(3), core.MakeInteger(3)))

	root := core.MakeDict()
	root.Set("Kids", core.MakeArray(leafA, leafB))

	tree := NewNumberTree(root, newStubResolver())
	v, found := tree.Get(3)
	require.True(t, found)
	s, _ := core.GetStringVal(v)
	require.Equal(t, "1", s)

	all, err := tree.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
}
