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

func labelEntry(style, prefix string, st int) *core.PdfObjectDictionary {
	d := core.MakeDict()
	if style != "" {
		d.Set("S", core.MakeName(style))
	}
	if prefix != "" {
		d.Set("P", core.MakeString(prefix))
	}
	if st > 0 {
		d.Set("St", core.MakeInteger(int64(st)))
	}
	return d
}

func TestReadPageLabelsRomanThenDecimal(t *testing.T) {
	root := core.MakeDict()
	root.Set("Nums", core.MakeArray(
		core.MakeInteger(0), labelEntry("r", "A-", 0),
		core.MakeInteger(3), labelEntry("D", "", 1),
	))

	labels, err := ReadPageLabels(root, 5, newStubResolver())
	require.NoError(t, err)
	require.Equal(t, []string{"A-i", "A-ii", "A-iii", "1", "2"}, labels)
}

func TestReadPageLabelsAlphaRepeats(t *testing.T) {
	root := core.MakeDict()
	root.Set("Nums", core.MakeArray(core.MakeInteger(0), labelEntry("a", "", 26)))

	labels, err := ReadPageLabels(root, 3, newStubResolver())
	require.NoError(t, err)
	// Index 26 is "z"; 27 wraps to a doubled first letter.
	require.Equal(t, []string{"z", "aa", "bb"}, labels)
}

func TestReadPageLabelsMissingStyleIsPrefixOnly(t *testing.T) {
	root := core.MakeDict()
	root.Set("Nums", core.MakeArray(core.MakeInteger(0), labelEntry("", "Cover ", 0)))

	labels, err := ReadPageLabels(root, 2, newStubResolver())
	require.NoError(t, err)
	require.Equal(t, []string{"Cover ", "Cover "}, labels)
}

func TestReadPageLabelsRegenerationIsDeterministic(t *testing.T) {
	root := core.MakeDict()
	root.Set("Nums", core.MakeArray(
		core.MakeInteger(0), labelEntry("R", "", 48),
	))

	first, err := ReadPageLabels(root, 4, newStubResolver())
	require.NoError(t, err)
	second, err := ReadPageLabels(root, 4, newStubResolver())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, "XLVIII", first[0])
}
