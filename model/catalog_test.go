/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdfxref/pdfxref/core"
)

// buildCatalogDoc assembles a complete in-memory PDF exercising the page
// tree (one intermediate node plus a direct leaf), named and legacy
// destinations, page labels, an OpenAction, and a metadata stream.
func buildCatalogDoc(t *testing.T) *core.XRef {
	t.Helper()
	var buf []byte
	offsets := map[int]int64{}
	write := func(s string) { buf = append(buf, []byte(s)...) }
	obj := func(num int, body string) {
		offsets[num] = int64(len(buf))
		write(fmt.Sprintf("%d 0 obj\n%s\nendobj\n", num, body))
	}

	xmpBody := `<x:xmpmeta xmlns:x="adobe:ns:meta/"></x:xmpmeta>`

	write("%PDF-1.7\n")
	obj(1, `<< /Type /Catalog /Pages 2 0 R /PageMode /UseOutlines`+
		` /PageLabels << /Nums [0 << /S /r /P (A-) >>] >>`+
		` /Names << /Dests << /Names [(target) 8 0 R] >> >>`+
		` /Dests 9 0 R`+
		` /OpenAction << /S /Named /N /Print >>`+
		` /Metadata 10 0 R >>`)
	obj(2, "<< /Type /Pages /Kids [7 0 R 5 0 R] /Count 3 >>")
	obj(3, "<< /Type /Page /Parent 7 0 R >>")
	obj(4, "<< /Type /Page /Parent 7 0 R >>")
	obj(5, "<< /Type /Page /Parent 2 0 R >>")
	obj(7, "<< /Type /Pages /Parent 2 0 R /Kids [3 0 R 4 0 R] /Count 2 >>")
	obj(8, "<< /D [3 0 R /Fit] >>")
	obj(9, "<< /legacy [5 0 R /Fit] >>")

	offsets[10] = int64(len(buf))
	write(fmt.Sprintf("10 0 obj\n<< /Type /Metadata /Subtype /XML /Length %d >>\nstream\n", len(xmpBody)))
	write(xmpBody)
	write("\nendstream\nendobj\n")

	maxObj := 10
	xrefOffset := int64(len(buf))
	write("xref\n")
	write(fmt.Sprintf("0 %d\n", maxObj+1))
	write("0000000000 65535 f \n")
	for i := 1; i <= maxObj; i++ {
		off, ok := offsets[i]
		if !ok {
			write("0000000000 65535 f \n")
			continue
		}
		write(fmt.Sprintf("%010d %05d n \n", off, 0))
	}
	write(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\n", maxObj+1))
	write(fmt.Sprintf("startxref\n%d\n%%%%EOF", xrefOffset))

	x := core.NewXRef(core.NewMemStream(buf))
	x.SetStartXRef(xrefOffset)
	require.NoError(t, x.Parse(false))
	return x
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(buildCatalogDoc(t), "http://host/")
	require.NoError(t, err)
	return c
}

func TestCatalogNumPagesAndModes(t *testing.T) {
	c := newTestCatalog(t)

	n, err := c.NumPages()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	require.Equal(t, "UseOutlines", c.PageMode())
	require.Equal(t, "", c.PageLayout())
}

func TestCatalogGetPageDictWalksTreeInOrder(t *testing.T) {
	c := newTestCatalog(t)

	wantRefs := []int64{3, 4, 5}
	for i, want := range wantRefs {
		dict, rawRef, err := c.GetPageDict(i)
		require.NoError(t, err, "page %d", i)
		typ, _ := core.GetNameVal(dict.Get("Type"))
		require.Equal(t, "Page", typ)
		ref, ok := rawRef.(*core.PdfObjectReference)
		require.True(t, ok)
		require.Equal(t, want, ref.ObjectNumber)
	}

	_, _, err := c.GetPageDict(3)
	require.Error(t, err)
}

func TestCatalogGetPageDictUsesKidsCountCache(t *testing.T) {
	c := newTestCatalog(t)

	// First walk populates the kids-count cache; the second must return the
	// same leaf (with the intermediate subtree skipped via the cache).
	first, _, err := c.GetPageDict(2)
	require.NoError(t, err)
	second, _, err := c.GetPageDict(2)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestCatalogGetPageIndexInvertsGetPageDict(t *testing.T) {
	c := newTestCatalog(t)

	n, err := c.NumPages()
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		_, rawRef, err := c.GetPageDict(i)
		require.NoError(t, err)
		ref, ok := rawRef.(*core.PdfObjectReference)
		require.True(t, ok)
		idx, err := c.GetPageIndex(ref)
		require.NoError(t, err)
		require.Equal(t, i, idx)
	}
}

func TestCatalogDestinationsMergesBothSources(t *testing.T) {
	c := newTestCatalog(t)

	dests, err := c.Destinations()
	require.NoError(t, err)
	require.Contains(t, dests, "target")
	require.Contains(t, dests, "legacy")

	// The "target" value is a dict with /D: fetchDestination unwraps it to
	// the array.
	arr, ok := core.GetArray(dests["target"])
	require.True(t, ok)
	require.Equal(t, 2, arr.Len())
}

func TestCatalogGetDestinationSingleLookup(t *testing.T) {
	c := newTestCatalog(t)

	v, found, err := c.GetDestination("target")
	require.NoError(t, err)
	require.True(t, found)
	_, ok := core.GetArray(v)
	require.True(t, ok)

	_, found, err = c.GetDestination("nope")
	require.NoError(t, err)
	require.False(t, found)
}

func TestCatalogPageLabels(t *testing.T) {
	c := newTestCatalog(t)

	labels, err := c.PageLabels()
	require.NoError(t, err)
	require.Equal(t, []string{"A-i", "A-ii", "A-iii"}, labels)
}

func TestCatalogJavaScriptIncludesNamedPrint(t *testing.T) {
	c := newTestCatalog(t)

	scripts, err := c.JavaScript()
	require.NoError(t, err)
	require.Contains(t, scripts, "print({});")
}

func TestCatalogOpenActionNamed(t *testing.T) {
	c := newTestCatalog(t)

	oa, err := c.OpenActionDestination()
	require.NoError(t, err)
	require.NotNil(t, oa)
	require.Equal(t, "Print", oa.Action)
}

func TestCatalogPermissionsNilWithoutEncrypt(t *testing.T) {
	c := newTestCatalog(t)

	perms, err := c.Permissions()
	require.NoError(t, err)
	require.Nil(t, perms)
}

func TestCatalogViewerPreferencesDefaultsWithoutDict(t *testing.T) {
	c := newTestCatalog(t)

	vp, err := c.ViewerPreferences()
	require.NoError(t, err)
	require.Equal(t, "UseNone", vp.NonFullScreenPageMode)
	require.Equal(t, "L2R", vp.Direction)
}

func TestCatalogMetadataRawText(t *testing.T) {
	c := newTestCatalog(t)

	md, err := c.Metadata()
	require.NoError(t, err)
	require.NotNil(t, md)
	require.Contains(t, md.Raw, "x:xmpmeta")
}

func TestCatalogDocumentOutlineAbsentIsNil(t *testing.T) {
	c := newTestCatalog(t)

	items, err := c.DocumentOutline()
	require.NoError(t, err)
	require.Nil(t, items)
}

type stubFont struct {
	name     string
	fellBack bool
}

func (f *stubFont) LoadedName() string           { return f.name }
func (f *stubFont) Fallback(handler interface{}) { f.fellBack = true }

func TestCatalogFontFallbackHitsCachedFont(t *testing.T) {
	c := newTestCatalog(t)

	font := &stubFont{name: "g_d0_f1"}
	c.CacheFont(core.MakeReference(20, 0), font)

	require.True(t, c.FontFallback("g_d0_f1", nil))
	require.True(t, font.fellBack)
	require.False(t, c.FontFallback("unknown", nil))

	c.Cleanup()
	require.False(t, c.FontFallback("g_d0_f1", nil))
}

func TestCatalogCleanupKeepsCorrectness(t *testing.T) {
	c := newTestCatalog(t)

	first, _, err := c.GetPageDict(1)
	require.NoError(t, err)
	c.Cleanup()
	second, _, err := c.GetPageDict(1)
	require.NoError(t, err)
	require.Same(t, first, second)
}
