/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildXRefStreamDoc assembles a PDF whose cross-reference data lives in an
// xref stream with W [1 2 1] and Index [0 3]: entry 0 free, entry 1
// uncompressed at the catalog's offset, entry 2 compressed in object stream
// 5 at member index 1.
func buildXRefStreamDoc(t *testing.T) ([]byte, int64, int64) {
	t.Helper()
	var buf []byte
	write := func(s string) { buf = append(buf, []byte(s)...) }

	write("%PDF-1.5\n")
	catalogOffset := int64(len(buf))
	write("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	xrefOffset := int64(len(buf))
	body := []byte{
		0x00, 0x00, 0x00, 0x00,
		0x01, byte(catalogOffset >> 8), byte(catalogOffset), 0x00,
		0x02, 0x00, 0x05, 0x01,
	}
	write(fmt.Sprintf("6 0 obj\n<< /Type /XRef /W [1 2 1] /Index [0 3] /Size 3 /Root 1 0 R /Length %d >>\nstream\n", len(body)))
	buf = append(buf, body...)
	write("\nendstream\nendobj\n")
	write(fmt.Sprintf("startxref\n%d\n%%%%EOF", xrefOffset))

	return buf, xrefOffset, catalogOffset
}

func TestXRefStreamDecodesAllEntryTypes(t *testing.T) {
	data, xrefOffset, catalogOffset := buildXRefStreamDoc(t)
	x := NewXRef(NewMemStream(data))
	x.SetStartXRef(xrefOffset)
	require.NoError(t, x.Parse(false))

	require.Equal(t, XRefTypeFree, x.entries[0].XType)

	require.Equal(t, XRefTypeUncompressed, x.entries[1].XType)
	require.Equal(t, catalogOffset, x.entries[1].Offset)
	require.Equal(t, int64(0), x.entries[1].Generation)

	require.Equal(t, XRefTypeCompressed, x.entries[2].XType)
	require.Equal(t, int64(5), x.entries[2].Offset) // object stream number
	require.Equal(t, int64(1), x.entries[2].Index)

	root, err := TraceToDirectObject(x.GetCatalogObj(), x)
	require.NoError(t, err)
	dict, ok := GetDict(root)
	require.True(t, ok)
	typ, _ := GetNameVal(dict.Get("Type"))
	require.Equal(t, "Catalog", typ)
}

// buildObjStmDoc assembles a document where objects 2 and 8 live compressed
// inside object stream 5. Entry injection stands in for an xref stream so
// the test isolates fetchCompressed.
func buildObjStmDoc(t *testing.T) *XRef {
	t.Helper()
	header := "2 0 8 11 "
	members := "<< /X 1 >> << /Y 2 >>"
	content := header + members

	var buf []byte
	write := func(s string) { buf = append(buf, []byte(s)...) }
	write("%PDF-1.5\n")
	objStmOffset := int64(len(buf))
	write(fmt.Sprintf("5 0 obj\n<< /Type /ObjStm /N 2 /First %d /Length %d >>\nstream\n", len(header), len(content)))
	write(content)
	write("\nendstream\nendobj\n")

	x := NewXRef(NewMemStream(buf))
	x.entries[5] = &XRefEntry{XType: XRefTypeUncompressed, ObjectNumber: 5, Offset: objStmOffset}
	x.entries[2] = &XRefEntry{XType: XRefTypeCompressed, ObjectNumber: 2, Offset: 5, Index: 0}
	x.entries[8] = &XRefEntry{XType: XRefTypeCompressed, ObjectNumber: 8, Offset: 5, Index: 1}
	return x
}

func TestFetchCompressedResolvesMembers(t *testing.T) {
	x := buildObjStmDoc(t)

	obj2, err := x.Fetch(MakeReference(2, 0), false)
	require.NoError(t, err)
	d2, ok := GetDict(obj2)
	require.True(t, ok)
	xv, _ := GetIntVal(d2.Get("X"))
	require.Equal(t, 1, xv)

	obj8, err := x.Fetch(MakeReference(8, 0), false)
	require.NoError(t, err)
	d8, ok := GetDict(obj8)
	require.True(t, ok)
	yv, _ := GetIntVal(d8.Get("Y"))
	require.Equal(t, 2, yv)
}

func TestFetchCompressedPopulatesSiblingCache(t *testing.T) {
	x := buildObjStmDoc(t)

	_, err := x.Fetch(MakeReference(2, 0), false)
	require.NoError(t, err)

	// Fetching member 0 should have cached member 1 too (same container,
	// matching index), per the XRef-wins rule.
	_, cached := x.cache[8]
	require.True(t, cached)
}

func TestFetchCompressedGenerationIsZero(t *testing.T) {
	x := buildObjStmDoc(t)
	obj, err := x.Fetch(MakeReference(2, 0), false)
	require.NoError(t, err)
	require.NotNil(t, obj)
}
