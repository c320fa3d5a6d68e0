/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseObjectNumbers(t *testing.T) {
	p := NewParserFromBytes([]byte("  123  "))
	obj, err := p.ParseObject()
	require.NoError(t, err)
	i, ok := GetIntVal(obj)
	require.True(t, ok)
	require.Equal(t, 123, i)

	p = NewParserFromBytes([]byte("-3.14"))
	obj, err = p.ParseObject()
	require.NoError(t, err)
	f, err := GetNumberAsFloat(obj)
	require.NoError(t, err)
	require.InDelta(t, -3.14, f, 0.0001)
}

func TestParseObjectReference(t *testing.T) {
	p := NewParserFromBytes([]byte("12 0 R"))
	obj, err := p.ParseObject()
	require.NoError(t, err)
	ref, ok := obj.(*PdfObjectReference)
	require.True(t, ok)
	require.EqualValues(t, 12, ref.ObjectNumber)
	require.EqualValues(t, 0, ref.Generation)
}

func TestParseObjectAmbiguousTwoNumbersNotReference(t *testing.T) {
	// "12 0" followed by something that isn't R or obj: must be parsed back
	// to just the first integer, leaving the stream positioned for the
	// second token to be read independently.
	p := NewParserFromBytes([]byte("12 0 ]"))
	obj, err := p.ParseObject()
	require.NoError(t, err)
	i, ok := GetIntVal(obj)
	require.True(t, ok)
	require.Equal(t, 12, i)

	tok, err := p.readRawToken()
	require.NoError(t, err)
	require.Equal(t, "0", tok)
}

func TestParseName(t *testing.T) {
	cases := map[string]string{
		"/Name1":         "Name1",
		"/Lime#20Green":  "Lime Green",
		"/A#42":          "AB",
		"/paired#28#29x": "paired()x",
	}
	for in, want := range cases {
		p := NewParserFromBytes([]byte(in))
		obj, err := p.ParseObject()
		require.NoError(t, err)
		name, ok := GetNameVal(obj)
		require.True(t, ok)
		require.Equal(t, want, name)
	}
}

func TestParseLiteralString(t *testing.T) {
	p := NewParserFromBytes([]byte(`(It's a \(test\) string\n)`))
	obj, err := p.ParseObject()
	require.NoError(t, err)
	s, ok := GetStringVal(obj)
	require.True(t, ok)
	require.Equal(t, "It's a (test) string\n", s)
}

func TestParseArray(t *testing.T) {
	p := NewParserFromBytes([]byte("[1 2 /Foo (bar)]"))
	obj, err := p.ParseObject()
	require.NoError(t, err)
	arr, ok := GetArray(obj)
	require.True(t, ok)
	require.Equal(t, 4, arr.Len())
	i, _ := GetIntVal(arr.Get(0))
	require.Equal(t, 1, i)
	name, _ := GetNameVal(arr.Get(2))
	require.Equal(t, "Foo", name)
}

func TestParseDictionary(t *testing.T) {
	p := NewParserFromBytes([]byte("<< /Type /Catalog /Count 3 >>"))
	obj, err := p.ParseObject()
	require.NoError(t, err)
	dict, ok := GetDict(obj)
	require.True(t, ok)
	typ, ok := GetNameVal(dict.Get("Type"))
	require.True(t, ok)
	require.Equal(t, "Catalog", typ)
	count, ok := GetIntVal(dict.Get("Count"))
	require.True(t, ok)
	require.Equal(t, 3, count)
}

func TestParseStream(t *testing.T) {
	body := "<< /Length 5 >>\nstream\nhello\nendstream"
	p := NewParserFromBytes([]byte(body))
	obj, err := p.ParseObject()
	require.NoError(t, err)
	stream, ok := GetStream(obj)
	require.True(t, ok)
	require.Equal(t, "hello", string(stream.Stream))
}

func TestParseKeywords(t *testing.T) {
	p := NewParserFromBytes([]byte("true"))
	obj, err := p.ParseObject()
	require.NoError(t, err)
	b, ok := GetBoolVal(obj)
	require.True(t, ok)
	require.True(t, b)

	p = NewParserFromBytes([]byte("null"))
	obj, err = p.ParseObject()
	require.NoError(t, err)
	_, isNull := obj.(*PdfObjectNull)
	require.True(t, isNull)
}

func TestParseIndirectObject(t *testing.T) {
	p := NewParserFromBytes([]byte("7 0 obj\n<< /Type /Page >>\nendobj"))
	ind, err := p.ParseIndirectObject()
	require.NoError(t, err)
	dict, ok := GetDict(ind.PdfObject)
	require.True(t, ok)
	typ, _ := GetNameVal(dict.Get("Type"))
	require.Equal(t, "Page", typ)
	require.Equal(t, "7 0", dict.ObjId())
}
