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

func TestParseDestDictionaryGoTo(t *testing.T) {
	action := core.MakeDict()
	action.Set("S", core.MakeName("GoTo"))
	action.Set("D", core.MakeString("chapter1"))

	dict := core.MakeDict()
	dict.Set("A", action)

	result := ParseDestDictionary(dict, newStubResolver(), "")
	require.NotNil(t, result.Dest)
	s, ok := core.GetStringVal(result.Dest)
	require.True(t, ok)
	require.Equal(t, "chapter1", s)
}

func TestParseDestDictionaryBareDest(t *testing.T) {
	dict := core.MakeDict()
	dict.Set("Dest", core.MakeString("chapter2"))
	result := ParseDestDictionary(dict, newStubResolver(), "")
	s, ok := core.GetStringVal(result.Dest)
	require.True(t, ok)
	require.Equal(t, "chapter2", s)
}

func TestParseURIActionWithBaseURL(t *testing.T) {
	action := core.MakeDict()
	action.Set("S", core.MakeName("URI"))
	action.Set("URI", core.MakeString("/docs/readme"))

	dict := core.MakeDict()
	dict.Set("A", action)

	result := ParseDestDictionary(dict, newStubResolver(), "https://example.com/base/")
	require.Equal(t, "/docs/readme", result.UnsafeURL)
	require.Equal(t, "https://example.com/docs/readme", result.URL)
}

func TestParseURIActionWWWPrefix(t *testing.T) {
	action := core.MakeDict()
	action.Set("S", core.MakeName("URI"))
	action.Set("URI", core.MakeString("www.example.com"))

	dict := core.MakeDict()
	dict.Set("A", action)

	result := ParseDestDictionary(dict, newStubResolver(), "")
	require.Equal(t, "http://www.example.com", result.UnsafeURL)
}

func TestParseRemoteActionGoToR(t *testing.T) {
	action := core.MakeDict()
	action.Set("S", core.MakeName("GoToR"))
	action.Set("F", core.MakeString("other.pdf"))
	action.Set("D", core.MakeString("page3"))
	action.Set("NewWindow", core.MakeBool(true))

	dict := core.MakeDict()
	dict.Set("A", action)

	result := ParseDestDictionary(dict, newStubResolver(), "")
	require.Equal(t, "other.pdf#page3", result.UnsafeURL)
	require.True(t, result.HasNewWindow)
	require.True(t, result.NewWindow)
}

func TestParseRemoteActionGoToRWithBaseURL(t *testing.T) {
	fileSpec := core.MakeDict()
	fileSpec.Set("F", core.MakeString("manual.pdf"))

	action := core.MakeDict()
	action.Set("S", core.MakeName("GoToR"))
	action.Set("F", fileSpec)
	action.Set("D", core.MakeArray(core.MakeInteger(2), core.MakeName("Fit")))
	action.Set("NewWindow", core.MakeBool(true))

	dict := core.MakeDict()
	dict.Set("A", action)

	result := ParseDestDictionary(dict, newStubResolver(), "http://host/")
	require.Equal(t, `manual.pdf#[2,"Fit"]`, result.UnsafeURL)
	// The fragment must survive normalization literally, not
	// percent-encoded.
	require.Equal(t, `http://host/manual.pdf#[2,"Fit"]`, result.URL)
	require.True(t, result.HasNewWindow)
	require.True(t, result.NewWindow)
}

func TestParseNamedAction(t *testing.T) {
	action := core.MakeDict()
	action.Set("S", core.MakeName("Named"))
	action.Set("N", core.MakeName("NextPage"))

	dict := core.MakeDict()
	dict.Set("A", action)

	result := ParseDestDictionary(dict, newStubResolver(), "")
	require.Equal(t, "NextPage", result.Action)
}

func TestParseJavaScriptActionLaunchURL(t *testing.T) {
	action := core.MakeDict()
	action.Set("S", core.MakeName("JavaScript"))
	action.Set("JS", core.MakeString(`app.launchURL('https://example.com', true)`))

	dict := core.MakeDict()
	dict.Set("A", action)

	result := ParseDestDictionary(dict, newStubResolver(), "")
	require.Equal(t, "https://example.com", result.URL)
	require.True(t, result.NewWindow)
}

func TestParseDestArray(t *testing.T) {
	arr := core.MakeArray(core.MakeReference(9, 0), core.MakeName("Fit"))
	result := ParseDestArray(arr)
	gotArr, ok := core.GetArray(result.Dest)
	require.True(t, ok)
	require.Equal(t, 2, gotArr.Len())
}
