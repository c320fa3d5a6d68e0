/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Outline (bookmark) parsing: the First/Next sibling chain is walked with
// an explicit visited set, since corrupt files can link the chain back on
// itself. The result is a plain slice tree (OutlineItem.Items); nothing
// downstream needs in-place mutation.
package model

import (
	"github.com/pdfxref/pdfxref/common"
	"github.com/pdfxref/pdfxref/core"
)

// Outline item flag bits: bit 1 italic, bit 2 bold.
const (
	OutlineFlagItalic = 1 << 0
	OutlineFlagBold   = 1 << 1
)

// OutlineItem is one node of the document outline (bookmarks) tree.
type OutlineItem struct {
	Title    string
	Color    [3]float64 // RGB in [0,1]; default black
	HasColor bool       // true when Color != {0,0,0}
	Count    int64
	HasCount bool
	Flags    int64
	Dest     *NormalizedAction
	Items    []*OutlineItem
}

// ReadDocumentOutline walks the doubly-linked First/Next sibling chain
// from root (the resolved /Outlines dictionary), using an explicit
// visited set for cycle protection. Returns nil if the outline is empty.
func ReadDocumentOutline(root *core.PdfObjectDictionary, xref core.Resolver, docBaseURL string) ([]*OutlineItem, error) {
	if root == nil {
		return nil, nil
	}
	visited := map[*core.PdfObjectDictionary]bool{}
	firstObj := root.Get("First")
	if firstObj == nil {
		return nil, nil
	}
	return readOutlineSiblings(firstObj, xref, docBaseURL, visited)
}

func readOutlineSiblings(firstObj core.PdfObject, xref core.Resolver, docBaseURL string, visited map[*core.PdfObjectDictionary]bool) ([]*OutlineItem, error) {
	var items []*OutlineItem
	next := firstObj
	for next != nil {
		direct, err := core.TraceToDirectObject(next, xref)
		if err != nil {
			return nil, err
		}
		dict, ok := core.GetDict(direct)
		if !ok {
			break
		}
		if visited[dict] {
			common.Log.Debug("outline: cycle detected, stopping traversal")
			break
		}
		visited[dict] = true

		item, err := readOutlineItem(dict, xref, docBaseURL, visited)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		next = dict.Get("Next")
	}
	return items, nil
}

func readOutlineItem(dict *core.PdfObjectDictionary, xref core.Resolver, docBaseURL string, visited map[*core.PdfObjectDictionary]bool) (*OutlineItem, error) {
	title, ok := core.GetStringVal(dict.Get("Title"))
	if !ok {
		return nil, core.NewFormatError("outline item missing required /Title")
	}
	item := &OutlineItem{Title: title}

	if c, ok := core.GetIntVal(dict.Get("Count")); ok {
		item.Count = int64(c)
		item.HasCount = true
	}

	if colorArr, ok := core.GetArray(dict.Get("C")); ok && colorArr.Len() == 3 {
		var rgb [3]float64
		nonBlack := false
		for i := 0; i < 3; i++ {
			v, err := core.GetNumberAsFloat(colorArr.Get(i))
			if err != nil {
				v = 0
			}
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			rgb[i] = v
			if v != 0 {
				nonBlack = true
			}
		}
		item.Color = rgb
		item.HasColor = nonBlack
	}

	if f, ok := core.GetIntVal(dict.Get("F")); ok {
		item.Flags = int64(f)
	}

	item.Dest = ParseDestDictionary(dict, xref, docBaseURL)

	if firstObj := dict.Get("First"); firstObj != nil {
		children, err := readOutlineSiblings(firstObj, xref, docBaseURL, visited)
		if err != nil {
			common.Log.Debug("outline: could not build children for %q: %v", title, err)
		} else {
			item.Items = children
		}
	}

	return item, nil
}

// IsItalic reports whether the item's flags carry the italic bit.
func (i *OutlineItem) IsItalic() bool { return i.Flags&OutlineFlagItalic != 0 }

// IsBold reports whether the item's flags carry the bold bit.
func (i *OutlineItem) IsBold() bool { return i.Flags&OutlineFlagBold != 0 }
