/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

// Name and number trees: the balanced keyed-map structure PDF uses for
// large lookup tables (named destinations, embedded files, page labels).
// Nodes carry either Kids (children, each bounded by Limits) or a leaf
// array of alternating key/value pairs.

import (
	"github.com/pdfxref/pdfxref/common"
	"github.com/pdfxref/pdfxref/core"
)

const treeMaxDepth = 10

// NameTree implements the PDF name-tree structure: a balanced tree whose
// nodes carry Kids (an array of child-node refs) or Limits+Names (a leaf,
// alternating name/value pairs).
type NameTree struct {
	xref core.Resolver
	root *core.PdfObjectDictionary
}

// NewNameTree wraps root (typically the value of a /Dests, /EmbeddedFiles,
// or /JavaScript key under /Names) as a NameTree.
func NewNameTree(root *core.PdfObjectDictionary, xref core.Resolver) *NameTree {
	return &NameTree{xref: xref, root: root}
}

// Get descends into the kids whose Limits bracket key, trying kids in
// array order (no binary search over kids). At a leaf it binary-searches
// the key/value pairs, falling back to a linear scan of that leaf if the
// binary search misses, which tolerates corrupt trees with out-of-order keys.
func (t *NameTree) Get(key string) (core.PdfObject, bool) {
	if t.root == nil {
		return nil, false
	}
	return t.get(t.root, key, 0)
}

func (t *NameTree) get(node *core.PdfObjectDictionary, key string, depth int) (core.PdfObject, bool) {
	if depth > treeMaxDepth {
		common.Log.Warning("name tree deeper than %d levels, treating %q as not found", treeMaxDepth, key)
		return nil, false
	}
	if kids, ok := core.GetArray(node.Get("Kids")); ok {
		for i := 0; i < kids.Len(); i++ {
			kidDict, ok := t.resolveDict(kids.Get(i))
			if !ok {
				continue
			}
			if limits, ok := core.GetArray(kidDict.Get("Limits")); ok && limits.Len() == 2 {
				lo, _ := core.GetStringVal(limits.Get(0))
				hi, _ := core.GetStringVal(limits.Get(1))
				if key < lo || key > hi {
					continue
				}
			}
			if v, found := t.get(kidDict, key, depth+1); found {
				return v, true
			}
		}
		return nil, false
	}

	names, ok := core.GetArray(node.Get("Names"))
	if !ok {
		return nil, false
	}
	if v, found := binarySearchLeaf(names, key); found {
		return v, true
	}
	// Fallback: linear scan tolerates out-of-order keys in corrupt files.
	for i := 0; i+1 < names.Len(); i += 2 {
		k, _ := core.GetStringVal(names.Get(i))
		if k == key {
			common.Log.Warning("name tree leaf is out of order; found %q by linear scan", key)
			return names.Get(i + 1), true
		}
	}
	return nil, false
}

func binarySearchLeaf(names *core.PdfObjectArray, key string) (core.PdfObject, bool) {
	n := names.Len() / 2
	lo, hi := 0, n-1
	for lo <= hi {
		mid := (lo + hi) / 2
		k, ok := core.GetStringVal(names.Get(mid * 2))
		if !ok {
			return nil, false
		}
		switch {
		case k == key:
			return names.Get(mid*2 + 1), true
		case k < key:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return nil, false
}

// GetAll performs a breadth-first enumeration of the whole tree,
// deduplicating kids via a visited-ref set; a duplicate kid aborts with a
// format error (corrupt, self-referential tree).
func (t *NameTree) GetAll() (map[string]core.PdfObject, error) {
	result := map[string]core.PdfObject{}
	if t.root == nil {
		return result, nil
	}
	visited := map[*core.PdfObjectDictionary]bool{}
	queue := []*core.PdfObjectDictionary{t.root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if visited[node] {
			return nil, core.NewFormatError("name tree: duplicate node visited")
		}
		visited[node] = true

		if kids, ok := core.GetArray(node.Get("Kids")); ok {
			for i := 0; i < kids.Len(); i++ {
				if kidDict, ok := t.resolveDict(kids.Get(i)); ok {
					queue = append(queue, kidDict)
				}
			}
			continue
		}
		if names, ok := core.GetArray(node.Get("Names")); ok {
			for i := 0; i+1 < names.Len(); i += 2 {
				k, ok := core.GetStringVal(names.Get(i))
				if !ok {
					continue
				}
				result[k] = names.Get(i + 1)
			}
		}
	}
	return result, nil
}

func (t *NameTree) resolveDict(obj core.PdfObject) (*core.PdfObjectDictionary, bool) {
	direct, err := core.TraceToDirectObject(obj, t.xref)
	if err != nil {
		return nil, false
	}
	return core.GetDict(direct)
}

// NumberTree implements the PDF number-tree structure: identical to
// NameTree except leaf keys are integers (used by /PageLabels).
type NumberTree struct {
	xref core.Resolver
	root *core.PdfObjectDictionary
}

// NewNumberTree wraps root as a NumberTree.
func NewNumberTree(root *core.PdfObjectDictionary, xref core.Resolver) *NumberTree {
	return &NumberTree{xref: xref, root: root}
}

// Get performs the same Limits-guided descent as NameTree.Get, keyed by
// integer.
func (t *NumberTree) Get(key int64) (core.PdfObject, bool) {
	if t.root == nil {
		return nil, false
	}
	return t.get(t.root, key, 0)
}

func (t *NumberTree) get(node *core.PdfObjectDictionary, key int64, depth int) (core.PdfObject, bool) {
	if depth > treeMaxDepth {
		common.Log.Warning("number tree deeper than %d levels, treating %d as not found", treeMaxDepth, key)
		return nil, false
	}
	if kids, ok := core.GetArray(node.Get("Kids")); ok {
		for i := 0; i < kids.Len(); i++ {
			kidDict, ok := t.resolveDict(kids.Get(i))
			if !ok {
				continue
			}
			if limits, ok := core.GetArray(kidDict.Get("Limits")); ok && limits.Len() == 2 {
				lo, _ := core.GetIntVal(limits.Get(0))
				hi, _ := core.GetIntVal(limits.Get(1))
				if int(key) < lo || int(key) > hi {
					continue
				}
			}
			if v, found := t.get(kidDict, key, depth+1); found {
				return v, true
			}
		}
		return nil, false
	}

	nums, ok := core.GetArray(node.Get("Nums"))
	if !ok {
		return nil, false
	}
	if v, found := binarySearchNumLeaf(nums, key); found {
		return v, true
	}
	for i := 0; i+1 < nums.Len(); i += 2 {
		k, _ := core.GetIntVal(nums.Get(i))
		if int64(k) == key {
			common.Log.Warning("number tree leaf is out of order; found %d by linear scan", key)
			return nums.Get(i + 1), true
		}
	}
	return nil, false
}

func binarySearchNumLeaf(nums *core.PdfObjectArray, key int64) (core.PdfObject, bool) {
	n := nums.Len() / 2
	lo, hi := 0, n-1
	for lo <= hi {
		mid := (lo + hi) / 2
		k, ok := core.GetIntVal(nums.Get(mid * 2))
		if !ok {
			return nil, false
		}
		switch {
		case int64(k) == key:
			return nums.Get(mid*2 + 1), true
		case int64(k) < key:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return nil, false
}

// GetAll enumerates the whole number tree, breadth-first, deduplicating
// kids the same way NameTree.GetAll does.
func (t *NumberTree) GetAll() (map[int64]core.PdfObject, error) {
	result := map[int64]core.PdfObject{}
	if t.root == nil {
		return result, nil
	}
	visited := map[*core.PdfObjectDictionary]bool{}
	queue := []*core.PdfObjectDictionary{t.root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if visited[node] {
			return nil, core.NewFormatError("number tree: duplicate node visited")
		}
		visited[node] = true

		if kids, ok := core.GetArray(node.Get("Kids")); ok {
			for i := 0; i < kids.Len(); i++ {
				if kidDict, ok := t.resolveDict(kids.Get(i)); ok {
					queue = append(queue, kidDict)
				}
			}
			continue
		}
		if nums, ok := core.GetArray(node.Get("Nums")); ok {
			for i := 0; i+1 < nums.Len(); i += 2 {
				k, ok := core.GetIntVal(nums.Get(i))
				if !ok {
					continue
				}
				result[int64(k)] = nums.Get(i + 1)
			}
		}
	}
	return result, nil
}

func (t *NumberTree) resolveDict(obj core.PdfObject) (*core.PdfObjectDictionary, bool) {
	direct, err := core.TraceToDirectObject(obj, t.xref)
	if err != nil {
		return nil, false
	}
	return core.GetDict(direct)
}
