/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

// ObjectLoader preloads enough bytes of the underlying stream so a
// subgraph anchored at a dictionary's keys can be walked without further
// I/O. Missing ranges discovered during the walk are batched into one
// requester call, after which the affected nodes are revisited; a
// visited-refs set keeps cyclic graphs from recursing forever.
type ObjectLoader struct {
	xref      *XRef
	requester RangeRequester

	refSet         map[int64]bool
	nodesToRevisit []PdfObject
}

// NewObjectLoader creates an ObjectLoader bound to xref and the range
// requester used to fill in missing chunks.
func NewObjectLoader(xref *XRef, requester RangeRequester) *ObjectLoader {
	return &ObjectLoader{xref: xref, requester: requester, refSet: map[int64]bool{}}
}

// Load walks the subgraph reachable from dict's values at the given keys
// (or every value if keys is empty), fetching every object along the way
// (Fetch caches the non-stream ones). It returns once the whole reachable subgraph, bounded
// by refs already visited this call, has been materialized.
func (l *ObjectLoader) Load(dict *PdfObjectDictionary, keys []PdfObjectName) error {
	var stack []PdfObject
	if len(keys) == 0 {
		for _, k := range dict.Keys() {
			stack = append(stack, dict.Get(k))
		}
	} else {
		for _, k := range keys {
			if v := dict.Get(k); v != nil {
				stack = append(stack, v)
			}
		}
	}
	return l.walk(stack)
}

func (l *ObjectLoader) walk(stack []PdfObject) error {
	var pending []ByteRange

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if ref, isRef := node.(*PdfObjectReference); isRef {
			if l.refSet[ref.ObjectNumber] {
				continue
			}
			l.refSet[ref.ObjectNumber] = true
			resolved, err := l.xref.Fetch(ref, false)
			if err != nil {
				if md, isMissing := AsMissingData(err); isMissing {
					l.nodesToRevisit = append(l.nodesToRevisit, node)
					pending = append(pending, ByteRange{md.Begin, md.End})
					continue
				}
				return err
			}
			node = resolved
		}

		if cs, ok := l.xref.stream.(ChunkedStream); ok {
			if s, isStream := node.(*PdfObjectStream); isStream {
				gaps := cs.MissingChunks(0, int64(len(s.Stream)))
				if len(gaps) > 0 {
					pending = append(pending, gaps...)
					l.nodesToRevisit = append(l.nodesToRevisit, node)
				}
			}
		}

		stack = append(stack, addChildren(node)...)
	}

	if len(pending) > 0 {
		if err := l.requester.RequestRanges(pending); err != nil {
			return err
		}
		for _, n := range l.nodesToRevisit {
			if ref, isRef := n.(*PdfObjectReference); isRef {
				delete(l.refSet, ref.ObjectNumber)
			}
		}
		revisit := l.nodesToRevisit
		l.nodesToRevisit = nil
		return l.walk(revisit)
	}

	l.refSet = map[int64]bool{}
	return nil
}

// mayHaveChildren reports whether v is one of {Ref, Dict, Array, Stream}.
func mayHaveChildren(v PdfObject) bool {
	switch v.(type) {
	case *PdfObjectReference, *PdfObjectDictionary, *PdfObjectArray, *PdfObjectStream:
		return true
	}
	return false
}

// addChildren enumerates a node's immediate children: dict values (raw,
// unresolved), array elements, and (for streams) the stream dict's
// values.
func addChildren(node PdfObject) []PdfObject {
	var children []PdfObject
	switch t := node.(type) {
	case *PdfObjectDictionary:
		for _, k := range t.Keys() {
			if v := t.Get(k); mayHaveChildren(v) {
				children = append(children, v)
			}
		}
	case *PdfObjectArray:
		for _, v := range t.Elements() {
			if mayHaveChildren(v) {
				children = append(children, v)
			}
		}
	case *PdfObjectStream:
		for _, k := range t.Keys() {
			if v := t.Get(k); mayHaveChildren(v) {
				children = append(children, v)
			}
		}
	}
	return children
}
