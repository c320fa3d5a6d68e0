/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

// xrefStreamState is the resumable progress of an xref-stream read. The
// entry decode itself runs over the stream's
// already-materialized body and cannot suspend, but parsing the enclosing
// "N G obj ... endstream" can; streamPos records how far the decode got so
// a retried call never rewrites entries it already handled.
type xrefStreamState struct {
	offset     int64
	subsection int
	entryIdx   int64
	streamPos  int
}

// processXRefStream reads a cross-reference stream at p's current position
// (an "N G obj << ... >> stream ... endstream endobj" whose dict carries W
// and, usually, Index). The stream's own dict doubles as the trailer (it
// carries Size/Root/Prev/Encrypt/ID directly).
func (x *XRef) processXRefStream(p *Parser, offset int64) (*PdfObjectDictionary, error) {
	st := x.streamState
	if st == nil || st.offset != offset {
		st = &xrefStreamState{offset: offset}
		x.streamState = st
	}

	ind, err := p.ParseIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := GetStream(ind.PdfObject)
	if !ok {
		x.streamState = nil
		return nil, NewXRefParseError("expected a stream object for xref stream")
	}
	dict := stream.PdfObjectDictionary

	wArr, ok := GetArray(dict.Get("W"))
	if !ok || wArr.Len() != 3 {
		x.streamState = nil
		return nil, NewFormatError("xref stream missing valid /W")
	}
	w0, _ := GetIntVal(wArr.Get(0))
	w1, _ := GetIntVal(wArr.Get(1))
	w2, _ := GetIntVal(wArr.Get(2))

	type subsection struct{ first, count int64 }
	var subsections []subsection
	if idxArr, ok := GetArray(dict.Get("Index")); ok {
		for i := 0; i+1 < idxArr.Len(); i += 2 {
			first, _ := GetIntVal(idxArr.Get(i))
			count, _ := GetIntVal(idxArr.Get(i + 1))
			subsections = append(subsections, subsection{int64(first), int64(count)})
		}
	} else {
		size, _ := GetIntVal(dict.Get("Size"))
		subsections = []subsection{{0, int64(size)}}
	}

	readField := func(data []byte, pos, width int) (int64, int) {
		if width == 0 {
			return 0, pos
		}
		var v int64
		for i := 0; i < width; i++ {
			v = v<<8 | int64(data[pos+i])
		}
		return v, pos + width
	}

	data := stream.Stream
	entryWidth := w0 + w1 + w2
	for si := st.subsection; si < len(subsections); si++ {
		sub := subsections[si]
		for i := st.entryIdx; i < sub.count; i++ {
			// Checkpoint before each entry.
			st.subsection, st.entryIdx = si, i
			if st.streamPos+entryWidth > len(data) {
				x.streamState = nil
				return nil, NewFormatError("xref stream truncated")
			}
			var typ int64 = 1
			var f0, f1 int
			if w0 > 0 {
				typ, f0 = readField(data, st.streamPos, w0)
			} else {
				f0 = st.streamPos
			}
			field1, f1 := readField(data, f0, w1)
			field2, _ := readField(data, f1, w2)
			st.streamPos += entryWidth

			objNum := sub.first + i
			if _, has := x.entries[objNum]; has {
				continue // first-writer-wins
			}
			switch typ {
			case 0:
				x.entries[objNum] = &XRefEntry{XType: XRefTypeFree, ObjectNumber: objNum, Generation: field2}
			case 1:
				x.entries[objNum] = &XRefEntry{XType: XRefTypeUncompressed, ObjectNumber: objNum, Generation: field2, Offset: field1}
			case 2:
				x.entries[objNum] = &XRefEntry{XType: XRefTypeCompressed, ObjectNumber: objNum, Offset: field1, Index: field2}
			default:
				x.streamState = nil
				return nil, NewFormatError("unknown xref stream entry type %d", typ)
			}
		}
		st.entryIdx = 0
	}

	x.streamState = nil
	return dict, nil
}
