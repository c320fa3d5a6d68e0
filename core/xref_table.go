/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import "strconv"

// xrefTableState is the resumable progress of a classical-table read. It
// records the stream position just before the entry (or subsection header)
// being read, so a MissingDataError raised mid-subsection lets the retried
// call seek straight back and continue without duplicating work.
type xrefTableState struct {
	offset       int64 // the xref section this state belongs to
	pos          int64 // stream position to resume tokenizing from
	first        int64
	count        int64
	entryIdx     int64
	inSubsection bool
}

// processXRefTable reads one or more classical xref subsections starting
// right after the "xref" keyword p is positioned on, returning the
// trailer dictionary. It writes into x.entries only when a slot is not already
// allocated, so an earlier (more recent) xref section always wins over one
// reached later via a Prev chain.
func (x *XRef) processXRefTable(p *Parser, offset int64) (*PdfObjectDictionary, error) {
	st := x.tableState
	if st == nil || st.offset != offset {
		st = &xrefTableState{offset: offset}
		x.tableState = st
		p.readRawToken() // consume "xref"
		st.pos = p.Pos()
	} else if err := p.Seek(st.pos); err != nil {
		return nil, err
	}

	for {
		if !st.inSubsection {
			st.pos = p.Pos()
			save := p.Pos()
			tok, err := p.peekRawToken()
			if err != nil {
				return nil, err
			}
			if tok == "trailer" {
				p.readRawToken()
				obj, err := p.ParseObject()
				if err != nil {
					return nil, err
				}
				dict, ok := obj.(*PdfObjectDictionary)
				if !ok {
					return nil, NewFormatError("trailer is not a dictionary")
				}
				x.tableState = nil
				return dict, nil
			}
			if !isIntegerToken(tok) {
				// Not a subsection header and not "trailer": malformed table.
				p.stream.Seek(save, 0)
				x.tableState = nil
				return nil, NewXRefParseError("expected subsection header or trailer, got %q", tok)
			}

			firstTok, err := p.readRawToken()
			if err != nil {
				return nil, err
			}
			countTok, err := p.readRawToken()
			if err != nil {
				return nil, err
			}
			st.first, _ = strconv.ParseInt(firstTok, 10, 64)
			st.count, _ = strconv.ParseInt(countTok, 10, 64)
			st.entryIdx = 0
			st.inSubsection = true
		}

		for st.entryIdx < st.count {
			// Checkpoint before each entry so a suspended read resumes on
			// exactly this entry.
			st.pos = p.Pos()
			offTok, err := p.readRawToken()
			if err != nil {
				return nil, err
			}
			genTok, err := p.readRawToken()
			if err != nil {
				return nil, err
			}
			kindTok, err := p.readRawToken()
			if err != nil {
				return nil, err
			}

			// Repair: entry #0 must be free. A subsection
			// starting at 1 whose first entry is free is really the 0-based
			// table with an off-by-one first object number; shift the whole
			// subsection down.
			if st.entryIdx == 0 && st.first == 1 && kindTok == "f" {
				if _, hasZero := x.entries[0]; !hasZero {
					st.first = 0
				}
			}

			objNum := st.first + st.entryIdx
			st.entryIdx++
			if _, has := x.entries[objNum]; has {
				continue // first-writer-wins
			}
			entryOffset, _ := strconv.ParseInt(offTok, 10, 64)
			gen, _ := strconv.ParseInt(genTok, 10, 64)
			switch kindTok {
			case "f":
				x.entries[objNum] = &XRefEntry{XType: XRefTypeFree, ObjectNumber: objNum, Generation: gen}
			case "n":
				x.entries[objNum] = &XRefEntry{XType: XRefTypeUncompressed, ObjectNumber: objNum, Generation: gen, Offset: entryOffset}
			default:
				x.tableState = nil
				return nil, NewFormatError("unrecognized xref entry kind %q", kindTok)
			}
		}
		st.inSubsection = false
	}
}
