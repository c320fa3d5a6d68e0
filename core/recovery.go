/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Routines for recovering from corrupt or truncated PDF files: when the
// xref chain cannot be read, a linear byte scan over the whole stream
// rebuilds the entry table from "N G obj" headers and collects trailer and
// xref-stream candidates in the same pass.
package core

import (
	"strconv"

	"github.com/pdfxref/pdfxref/common"
)

// indexObjects clears the entry table and performs a linear scan over the
// entire byte stream, looking for "N G obj" headers, "trailer" keywords,
// and "/XRef" tags.
func (x *XRef) indexObjects() error {
	if x.repairsAttempted {
		return NewInvalidPdfError("repair already attempted", nil)
	}
	x.repairsAttempted = true

	x.entries = map[int64]*XRefEntry{}
	x.cache = map[int64]PdfObject{}

	data, err := readAll(x.stream)
	if err != nil {
		return err
	}

	var trailerOffsets []int64
	var xrefStreamOffsets []int64

	// Sliding lookback buffer: "N G obj" is recognized at the 'j' of "obj"
	// by walking backwards through whitespace/digits.
	const bufLen = 24
	last := make([]byte, bufLen)
	pushByte := func(b byte) { last = append(last[1:], b) }

	for pos := 0; pos < len(data); pos++ {
		b := data[pos]
		pushByte(b)

		if b == 'j' && last[bufLen-2] == 'b' && last[bufLen-3] == 'o' && IsWhiteSpace(last[bufLen-4]) {
			i := bufLen - 4
			for i > 0 && IsWhiteSpace(last[i]) {
				i--
			}
			if i == 0 || !IsDecimalDigit(last[i]) {
				continue
			}
			for i > 0 && IsDecimalDigit(last[i]) {
				i--
			}
			if i == 0 || !IsWhiteSpace(last[i]) {
				continue
			}
			for i > 0 && IsWhiteSpace(last[i]) {
				i--
			}
			if i == 0 || !IsDecimalDigit(last[i]) {
				continue
			}
			for i > 0 && IsDecimalDigit(last[i]) {
				i--
			}
			if i == 0 {
				continue
			}

			header := string(last[i+1:])
			objNum, genNum, ok := parseIndirectHeader(header)
			if !ok {
				continue
			}
			objOffset := int64(pos) - int64(bufLen-i-2)

			if cur, has := x.entries[objNum]; !has || cur.Generation < genNum {
				x.entries[objNum] = &XRefEntry{
					XType: XRefTypeUncompressed, ObjectNumber: objNum,
					Generation: genNum, Offset: objOffset,
				}
			}
		}

		if b == 'r' && matchesTailKeyword(data, pos, "trailer") {
			trailerOffsets = append(trailerOffsets, int64(pos-len("trailer")+1))
		}
		if b == 'f' && matchesTail(data, pos, "/XRef") && pos+1 < len(data) && !isAlpha(data[pos+1]) {
			xrefStreamOffsets = append(xrefStreamOffsets, findObjHeaderBefore(data, pos))
		}
	}

	// Feed each xref-stream candidate through readXRef in recovery mode so
	// its Size/Root/Encrypt/ID become trailer candidates too.
	for _, off := range xrefStreamOffsets {
		if off < 0 {
			continue
		}
		p := NewParser(x.stream)
		if err := p.Seek(off); err != nil {
			continue
		}
		if dict, err := x.processXRefStream(p, off); err == nil && dict != nil {
			if x.trailer == nil {
				x.trailer = dict
			} else if x.validTrailerCandidate(dict) && !x.validTrailerCandidate(x.trailer) {
				x.trailer = dict
			}
		}
	}

	// Walk trailer candidates in document order; the first one whose root
	// validates (Dict with /Pages) and carries /ID wins, else the last
	// valid candidate.
	var lastValid *PdfObjectDictionary
	for _, off := range trailerOffsets {
		p := NewParser(x.stream)
		if err := p.Seek(off + int64(len("trailer"))); err != nil {
			continue
		}
		obj, err := p.ParseObject()
		if err != nil {
			continue
		}
		dict, ok := obj.(*PdfObjectDictionary)
		if !ok || !x.validTrailerCandidate(dict) {
			continue
		}
		lastValid = dict
		if dict.Get("ID") != nil {
			x.trailer = dict
			break
		}
	}
	if x.trailer == nil {
		x.trailer = lastValid
	}
	if x.trailer == nil {
		return NewInvalidPdfError("recovery scan produced no valid trailer", nil)
	}

	root, err := TraceToDirectObject(x.trailer.Get("Root"), x)
	if err != nil {
		return err
	}
	x.root = root
	if enc := x.trailer.Get("Encrypt"); enc != nil {
		if encDirect, err := TraceToDirectObject(enc, x); err == nil {
			if d, ok := GetDict(encDirect); ok {
				x.encrypt = d
			}
		}
	}
	common.Log.Debug("Recovered %d xref entries via indexObjects", len(x.entries))
	x.printXrefTable()
	return nil
}

// validTrailerCandidate reports whether dict's /Root resolves to a Dict
// carrying /Pages.
func (x *XRef) validTrailerCandidate(dict *PdfObjectDictionary) bool {
	root := dict.Get("Root")
	if root == nil {
		return false
	}
	direct, err := TraceToDirectObject(root, x)
	if err != nil {
		return false
	}
	rd, ok := GetDict(direct)
	if !ok {
		return false
	}
	return rd.Get("Pages") != nil
}

func parseIndirectHeader(s string) (num, gen int64, ok bool) {
	var firstSpace, secondStart, secondEnd = -1, -1, -1
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' || s[i] == '\r' || s[i] == '\n' {
			if firstSpace == -1 {
				firstSpace = i
			} else if secondStart != -1 && secondEnd == -1 {
				secondEnd = i
			}
			continue
		}
		if firstSpace != -1 && secondStart == -1 {
			secondStart = i
		}
	}
	if firstSpace == -1 || secondStart == -1 {
		return 0, 0, false
	}
	if secondEnd == -1 {
		secondEnd = len(s)
	}
	n, err1 := strconv.ParseInt(s[:firstSpace], 10, 64)
	g, err2 := strconv.ParseInt(s[secondStart:secondEnd], 10, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return n, g, true
}

func matchesTail(data []byte, pos int, word string) bool {
	start := pos - len(word) + 1
	if start < 0 {
		return false
	}
	return string(data[start:pos+1]) == word
}

// matchesTailKeyword additionally requires the keyword to be delimited by
// whitespace on both sides, to avoid matching "trailer" inside a longer
// identifier.
func matchesTailKeyword(data []byte, pos int, word string) bool {
	if !matchesTail(data, pos, word) {
		return false
	}
	start := pos - len(word) + 1
	if start > 0 && !IsWhiteSpace(data[start-1]) {
		return false
	}
	if pos+1 < len(data) && !IsWhiteSpace(data[pos+1]) && data[pos+1] != '\x00' {
		return false
	}
	return true
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// findObjHeaderBefore walks backward from an "/XRef" tag to the start of
// its containing "N G obj" header.
func findObjHeaderBefore(data []byte, pos int) int64 {
	const lookback = 200
	start := pos - lookback
	if start < 0 {
		start = 0
	}
	window := string(data[start:pos])
	idx := -1
	for i := 0; i+3 < len(window); i++ {
		if window[i] == 'o' && window[i+1] == 'b' && window[i+2] == 'j' && (i+3 >= len(window) || !isAlpha(window[i+3])) {
			idx = i
		}
	}
	if idx == -1 {
		return -1
	}
	j := idx - 1
	for j > 0 && IsWhiteSpace(window[j]) {
		j--
	}
	for j > 0 && IsDecimalDigit(window[j]) {
		j--
	}
	for j > 0 && IsWhiteSpace(window[j]) {
		j--
	}
	for j > 0 && IsDecimalDigit(window[j]) {
		j--
	}
	if j == 0 {
		return int64(start)
	}
	return int64(start + j + 1)
}

func readAll(s Stream) ([]byte, error) {
	if _, err := s.Seek(0, 0); err != nil {
		return nil, err
	}
	n := s.Len()
	data, err := s.GetBytes(int(n))
	if err != nil {
		return nil, err
	}
	return data, nil
}
