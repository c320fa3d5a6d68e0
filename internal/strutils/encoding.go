/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package strutils provides string/byte codecs used when decoding PDF text
// strings (titles, labels, filenames) found throughout the object graph.
package strutils

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"

	"github.com/pdfxref/pdfxref/common"
)

var utf16beCodec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// UTF16ToRunes decodes the UTF-16BE encoded byte slice b to unicode runes.
func UTF16ToRunes(b []byte) []rune {
	return []rune(UTF16ToString(b))
}

// UTF16ToString decodes the UTF-16BE encoded byte slice b to a Go string.
func UTF16ToString(b []byte) string {
	if len(b)%2 != 0 {
		b = append(append([]byte{}, b...), 0)
		common.Log.Debug("ERROR: UTF16ToString. Padding with zeros.")
	}
	decoded, err := utf16beCodec.NewDecoder().Bytes(b)
	if err != nil {
		common.Log.Debug("ERROR: UTF16ToString: %v", err)
		return ""
	}
	return string(decoded)
}

// StringToUTF16 encodes s to UTF-16BE and returns it as a raw byte string.
func StringToUTF16(s string) string {
	encoded, err := utf16beCodec.NewEncoder().Bytes([]byte(s))
	if err != nil {
		common.Log.Debug("ERROR: StringToUTF16: %v", err)
		return ""
	}
	return string(encoded)
}

// pdfDocEncoding maps the PDFDocEncoding byte range to unicode runes. Bytes
// 0x20-0x7E match ASCII; the high range (0x80-0xFF) carries the small set of
// typographic characters PDFDocEncoding adds over Latin-1 (curly quotes,
// dashes, bullet, trademark, ligatures). Control bytes below 0x20 other than
// tab, line feed, carriage return and the 0x18-0x1F accents are treated as
// unmapped, matching Annex D of ISO 32000-1.
var pdfDocEncoding = buildPDFDocEncoding()

func buildPDFDocEncoding() map[byte]rune {
	m := make(map[byte]rune, 256)
	for b := 0x20; b <= 0x7E; b++ {
		m[byte(b)] = rune(b)
	}
	m[0x09] = '\t'
	m[0x0A] = '\n'
	m[0x0D] = '\r'
	m[0x18] = '˘' // breve
	m[0x19] = 'ˇ' // caron
	m[0x1A] = 'ˆ' // circumflex
	m[0x1B] = '˙' // dot above
	m[0x1C] = '˝' // double acute
	m[0x1D] = '˛' // ogonek
	m[0x1E] = '˚' // ring
	m[0x1F] = '˜' // tilde
	extra := map[byte]rune{
		0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…',
		0x84: '—', 0x85: '–', 0x86: 'ƒ', 0x87: '⁄',
		0x88: '‹', 0x89: '›', 0x8A: '−', 0x8B: '‰',
		0x8C: '„', 0x8D: '“', 0x8E: '”', 0x8F: '‘',
		0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ',
		0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
		0x98: 'Ÿ', 0x99: 'Ž', 0x9A: 'ı', 0x9B: 'ł',
		0x9C: 'œ', 0x9D: 'š', 0x9E: 'ž', 0xA0: '€',
	}
	for b, r := range extra {
		m[b] = r
	}
	for b := 0xA1; b <= 0xFF; b++ {
		m[byte(b)] = rune(b)
	}
	return m
}

var pdfdocEncodingRuneMap = buildPDFDocRuneMap()

func buildPDFDocRuneMap() map[rune]byte {
	m := make(map[rune]byte, len(pdfDocEncoding))
	for b, r := range pdfDocEncoding {
		m[r] = b
	}
	return m
}

// PDFDocEncodingToRunes decodes a PDFDocEncoding byte slice to unicode runes.
func PDFDocEncodingToRunes(b []byte) []rune {
	var runes []rune
	for _, bval := range b {
		r, has := pdfDocEncoding[bval]
		if !has {
			common.Log.Debug("ERROR: PDFDocEncoding input mapping error %d - skipping", bval)
			continue
		}
		runes = append(runes, r)
	}
	return runes
}

// PDFDocEncodingToString decodes a PDFDocEncoding byte slice to a Go string.
func PDFDocEncodingToString(b []byte) string {
	return string(PDFDocEncodingToRunes(b))
}

// StringToPDFDocEncoding encodes a Go string to PDFDocEncoding, dropping
// runes with no PDFDocEncoding representation.
func StringToPDFDocEncoding(s string) []byte {
	var buf bytes.Buffer
	for _, r := range s {
		b, has := pdfdocEncodingRuneMap[r]
		if !has {
			common.Log.Debug("ERROR: PDFDocEncoding rune mapping missing %c/%X - skipping", r, r)
			continue
		}
		buf.WriteByte(b)
	}
	return buf.Bytes()
}

// DecodePdfString decodes a raw PDF string according to the encoding implied
// by its leading byte-order mark: UTF-16BE when it starts with 0xFE 0xFF,
// PDFDocEncoding otherwise.
func DecodePdfString(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		return UTF16ToString(raw[2:])
	}
	return PDFDocEncodingToString(raw)
}
