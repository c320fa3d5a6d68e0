/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Page label computation: the /PageLabels number tree assigns each page
// range a style (decimal, Roman, alphabetic), an optional prefix, and a
// starting index; the display label for every page follows from those.
package model

import (
	"strconv"
	"strings"

	"github.com/pdfxref/pdfxref/core"
)

// pageLabelStyle mirrors the five styles a /PageLabels entry's /S can name,
// plus "no style yet" (empty prefix-only labels).
type pageLabelStyle byte

const (
	styleNone pageLabelStyle = iota
	styleDecimal
	styleRomanUpper
	styleRomanLower
	styleAlphaUpper
	styleAlphaLower
)

// ReadPageLabels walks /PageLabels as a NumberTree and computes the label
// for every page in [0, numPages).
func ReadPageLabels(pageLabelsRoot *core.PdfObjectDictionary, numPages int, xref core.Resolver) ([]string, error) {
	tree := NewNumberTree(pageLabelsRoot, xref)

	labels := make([]string, numPages)
	style := styleNone
	prefix := ""
	currentIndex := int64(1)

	for i := 0; i < numPages; i++ {
		if entry, found := tree.Get(int64(i)); found {
			direct, err := core.TraceToDirectObject(entry, xref)
			if err != nil {
				return nil, err
			}
			dict, ok := core.GetDict(direct)
			if ok {
				style = parsePageLabelStyle(dict)
				if p, ok := core.GetStringVal(dict.Get("P")); ok {
					prefix = p
				} else {
					prefix = ""
				}
				currentIndex = int64(1)
				if st, ok := core.GetIntVal(dict.Get("St")); ok && st >= 1 {
					currentIndex = int64(st)
				}
			}
		}

		labels[i] = prefix + computeLabel(style, currentIndex)
		currentIndex++
	}
	return labels, nil
}

func parsePageLabelStyle(dict *core.PdfObjectDictionary) pageLabelStyle {
	s, ok := core.GetNameVal(dict.Get("S"))
	if !ok {
		return styleNone
	}
	switch s {
	case "D":
		return styleDecimal
	case "R":
		return styleRomanUpper
	case "r":
		return styleRomanLower
	case "A":
		return styleAlphaUpper
	case "a":
		return styleAlphaLower
	default:
		return styleNone
	}
}

// computeLabel renders the label for the active style and 1-based index.
func computeLabel(style pageLabelStyle, idx int64) string {
	switch style {
	case styleDecimal:
		return decimalLabel(idx)
	case styleRomanUpper:
		return toRoman(idx, true)
	case styleRomanLower:
		return toRoman(idx, false)
	case styleAlphaUpper:
		return alphaLabel(idx, 'A')
	case styleAlphaLower:
		return alphaLabel(idx, 'a')
	default:
		return ""
	}
}

func decimalLabel(idx int64) string {
	return strconv.FormatInt(idx, 10)
}

// alphaLabel implements the base-26 letter-repetition scheme: letter =
// base + ((idx-1) mod 26), repeated floor((idx-1)/26)+1 times.
func alphaLabel(idx int64, base byte) string {
	if idx < 1 {
		idx = 1
	}
	zeroIdx := idx - 1
	letter := base + byte(zeroIdx%26)
	reps := int(zeroIdx/26) + 1
	return strings.Repeat(string(letter), reps)
}

// toRoman renders idx (>=1) as a Roman numeral, upper or lower case.
func toRoman(idx int64, upper bool) string {
	if idx < 1 {
		idx = 1
	}
	type numeral struct {
		value  int64
		symbol string
	}
	numerals := []numeral{
		{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
		{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
		{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
	}
	var b strings.Builder
	for _, n := range numerals {
		for idx >= n.value {
			b.WriteString(n.symbol)
			idx -= n.value
		}
	}
	s := b.String()
	if !upper {
		s = strings.ToLower(s)
	}
	return s
}
