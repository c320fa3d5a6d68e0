/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Viewer preferences validation: each recognized /ViewerPreferences key is
// checked against its expected type and choice set, with documented
// defaults for everything that fails.
package model

import (
	"github.com/pdfxref/pdfxref/common"
	"github.com/pdfxref/pdfxref/core"
)

// ViewerPreferences is the validated subset of /ViewerPreferences a
// viewer acts on. ParseViewerPreferences fills in the documented defaults;
// the zero value leaves the Name-valued fields empty.
type ViewerPreferences struct {
	HideToolbar           bool
	HideMenubar           bool
	HideWindowUI          bool
	FitWindow             bool
	CenterWindow          bool
	DisplayDocTitle       bool
	PickTrayByPDFSize     bool
	NonFullScreenPageMode string // default UseNone
	Direction             string // default L2R
	ViewArea              string // default CropBox
	ViewClip              string // default CropBox
	PrintArea             string // default CropBox
	PrintClip             string // default CropBox
	PrintScaling          string // default AppDefault
	Duplex                string // default None
	PrintPageRange        []int64
	HasPrintPageRange     bool
	NumCopies             int64
	HasNumCopies          bool
}

var boolKeys = []core.PdfObjectName{
	"HideToolbar", "HideMenubar", "HideWindowUI", "FitWindow",
	"CenterWindow", "DisplayDocTitle", "PickTrayByPDFSize",
}

var nameKeyDefaults = map[core.PdfObjectName]struct {
	choices []string
	def     string
}{
	"NonFullScreenPageMode": {[]string{"UseNone", "UseOutlines", "UseThumbs", "UseOC"}, "UseNone"},
	"Direction":             {[]string{"L2R", "R2L"}, "L2R"},
	"ViewArea":              {[]string{"MediaBox", "CropBox", "BleedBox", "TrimBox", "ArtBox"}, "CropBox"},
	"ViewClip":              {[]string{"MediaBox", "CropBox", "BleedBox", "TrimBox", "ArtBox"}, "CropBox"},
	"PrintArea":             {[]string{"MediaBox", "CropBox", "BleedBox", "TrimBox", "ArtBox"}, "CropBox"},
	"PrintClip":             {[]string{"MediaBox", "CropBox", "BleedBox", "TrimBox", "ArtBox"}, "CropBox"},
	"PrintScaling":          {[]string{"None", "AppDefault"}, "AppDefault"},
	"Duplex":                {[]string{"Simplex", "DuplexFlipShortEdge", "DuplexFlipLongEdge"}, "None"},
}

// ParseViewerPreferences validates dict key by key. Unrecognized keys are
// dropped silently; recognized-but-ill-typed keys log and are dropped.
// For the Name-valued keys, dropping still falls back to the listed
// default, whether the key is absent, wrong-typed, or an unrecognized
// choice.
func ParseViewerPreferences(dict *core.PdfObjectDictionary, numPages int, xref core.Resolver) *ViewerPreferences {
	vp := &ViewerPreferences{
		NonFullScreenPageMode: "UseNone",
		Direction:             "L2R",
		ViewArea:              "CropBox",
		ViewClip:              "CropBox",
		PrintArea:             "CropBox",
		PrintClip:             "CropBox",
		PrintScaling:          "AppDefault",
		Duplex:                "None",
	}
	if dict == nil {
		return vp
	}

	for _, key := range boolKeys {
		v := dict.Get(key)
		if v == nil {
			continue
		}
		b, ok := core.GetBoolVal(mustResolve(v, xref))
		if !ok {
			common.Log.Debug("ViewerPreferences/%s: expected bool, got %T - dropping", key, v)
			continue
		}
		setBoolPref(vp, string(key), b)
	}

	for key, spec := range nameKeyDefaults {
		v := dict.Get(key)
		if v == nil {
			continue
		}
		n, ok := core.GetNameVal(mustResolve(v, xref))
		if !ok {
			common.Log.Debug("ViewerPreferences/%s: expected name, got %T - dropping", key, v)
			continue
		}
		if !contains(spec.choices, n) {
			common.Log.Debug("ViewerPreferences/%s: unrecognized value %q - dropping", key, n)
			continue
		}
		setNamePref(vp, string(key), n)
	}

	if v := dict.Get("PrintPageRange"); v != nil {
		if arr, ok := core.GetArray(mustResolve(v, xref)); ok {
			if rng, ok := validatePrintPageRange(arr, numPages); ok {
				vp.PrintPageRange = rng
				vp.HasPrintPageRange = true
			} else {
				common.Log.Debug("ViewerPreferences/PrintPageRange: invalid - dropping")
			}
		}
	}

	if v := dict.Get("NumCopies"); v != nil {
		if n, ok := core.GetIntVal(mustResolve(v, xref)); ok && n > 0 {
			vp.NumCopies = int64(n)
			vp.HasNumCopies = true
		} else {
			common.Log.Debug("ViewerPreferences/NumCopies: must be > 0 - dropping")
		}
	}

	return vp
}

// validatePrintPageRange requires an even-length array of positive
// integers, non-decreasing, each <= numPages.
func validatePrintPageRange(arr *core.PdfObjectArray, numPages int) ([]int64, bool) {
	if arr.Len()%2 != 0 {
		return nil, false
	}
	out := make([]int64, 0, arr.Len())
	prev := int64(0)
	for i := 0; i < arr.Len(); i++ {
		n, ok := core.GetIntVal(arr.Get(i))
		if !ok || n <= 0 || int64(n) < prev || n > numPages {
			return nil, false
		}
		prev = int64(n)
		out = append(out, int64(n))
	}
	return out, true
}

func contains(choices []string, v string) bool {
	for _, c := range choices {
		if c == v {
			return true
		}
	}
	return false
}

func setBoolPref(vp *ViewerPreferences, key string, v bool) {
	switch key {
	case "HideToolbar":
		vp.HideToolbar = v
	case "HideMenubar":
		vp.HideMenubar = v
	case "HideWindowUI":
		vp.HideWindowUI = v
	case "FitWindow":
		vp.FitWindow = v
	case "CenterWindow":
		vp.CenterWindow = v
	case "DisplayDocTitle":
		vp.DisplayDocTitle = v
	case "PickTrayByPDFSize":
		vp.PickTrayByPDFSize = v
	}
}

func setNamePref(vp *ViewerPreferences, key, v string) {
	switch key {
	case "NonFullScreenPageMode":
		vp.NonFullScreenPageMode = v
	case "Direction":
		vp.Direction = v
	case "ViewArea":
		vp.ViewArea = v
	case "ViewClip":
		vp.ViewClip = v
	case "PrintArea":
		vp.PrintArea = v
	case "PrintClip":
		vp.PrintClip = v
	case "PrintScaling":
		vp.PrintScaling = v
	case "Duplex":
		vp.Duplex = v
	}
}
