/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Destination/action parsing: dispatch over an action dictionary's /S
// key for the six navigational kinds a reader needs (GoTo, URI, GoToR,
// Launch, Named, JavaScript), normalizing each into a flat result the
// viewer layer can act on.
package model

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdfxref/pdfxref/common"
	"github.com/pdfxref/pdfxref/core"
)

// ActionKind names the six action types this parser understands.
type ActionKind string

// The six action kinds the parser dispatches on.
const (
	ActionGoTo       ActionKind = "GoTo"
	ActionURI        ActionKind = "URI"
	ActionGoToR      ActionKind = "GoToR"
	ActionLaunch     ActionKind = "Launch"
	ActionNamed      ActionKind = "Named"
	ActionJavaScript ActionKind = "JavaScript"
)

// NormalizedAction is the flat result of ParseDestDictionary: the
// normalized url (plus the unnormalized original), destination, window
// disposition, and named-action name.
type NormalizedAction struct {
	URL          string
	UnsafeURL    string
	Dest         core.PdfObject
	NewWindow    bool
	HasNewWindow bool
	Action       string // canonical name for a Named action
}

// javascriptURLPattern whitelists the two JS idioms treated as plain
// links: app.launchURL('...') and window.open('...', bool).
var javascriptURLPattern = regexp.MustCompile(`(?i)^\s*(app\.launchURL|window\.open)\(['"]([^'"]*)['"](?:,\s*(\w+))?\)`)

// ParseDestDictionary normalizes dict, which may encode an action (/A) or a
// destination (/Dest, at top level or inside an /A whose /S = GoTo); a
// direct destination array is handled by ParseDestArray instead.
// docBaseURL anchors relative /GoToR, /Launch URLs for normalization.
func ParseDestDictionary(dict *core.PdfObjectDictionary, xref core.Resolver, docBaseURL string) *NormalizedAction {
	result := &NormalizedAction{}

	if dict == nil {
		return result
	}

	if a := dict.Get("A"); a != nil {
		direct, err := core.TraceToDirectObject(a, xref)
		if err == nil {
			if adict, ok := core.GetDict(direct); ok {
				parseAction(adict, xref, docBaseURL, result)
				return result
			}
		}
	}

	if d := dict.Get("Dest"); d != nil {
		result.Dest = d
	}

	return result
}

// ParseDestArray handles the degenerate case where the top-level object
// itself is a destination array (no /Dest, no /A wrapper).
func ParseDestArray(arr *core.PdfObjectArray) *NormalizedAction {
	return &NormalizedAction{Dest: arr}
}

func parseAction(d *core.PdfObjectDictionary, xref core.Resolver, docBaseURL string, result *NormalizedAction) {
	sName, ok := core.GetNameVal(d.Get("S"))
	if !ok {
		common.Log.Debug("action dictionary missing /S")
		return
	}

	switch ActionKind(sName) {
	case ActionURI:
		parseURIAction(d, xref, docBaseURL, result)
	case ActionGoTo:
		result.Dest = d.Get("D")
	case ActionLaunch, ActionGoToR:
		parseRemoteAction(d, xref, docBaseURL, result)
	case ActionNamed:
		if n, ok := core.GetNameVal(d.Get("N")); ok {
			result.Action = n
		}
	case ActionJavaScript:
		parseJavaScriptAction(d, xref, result)
	default:
		common.Log.Debug("unhandled action type /S=%s", sName)
	}
}

// parseURIAction handles /S /URI: /URI may
// be a string (prepend "http://" for bare "www." hosts) or, tolerating
// non-compliant writers, a name (prepend "/").
func parseURIAction(d *core.PdfObjectDictionary, xref core.Resolver, docBaseURL string, result *NormalizedAction) {
	uriObj, err := core.TraceToDirectObject(d.Get("URI"), xref)
	if err != nil {
		return
	}
	var raw string
	if s, ok := core.GetStringVal(uriObj); ok {
		raw = s
		if strings.HasPrefix(raw, "www.") {
			raw = "http://" + raw
		}
	} else if n, ok := core.GetNameVal(uriObj); ok {
		raw = "/" + n
	} else {
		return
	}
	finishURL(raw, docBaseURL, result)
}

// parseRemoteAction implements the Launch/GoToR row: url comes from F
// (either a FileSpec-like dict's F key, or a bare string); remote D is
// appended as a URL fragment (strings verbatim, arrays JSON-stringified).
func parseRemoteAction(d *core.PdfObjectDictionary, xref core.Resolver, docBaseURL string, result *NormalizedAction) {
	fObj, err := core.TraceToDirectObject(d.Get("F"), xref)
	if err != nil {
		return
	}

	var fileURL string
	if s, ok := core.GetStringVal(fObj); ok {
		fileURL = s
	} else if fdict, ok := core.GetDict(fObj); ok {
		fs := NewFileSpec(fdict, xref)
		fileURL = fs.Filename()
	} else {
		common.Log.Debug("remote action /F has unexpected type %T", fObj)
		return
	}

	if dObj := d.Get("D"); dObj != nil {
		direct, err := core.TraceToDirectObject(dObj, xref)
		if err == nil {
			if frag, ok := remoteFragment(direct); ok {
				fileURL += "#" + frag
			}
		}
	}

	if nw, ok := core.GetBoolVal(d.Get("NewWindow")); ok {
		result.NewWindow = nw
		result.HasNewWindow = true
	}

	finishURL(fileURL, docBaseURL, result)
}

// remoteFragment renders a remote /D value as a URL fragment: a string
// verbatim, an array JSON-stringified (destination arrays are opaque
// when they point into another document).
func remoteFragment(d core.PdfObject) (string, bool) {
	if s, ok := core.GetStringVal(d); ok {
		return s, true
	}
	if arr, ok := core.GetArray(d); ok {
		vals := make([]interface{}, 0, arr.Len())
		for _, e := range arr.Elements() {
			vals = append(vals, jsonableValue(e))
		}
		b, err := json.Marshal(vals)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
	return "", false
}

func jsonableValue(obj core.PdfObject) interface{} {
	switch t := obj.(type) {
	case *core.PdfObjectInteger:
		return int64(*t)
	case *core.PdfObjectFloat:
		return float64(*t)
	case *core.PdfObjectName:
		return string(*t)
	case *core.PdfObjectString:
		return t.Decoded()
	case *core.PdfObjectBool:
		return bool(*t)
	default:
		return obj.String()
	}
}

// parseJavaScriptAction implements the JavaScript row: inspect the JS text
// for the two whitelisted call patterns and extract a url/newWindow.
func parseJavaScriptAction(d *core.PdfObjectDictionary, xref core.Resolver, result *NormalizedAction) {
	jsObj, err := core.TraceToDirectObject(d.Get("JS"), xref)
	if err != nil {
		return
	}
	var text string
	if s, ok := core.GetStringVal(jsObj); ok {
		text = s
	} else if stream, ok := core.GetStream(jsObj); ok {
		text = string(stream.Stream)
	} else {
		return
	}

	m := javascriptURLPattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	result.UnsafeURL = m[2]
	result.URL = m[2]
	if m[1] == "app.launchURL" && len(m) > 3 && m[3] == "true" {
		result.NewWindow = true
		result.HasNewWindow = true
	}
}

// finishURL performs the shared URL post-processing: it records raw as
// unsafeUrl, and records as url the absolute URL resolved against
// docBaseURL, or raw unchanged when there is no base or either URL fails
// to parse. No UTF-8 re-decoding of raw is done.
func finishURL(raw string, docBaseURL string, result *NormalizedAction) {
	result.UnsafeURL = raw

	if docBaseURL == "" {
		result.URL = raw
		return
	}
	// Resolve only the host/path portion against the base. The fragment is
	// appended back as-is: url.URL.String() percent-encodes characters like
	// '[' and '"', and a remote destination fragment must stay literal.
	prefix, frag := raw, ""
	if i := strings.Index(raw, "#"); i >= 0 {
		prefix, frag = raw[:i], raw[i:]
	}
	base, err := url.Parse(docBaseURL)
	if err != nil {
		result.URL = raw
		return
	}
	ref, err := url.Parse(prefix)
	if err != nil {
		common.Log.Debug("could not parse action URL %q: %v", raw, err)
		result.URL = raw
		return
	}
	result.URL = base.ResolveReference(ref).String() + frag
}
