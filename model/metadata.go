/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// The document metadata view: the /Metadata stream is fetched, validated,
// and handed to go-xmp for structured parsing of the XMP packet.
package model

import (
	"github.com/trimmer-io/go-xmp/xmp"

	"github.com/pdfxref/pdfxref/core"
)

// Metadata is the decoded /Metadata stream: the raw UTF-8 XMP packet plus,
// when it parses as well-formed XMP, the structured document.
type Metadata struct {
	Raw    string
	XMP    *xmp.Document
	XMPErr error
}

// ReadMetadata fetches the stream at /Metadata (must carry Type=Metadata,
// Subtype=XML), decodes it as UTF-8,
// and attempts to parse it as an XMP packet. A failure to parse as XMP is
// not itself a Format error for the view (the raw text is still usable);
// it is recorded on XMPErr.
func ReadMetadata(root *core.PdfObjectDictionary, xref core.Resolver, suppressEncryption bool, fetchStream func(ref core.PdfObject, suppressEncryption bool) (core.PdfObject, error)) (*Metadata, error) {
	metaObj := root.Get("Metadata")
	if metaObj == nil {
		return nil, core.NewFormatError("no /Metadata entry")
	}

	var direct core.PdfObject
	var err error
	if ref, isRef := metaObj.(*core.PdfObjectReference); isRef {
		direct, err = fetchStream(ref, suppressEncryption)
	} else {
		direct, err = core.TraceToDirectObject(metaObj, xref)
	}
	if err != nil {
		return nil, err
	}

	stream, ok := core.GetStream(direct)
	if !ok {
		return nil, core.NewFormatError("/Metadata is not a stream")
	}
	if t, ok := core.GetNameVal(stream.Get("Type")); !ok || t != "Metadata" {
		return nil, core.NewFormatError("/Metadata /Type is %q, want Metadata", t)
	}
	if st, ok := core.GetNameVal(stream.Get("Subtype")); !ok || st != "XML" {
		return nil, core.NewFormatError("/Metadata /Subtype is %q, want XML", st)
	}

	raw := string(stream.Stream)
	md := &Metadata{Raw: raw}

	doc := xmp.NewDocument()
	if err := xmp.Unmarshal(stream.Stream, doc); err != nil {
		md.XMPErr = err
		return md, nil
	}
	md.XMP = doc
	return md, nil
}
