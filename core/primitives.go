/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfxref/pdfxref/internal/strutils"
)

// PdfObject is the sum type of PDF values: Null, Bool, Int, Real, Name,
// String, Array, Dict, Stream, Ref, and Cmd (a parser-control token, never
// part of a resolved object graph but needed while lexing).
type PdfObject interface {
	// String returns a debug representation, not a serialization.
	String() string
}

// PdfObjectNull represents the PDF null object.
type PdfObjectNull struct{}

func (*PdfObjectNull) String() string { return "null" }

// PdfObjectBool represents a PDF boolean value.
type PdfObjectBool bool

func (b *PdfObjectBool) String() string { return strconv.FormatBool(bool(*b)) }

// PdfObjectInteger represents a PDF integer value.
type PdfObjectInteger int64

func (i *PdfObjectInteger) String() string { return strconv.FormatInt(int64(*i), 10) }

// PdfObjectFloat represents a PDF real value.
type PdfObjectFloat float64

func (f *PdfObjectFloat) String() string { return strconv.FormatFloat(float64(*f), 'f', -1, 64) }

// PdfObjectString represents a PDF string object: a raw byte sequence that
// may be PDFDocEncoded or UTF-16BE encoded.
type PdfObjectString struct {
	bytes   []byte
	isHex   bool
	isUTF16 bool
}

// MakeString creates a literal PdfObjectString holding raw bytes that
// already form a valid Go string.
func MakeString(s string) *PdfObjectString {
	return &PdfObjectString{bytes: []byte(s)}
}

// MakeStringFromBytes creates a PdfObjectString from raw bytes.
func MakeStringFromBytes(b []byte) *PdfObjectString {
	return &PdfObjectString{bytes: append([]byte{}, b...)}
}

// MakeEncodedString creates a PdfObjectString, optionally UTF-16BE encoding
// it up front (used when round-tripping document text).
func MakeEncodedString(s string, utf16 bool) *PdfObjectString {
	if utf16 {
		return &PdfObjectString{bytes: []byte(strutils.StringToUTF16(s)), isUTF16: true}
	}
	return &PdfObjectString{bytes: strutils.StringToPDFDocEncoding(s)}
}

func (s *PdfObjectString) String() string { return s.Decoded() }

// Bytes returns the raw, undecoded bytes of the string.
func (s *PdfObjectString) Bytes() []byte { return s.bytes }

// Decoded decodes the string per its detected encoding (UTF-16BE when
// explicitly marked or BOM-prefixed, PDFDocEncoding otherwise).
func (s *PdfObjectString) Decoded() string {
	if s.isUTF16 {
		return strutils.UTF16ToString(s.bytes)
	}
	return strutils.DecodePdfString(s.bytes)
}

// PdfObjectName represents a PDF name object, e.g. /Type.
type PdfObjectName string

func (n *PdfObjectName) String() string { return string(*n) }

// PdfObjectArray represents a PDF array object: an ordered sequence of
// PdfObject values.
type PdfObjectArray struct {
	elements []PdfObject
}

// MakeArray creates a PdfObjectArray from the given elements.
func MakeArray(objects ...PdfObject) *PdfObjectArray {
	return &PdfObjectArray{elements: objects}
}

func (a *PdfObjectArray) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range a.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Len returns the number of elements in the array.
func (a *PdfObjectArray) Len() int { return len(a.elements) }

// Get returns the raw (unresolved) element at index i, or nil if out of
// range.
func (a *PdfObjectArray) Get(i int) PdfObject {
	if i < 0 || i >= len(a.elements) {
		return nil
	}
	return a.elements[i]
}

// Set replaces the element at index i.
func (a *PdfObjectArray) Set(i int, obj PdfObject) {
	if i >= 0 && i < len(a.elements) {
		a.elements[i] = obj
	}
}

// Append adds an element to the end of the array.
func (a *PdfObjectArray) Append(obj PdfObject) { a.elements = append(a.elements, obj) }

// Elements returns the raw backing slice.
func (a *PdfObjectArray) Elements() []PdfObject { return a.elements }

// PdfObjectReference represents a PDF indirect reference: (objectNumber,
// generation). References do not carry the object itself; an XRef resolves
// them.
type PdfObjectReference struct {
	ObjectNumber int64
	Generation   int64
}

func (r *PdfObjectReference) String() string {
	return fmt.Sprintf("%d %d R", r.ObjectNumber, r.Generation)
}

// MakeReference creates a PdfObjectReference.
func MakeReference(num, gen int64) *PdfObjectReference {
	return &PdfObjectReference{ObjectNumber: num, Generation: gen}
}

// PdfObjectCmd represents a bare lexer keyword (e.g. "obj", "endobj",
// "stream") encountered while parsing. It is never part of a resolved
// object graph; the parser consumes it as a control token.
type PdfObjectCmd string

func (c *PdfObjectCmd) String() string { return string(*c) }

// PdfObjectDictionary is an ordered mapping from Name to PdfObject,
// preserving insertion order. It may carry an objId (the textual id of the
// indirect object that contains it), used for diagnostics and the
// page-kids-count cache.
type PdfObjectDictionary struct {
	keys   []PdfObjectName
	values map[PdfObjectName]PdfObject
	objId  string
}

// MakeDict creates a new, empty PdfObjectDictionary.
func MakeDict() *PdfObjectDictionary {
	return &PdfObjectDictionary{values: map[PdfObjectName]PdfObject{}}
}

func (d *PdfObjectDictionary) String() string {
	var b strings.Builder
	b.WriteString("<<")
	for _, k := range d.keys {
		fmt.Fprintf(&b, " /%s %s", k, d.values[k].String())
	}
	b.WriteString(" >>")
	return b.String()
}

// Set inserts or replaces key, appending it to the key order on first
// insertion.
func (d *PdfObjectDictionary) Set(key PdfObjectName, val PdfObject) {
	if _, has := d.values[key]; !has {
		d.keys = append(d.keys, key)
	}
	d.values[key] = val
}

// SetIfNotNil sets key only when val is non-nil.
func (d *PdfObjectDictionary) SetIfNotNil(key PdfObjectName, val PdfObject) {
	if val != nil {
		d.Set(key, val)
	}
}

// Get returns the raw (unresolved) value for key, or nil.
func (d *PdfObjectDictionary) Get(key PdfObjectName) PdfObject {
	return d.values[key]
}

// Keys returns the dictionary's keys in insertion order.
func (d *PdfObjectDictionary) Keys() []PdfObjectName { return d.keys }

// Clear removes all entries.
func (d *PdfObjectDictionary) Clear() {
	d.keys = nil
	d.values = map[PdfObjectName]PdfObject{}
}

// ObjId returns the cached textual object id (e.g. "12 0"), or "".
func (d *PdfObjectDictionary) ObjId() string { return d.objId }

// SetObjId stamps the dictionary with the textual id of its owning indirect
// object, used for diagnostics and as a page-kids-count cache key.
func (d *PdfObjectDictionary) SetObjId(id string) {
	if d.objId == "" {
		d.objId = id
	}
}

// PdfIndirectObject wraps a direct PdfObject with the object number and
// generation it was parsed under.
type PdfIndirectObject struct {
	PdfObject
	ObjectNumber int64
	Generation   int64
}

func (ind *PdfIndirectObject) String() string {
	return fmt.Sprintf("%d %d obj %s", ind.ObjectNumber, ind.Generation, ind.PdfObject.String())
}

// MakeIndirectObject wraps obj as an (unnumbered) indirect object.
func MakeIndirectObject(obj PdfObject) *PdfIndirectObject {
	return &PdfIndirectObject{PdfObject: obj}
}

// PdfObjectStream is a dictionary plus a byte source. The bytes are kept
// raw; filter decoding belongs to the layer above.
type PdfObjectStream struct {
	*PdfObjectDictionary
	ObjectNumber int64
	Generation   int64
	Stream       []byte // raw (still-encoded) bytes as laid out in the file
}

func (s *PdfObjectStream) String() string {
	return fmt.Sprintf("Stream(%d %d, %d bytes)", s.ObjectNumber, s.Generation, len(s.Stream))
}

// traceMaxDepth bounds reference-chasing so a cyclic Ref chain cannot spin
// forever; mirrors the depth cap used by the name/number tree walker.
const traceMaxDepth = 10

// Resolver resolves an indirect reference to its direct value. XRef
// implements this; it is the only way primitives.go reaches into the xref
// layer, kept as a narrow interface so this file has no import cycle on
// xref.go.
type Resolver interface {
	Resolve(ref *PdfObjectReference) (PdfObject, error)
}

// TraceToDirectObject follows Ref chains (via resolver) until a non-Ref
// value is reached, up to traceMaxDepth hops. A cyclic or excessively deep
// chain yields PdfObjectNull rather than looping forever.
func TraceToDirectObject(obj PdfObject, resolver Resolver) (PdfObject, error) {
	depth := 0
	for {
		ref, isRef := obj.(*PdfObjectReference)
		if !isRef {
			return obj, nil
		}
		depth++
		if depth > traceMaxDepth {
			return &PdfObjectNull{}, nil
		}
		resolved, err := resolver.Resolve(ref)
		if err != nil {
			return nil, err
		}
		obj = resolved
	}
}

// GetDict type-asserts obj (resolving one indirect-object wrapper) as a
// dictionary.
func GetDict(obj PdfObject) (*PdfObjectDictionary, bool) {
	switch t := obj.(type) {
	case *PdfObjectDictionary:
		return t, true
	case *PdfIndirectObject:
		return GetDict(t.PdfObject)
	case *PdfObjectStream:
		return t.PdfObjectDictionary, true
	}
	return nil, false
}

// GetArray type-asserts obj as an array.
func GetArray(obj PdfObject) (*PdfObjectArray, bool) {
	switch t := obj.(type) {
	case *PdfObjectArray:
		return t, true
	case *PdfIndirectObject:
		return GetArray(t.PdfObject)
	}
	return nil, false
}

// GetIndirect returns obj as a *PdfIndirectObject if it is one.
func GetIndirect(obj PdfObject) (*PdfIndirectObject, bool) {
	ind, ok := obj.(*PdfIndirectObject)
	return ind, ok
}

// GetStream returns obj as a *PdfObjectStream if it is one.
func GetStream(obj PdfObject) (*PdfObjectStream, bool) {
	s, ok := obj.(*PdfObjectStream)
	return s, ok
}

// GetName returns the name value and whether obj was a name.
func GetName(obj PdfObject) (*PdfObjectName, bool) {
	switch t := obj.(type) {
	case *PdfObjectName:
		return t, true
	case *PdfIndirectObject:
		return GetName(t.PdfObject)
	}
	return nil, false
}

// GetNameVal returns the plain string value of a name object.
func GetNameVal(obj PdfObject) (string, bool) {
	n, ok := GetName(obj)
	if !ok {
		return "", false
	}
	return string(*n), true
}

// GetString returns obj as a *PdfObjectString if it is one.
func GetString(obj PdfObject) (*PdfObjectString, bool) {
	switch t := obj.(type) {
	case *PdfObjectString:
		return t, true
	case *PdfIndirectObject:
		return GetString(t.PdfObject)
	}
	return nil, false
}

// GetStringVal returns the decoded string value of a string object.
func GetStringVal(obj PdfObject) (string, bool) {
	s, ok := GetString(obj)
	if !ok {
		return "", false
	}
	return s.Decoded(), true
}

// GetBool returns obj as a *PdfObjectBool if it is one.
func GetBool(obj PdfObject) (*PdfObjectBool, bool) {
	switch t := obj.(type) {
	case *PdfObjectBool:
		return t, true
	case *PdfIndirectObject:
		return GetBool(t.PdfObject)
	}
	return nil, false
}

// GetBoolVal returns the bool value, or ok=false if obj isn't a bool.
func GetBoolVal(obj PdfObject) (bool, bool) {
	b, ok := GetBool(obj)
	if !ok {
		return false, false
	}
	return bool(*b), true
}

// GetInt returns obj as a *PdfObjectInteger if it is one.
func GetInt(obj PdfObject) (*PdfObjectInteger, bool) {
	switch t := obj.(type) {
	case *PdfObjectInteger:
		return t, true
	case *PdfIndirectObject:
		return GetInt(t.PdfObject)
	}
	return nil, false
}

// GetIntVal returns the int value, or ok=false if obj isn't an integer.
func GetIntVal(obj PdfObject) (int, bool) {
	i, ok := GetInt(obj)
	if !ok {
		return 0, false
	}
	return int(*i), true
}

// GetNumberAsFloat coerces an Int or Real object to float64.
func GetNumberAsFloat(obj PdfObject) (float64, error) {
	switch t := obj.(type) {
	case *PdfObjectFloat:
		return float64(*t), nil
	case *PdfObjectInteger:
		return float64(*t), nil
	case *PdfIndirectObject:
		return GetNumberAsFloat(t.PdfObject)
	}
	return 0, ErrNotANumber
}

// MakeBool wraps a bool.
func MakeBool(v bool) *PdfObjectBool { b := PdfObjectBool(v); return &b }

// MakeInteger wraps an integer.
func MakeInteger(v int64) *PdfObjectInteger { i := PdfObjectInteger(v); return &i }

// MakeFloat wraps a float.
func MakeFloat(v float64) *PdfObjectFloat { f := PdfObjectFloat(v); return &f }

// MakeName wraps a string as a PdfObjectName.
func MakeName(v string) *PdfObjectName { n := PdfObjectName(v); return &n }

// MakeNull returns the PDF null object.
func MakeNull() *PdfObjectNull { return &PdfObjectNull{} }
