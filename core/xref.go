/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"github.com/pdfxref/pdfxref/common"
)

// XRefType distinguishes the three shapes an xref entry can take.
type XRefType int

const (
	// XRefTypeFree marks a free (unallocated, or freed-and-reusable) slot.
	XRefTypeFree XRefType = iota
	// XRefTypeUncompressed is a byte offset into the file.
	XRefTypeUncompressed
	// XRefTypeCompressed is a member of an object stream.
	XRefTypeCompressed
)

// XRefEntry maps an object number to its location: a free slot, a byte
// offset into the file, or a member of an object stream.
type XRefEntry struct {
	XType        XRefType
	ObjectNumber int64
	Generation   int64 // meaningful only for XRefTypeUncompressed
	Offset       int64 // XRefTypeUncompressed: byte offset. XRefTypeCompressed: objStmNum.
	Index        int64 // XRefTypeCompressed only: member index inside the object stream.
}

// Decryptor decrypts the raw bytes of an indirect object. Cipher setup and
// key derivation live with the caller; this package only dispatches
// per-object decryption through the interface.
type Decryptor interface {
	DecryptObject(num, gen int64, data []byte) ([]byte, error)
}

// Stats counts the stream and font types seen while processing a document.
// XRef never increments it itself; the layers above (font loaders,
// stream-type dispatchers) do.
type Stats struct {
	StreamTypes map[string]int
	FontTypes   map[string]int
}

// XRef is the cross-reference resolver: it owns the entry table, the object
// cache, and the trailer/root/encrypt dictionaries established by Parse.
type XRef struct {
	stream Stream
	opts   XRefOptions

	entries map[int64]*XRefEntry
	cache   map[int64]PdfObject

	trailer *PdfObjectDictionary
	root    PdfObject
	encrypt *PdfObjectDictionary

	decryptor Decryptor

	Stats Stats

	startXRefQueue []int64
	visitedOffsets map[int64]bool

	// Resumable mid-table progress: set while a table/stream read is
	// suspended on MissingData, deleted on clean completion so a retried
	// Parse resumes from exactly the same entry.
	tableState  *xrefTableState
	streamState *xrefStreamState

	repairsAttempted bool
}

// XRefOptions is the reader-settings struct the host hands down when
// constructing the resolver.
type XRefOptions struct {
	// Password is forwarded to the cipher-transform collaborator when the
	// document carries /Encrypt.
	Password string
	// LazyLoad leaves indirect objects unresolved until fetched. When
	// false, Parse eagerly fetches every allocated entry so later access
	// never touches the stream.
	LazyLoad bool
}

// NewXRef creates a lazy XRef over stream with no entries parsed yet. Call
// SetStartXRef then Parse.
func NewXRef(stream Stream) *XRef {
	return NewXRefWithOptions(stream, XRefOptions{LazyLoad: true})
}

// NewXRefWithOptions creates an XRef with explicit reader settings.
func NewXRefWithOptions(stream Stream, opts XRefOptions) *XRef {
	return &XRef{
		stream:         stream,
		opts:           opts,
		entries:        map[int64]*XRefEntry{},
		cache:          map[int64]PdfObject{},
		visitedOffsets: map[int64]bool{},
		Stats:          Stats{StreamTypes: map[string]int{}, FontTypes: map[string]int{}},
	}
}

// Options returns the settings this XRef was constructed with.
func (x *XRef) Options() XRefOptions { return x.opts }

// SetStartXRef seeds the queue of cross-reference table locations to parse,
// from the startxref value at the file tail.
func (x *XRef) SetStartXRef(offset int64) {
	x.startXRefQueue = append(x.startXRefQueue, offset)
}

// SetDecryptor installs the (external) cipher transform factory used by
// fetchUncompressed when trailer/Encrypt is present.
func (x *XRef) SetDecryptor(d Decryptor) { x.decryptor = d }

// Trailer returns the trailer dictionary established by Parse.
func (x *XRef) Trailer() *PdfObjectDictionary { return x.trailer }

// GetCatalogObj returns the root dictionary, as set by Parse.
func (x *XRef) GetCatalogObj() PdfObject { return x.root }

// Encrypt returns the /Encrypt dictionary, or nil if the document isn't
// encrypted.
func (x *XRef) Encrypt() *PdfObjectDictionary { return x.encrypt }

// GetEntry returns the byte offset of num's entry, as an integer object, if
// the entry is allocated and uncompressed with a nonzero offset, else
// PdfObjectNull. The entry itself (type, generation) is not returned.
func (x *XRef) GetEntry(num int64) PdfObject {
	e, ok := x.entries[num]
	if !ok || e.XType != XRefTypeUncompressed || e.Offset == 0 {
		return MakeNull()
	}
	return MakeInteger(e.Offset)
}

// Resolve implements the Resolver interface primitives.go needs for
// TraceToDirectObject, by delegating to Fetch.
func (x *XRef) Resolve(ref *PdfObjectReference) (PdfObject, error) {
	return x.Fetch(ref, false)
}

// Parse fully processes xref data: in normal mode it drives readXRef from
// the seeded startXRefQueue; on structural failure it returns
// XRefParseError so the caller can retry with recoveryMode=true, which
// instead performs the indexObjects byte scan.
func (x *XRef) Parse(recoveryMode bool) error {
	if recoveryMode {
		return x.indexObjects()
	}
	if err := x.readXRef(); err != nil {
		if _, isMissing := AsMissingData(err); isMissing {
			return err
		}
		return NewXRefParseError("%v", err)
	}
	if x.trailer == nil || x.trailer.Get("Root") == nil {
		return NewXRefParseError("no trailer/root established")
	}
	root, err := TraceToDirectObject(x.trailer.Get("Root"), x)
	if err != nil {
		return err
	}
	x.root = root
	if enc := x.trailer.Get("Encrypt"); enc != nil {
		encDirect, err := TraceToDirectObject(enc, x)
		if err == nil {
			if d, ok := GetDict(encDirect); ok {
				x.encrypt = d
			}
		}
	}
	if !x.opts.LazyLoad {
		x.loadAll()
	}
	return nil
}

// loadAll eagerly fetches every allocated entry so later object access
// never touches the stream. Individual failures are logged, not fatal: a
// damaged object surfaces when (if) something actually asks for it.
func (x *XRef) loadAll() {
	for num, e := range x.entries {
		if e.XType == XRefTypeFree {
			continue
		}
		gen := int64(0)
		if e.XType == XRefTypeUncompressed {
			gen = e.Generation
		}
		if _, err := x.Fetch(MakeReference(num, gen), false); err != nil {
			common.Log.Debug("eager load of object %d failed: %v", num, err)
		}
	}
}

// ParseAsync is the fetchAsync-style suspending wrapper for Parse: on
// MissingData it requests the byte range via requester and retries, never
// surfacing MissingData to its own caller.
func (x *XRef) ParseAsync(recoveryMode bool, requester RangeRequester) error {
	for {
		err := x.Parse(recoveryMode)
		md, isMissing := AsMissingData(err)
		if !isMissing {
			return err
		}
		if reqErr := requester.RequestRanges([]ByteRange{{md.Begin, md.End}}); reqErr != nil {
			return reqErr
		}
	}
}

// readXRef drains startXRefQueue, guarded by visitedOffsets so a Prev
// chain that cycles back on itself terminates.
func (x *XRef) readXRef() error {
	for len(x.startXRefQueue) > 0 {
		offset := x.startXRefQueue[0]
		if x.visitedOffsets[offset] {
			x.startXRefQueue = x.startXRefQueue[1:]
			continue
		}

		p := NewParser(x.stream)
		if err := p.Seek(offset); err != nil {
			return err
		}
		tok, err := p.peekRawToken()
		if err != nil {
			return err
		}
		var trailer *PdfObjectDictionary
		if tok == "xref" {
			trailer, err = x.processXRefTable(p, offset)
		} else {
			trailer, err = x.processXRefStream(p, offset)
		}
		if err != nil {
			// The offset stays at the queue head and unvisited; a MissingData
			// retry re-enters here and the table/stream state resumes the
			// read mid-subsection.
			return err
		}
		// Only now is the section done: dequeue and mark visited.
		x.startXRefQueue = x.startXRefQueue[1:]
		x.visitedOffsets[offset] = true
		if trailer == nil {
			continue
		}
		if x.trailer == nil {
			x.trailer = trailer
		}
		// Hybrid-file xref stream, read first (it's the more complete
		// table for this trailer generation).
		if xrs := trailer.Get("XRefStm"); xrs != nil {
			if off, ok := GetIntVal(xrs); ok {
				x.startXRefQueue = append(x.startXRefQueue, int64(off))
			}
		}
		if prev := trailer.Get("Prev"); prev != nil {
			if off, ok := resolvePrevOffset(prev, x); ok {
				x.startXRefQueue = append(x.startXRefQueue, off)
			}
		}
	}
	return nil
}

// resolvePrevOffset accepts Prev that is a plain integer, or (tolerating
// non-compliant writers) an indirect reference to one. Cycles survive the
// indirection: even when the referenced integer points back at an
// already-visited offset, visitedOffsets in readXRef catches it on the
// next dequeue.
func resolvePrevOffset(obj PdfObject, x *XRef) (int64, bool) {
	if i, ok := GetIntVal(obj); ok {
		return int64(i), true
	}
	if ref, isRef := obj.(*PdfObjectReference); isRef {
		resolved, err := x.Fetch(ref, true)
		if err != nil {
			return 0, false
		}
		if i, ok := GetIntVal(resolved); ok {
			return int64(i), true
		}
	}
	return 0, false
}

// Fetch returns the PdfValue for ref, decrypting when applicable. It may
// fail with MissingDataError or an XRefEntryError.
func (x *XRef) Fetch(ref *PdfObjectReference, suppressEncryption bool) (PdfObject, error) {
	if cached, ok := x.cache[ref.ObjectNumber]; ok {
		if d, ok := GetDict(cached); ok {
			d.SetObjId(strconv.FormatInt(ref.ObjectNumber, 10) + " " + strconv.FormatInt(ref.Generation, 10))
		}
		return cached, nil
	}

	entry, ok := x.entries[ref.ObjectNumber]
	if !ok || entry.XType == XRefTypeFree {
		x.cache[ref.ObjectNumber] = MakeNull()
		return x.cache[ref.ObjectNumber], nil
	}

	var obj PdfObject
	var err error
	switch entry.XType {
	case XRefTypeUncompressed:
		obj, err = x.fetchUncompressed(ref, entry, suppressEncryption)
	case XRefTypeCompressed:
		obj, err = x.fetchCompressed(ref, entry)
		// A bad compressed entry means the xref chain itself is wrong;
		// rebuild the table by scanning and retry once.
		if err != nil && !x.repairsAttempted {
			var xre *XRefEntryError
			if xerrors.As(err, &xre) {
				common.Log.Debug("fetchCompressed failed for object %d (%v), rebuilding xref", ref.ObjectNumber, err)
				if rerr := x.indexObjects(); rerr == nil {
					return x.Fetch(ref, suppressEncryption)
				}
			}
		}
	default:
		return nil, NewXRefEntryError("unknown entry type for object %d", ref.ObjectNumber)
	}
	if err != nil {
		return nil, err
	}

	idStr := strconv.FormatInt(ref.ObjectNumber, 10) + " " + strconv.FormatInt(ref.Generation, 10)
	if d, ok := GetDict(obj); ok {
		d.SetObjId(idStr)
	}
	if _, isStream := obj.(*PdfObjectStream); !isStream {
		x.cache[ref.ObjectNumber] = obj
	}
	return obj, nil
}

// FetchAsync is the suspending variant of Fetch: on MissingData it requests
// the byte range through requester and retries; it never surfaces
// MissingData.
func (x *XRef) FetchAsync(ref *PdfObjectReference, suppressEncryption bool, requester RangeRequester) (PdfObject, error) {
	for {
		obj, err := x.Fetch(ref, suppressEncryption)
		md, isMissing := AsMissingData(err)
		if !isMissing {
			return obj, err
		}
		if reqErr := requester.RequestRanges([]ByteRange{{md.Begin, md.End}}); reqErr != nil {
			return nil, reqErr
		}
	}
}

// FetchIfRef resolves obj if it is a reference, and is the identity
// otherwise.
func (x *XRef) FetchIfRef(obj PdfObject) (PdfObject, error) {
	ref, isRef := obj.(*PdfObjectReference)
	if !isRef {
		return obj, nil
	}
	return x.Fetch(ref, false)
}

// FetchIfRefAsync is the suspending counterpart of FetchIfRef.
func (x *XRef) FetchIfRefAsync(obj PdfObject, requester RangeRequester) (PdfObject, error) {
	ref, isRef := obj.(*PdfObjectReference)
	if !isRef {
		return obj, nil
	}
	return x.FetchAsync(ref, false, requester)
}

// fetchUncompressed reads an object stored at a direct byte offset,
// validating its "N G obj" header against the entry.
func (x *XRef) fetchUncompressed(ref *PdfObjectReference, entry *XRefEntry, suppressEncryption bool) (PdfObject, error) {
	if entry.Generation != ref.Generation {
		return nil, NewXRefEntryError("generation mismatch for object %d: entry has %d, requested %d",
			ref.ObjectNumber, entry.Generation, ref.Generation)
	}

	p := NewParser(x.stream)
	if err := p.Seek(entry.Offset); err != nil {
		return nil, err
	}
	ind, err := p.ParseIndirectObject()
	if err != nil {
		return nil, err
	}
	if ind.ObjectNumber != ref.ObjectNumber || ind.Generation != ref.Generation {
		return nil, NewXRefEntryError("header mismatch at offset %d: got %d %d, want %d %d",
			entry.Offset, ind.ObjectNumber, ind.Generation, ref.ObjectNumber, ref.Generation)
	}

	obj := ind.PdfObject
	if x.encrypt != nil && !suppressEncryption && x.decryptor != nil {
		if s, ok := obj.(*PdfObjectStream); ok {
			dec, err := x.decryptor.DecryptObject(ref.ObjectNumber, ref.Generation, s.Stream)
			if err == nil {
				s.Stream = dec
			}
		} else if str, ok := obj.(*PdfObjectString); ok {
			dec, err := x.decryptor.DecryptObject(ref.ObjectNumber, ref.Generation, str.bytes)
			if err == nil {
				str.bytes = dec
			}
		}
	}
	return obj, nil
}

// fetchCompressed expands the object stream an entry points into, caching
// every member whose xref entry agrees, and returns the requested member.
func (x *XRef) fetchCompressed(ref *PdfObjectReference, entry *XRefEntry) (PdfObject, error) {
	objStmRef := MakeReference(entry.Offset, 0)
	objStmObj, err := x.Fetch(objStmRef, true)
	if err != nil {
		return nil, err
	}
	objStm, ok := GetStream(objStmObj)
	if !ok {
		return nil, NewXRefEntryError("object %d's container %d is not a stream", ref.ObjectNumber, entry.Offset)
	}
	n, ok := GetIntVal(objStm.Get("N"))
	if !ok {
		return nil, NewXRefEntryError("object stream %d missing /N", entry.Offset)
	}
	first, ok := GetIntVal(objStm.Get("First"))
	if !ok {
		return nil, NewXRefEntryError("object stream %d missing /First", entry.Offset)
	}

	headerParser := NewParserFromBytes(objStm.Stream)
	type member struct {
		num, off int64
	}
	members := make([]member, 0, n)
	for i := 0; i < n; i++ {
		numTok, err := headerParser.readRawToken()
		if err != nil {
			return nil, err
		}
		offTok, err := headerParser.readRawToken()
		if err != nil {
			return nil, err
		}
		num, _ := strconv.ParseInt(numTok, 10, 64)
		off, _ := strconv.ParseInt(offTok, 10, 64)
		members = append(members, member{num, off})
	}

	var result PdfObject
	for i, m := range members {
		bodyParser := NewParserFromBytes(objStm.Stream)
		if err := bodyParser.Seek(int64(first) + m.off); err != nil {
			return nil, err
		}
		obj, err := bodyParser.ParseObject()
		if err != nil {
			return nil, err
		}
		// Tolerate a stray "endobj" between members.
		if tok, err := bodyParser.peekRawToken(); err == nil && tok == "endobj" {
			bodyParser.readRawToken()
		}

		if curEntry, has := x.entries[m.num]; has && curEntry.XType == XRefTypeCompressed &&
			curEntry.Offset == entry.Offset && curEntry.Index == int64(i) {
			x.cache[m.num] = obj
		}
		if m.num == ref.ObjectNumber && int64(i) == entry.Index {
			result = obj
		}
	}
	if result == nil {
		return nil, NewXRefEntryError("member %d/%d not found in object stream %d", ref.ObjectNumber, entry.Index, entry.Offset)
	}
	return result, nil
}

// printXrefTable dumps the entry table at Trace level.
func (x *XRef) printXrefTable() {
	if !common.Log.IsLogLevel(common.LogLevelTrace) {
		return
	}
	var b strings.Builder
	for num, e := range x.entries {
		switch e.XType {
		case XRefTypeFree:
			b.WriteString(strconv.FormatInt(num, 10) + ": free\n")
		case XRefTypeUncompressed:
			b.WriteString(strconv.FormatInt(num, 10) + ": uncompressed @" + strconv.FormatInt(e.Offset, 10) + "\n")
		case XRefTypeCompressed:
			b.WriteString(strconv.FormatInt(num, 10) + ": compressed in " + strconv.FormatInt(e.Offset, 10) + "\n")
		}
	}
	common.Log.Trace("xref table:\n%s", b.String())
}
