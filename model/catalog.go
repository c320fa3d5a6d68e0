/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Catalog interprets the document's root dictionary: page tree walking
// with a kids-count cache, outline/destination/page-label extraction, and
// viewer-preference/permission validation. Optional views follow one
// policy throughout: format problems are logged and the view degrades to
// its zero value, while missing-data conditions always propagate so the
// caller can fetch and retry.
package model

import (
	"fmt"

	"github.com/pdfxref/pdfxref/common"
	"github.com/pdfxref/pdfxref/core"
	"github.com/pdfxref/pdfxref/core/security"
)

// Catalog is the high-level, memoized view over a parsed document's root
// dictionary.
type Catalog struct {
	root       *core.PdfObjectDictionary
	xref       *core.XRef
	docBaseURL string

	pageKidsCountCache map[string]int
	fontCache          map[string]TranslatedFont
	builtInCMapCache   map[string]core.PdfObject

	numPages    int
	numPagesOK  bool
	pagesDict   *core.PdfObjectDictionary
	pagesDictOK bool

	metadata       *Metadata
	metadataOK     bool
	pageLayout     string
	pageLayoutOK   bool
	pageMode       string
	pageModeOK     bool
	viewerPrefs    *ViewerPreferences
	viewerPrefsOK  bool
	openAction     *NormalizedAction
	openActionOK   bool
	outline        []*OutlineItem
	outlineOK      bool
	permissions    *security.Permissions
	permissionsOK  bool
	destinations   map[string]core.PdfObject
	destinationsOK bool
	pageLabels     []string
	pageLabelsOK   bool
	attachments    map[string]*Attachment
	attachmentsOK  bool
	javaScript     []string
	javaScriptOK   bool
}

var validPageLayouts = map[string]bool{
	"SinglePage": true, "OneColumn": true, "TwoColumnLeft": true,
	"TwoColumnRight": true, "TwoPageLeft": true, "TwoPageRight": true,
}

var validPageModes = map[string]bool{
	"UseNone": true, "UseOutlines": true, "UseThumbs": true,
	"FullScreen": true, "UseOC": true, "UseAttachments": true,
}

// NewCatalog wraps xref's root dictionary (as established by XRef.Parse) as
// a Catalog. docBaseURL anchors relative URLs in Launch/GoToR/URI actions.
func NewCatalog(xref *core.XRef, docBaseURL string) (*Catalog, error) {
	direct, err := core.TraceToDirectObject(xref.GetCatalogObj(), xref)
	if err != nil {
		return nil, err
	}
	root, ok := core.GetDict(direct)
	if !ok {
		return nil, core.NewFormatError("catalog root is not a dictionary")
	}
	return &Catalog{
		root:               root,
		xref:               xref,
		docBaseURL:         docBaseURL,
		pageKidsCountCache: map[string]int{},
		fontCache:          map[string]TranslatedFont{},
		builtInCMapCache:   map[string]core.PdfObject{},
	}, nil
}

// TranslatedFont is the font-processing collaborator's product: the catalog
// never builds one (font translation is outside this layer), it only caches
// them per font ref and replays fallback requests.
type TranslatedFont interface {
	LoadedName() string
	Fallback(handler interface{})
}

// CacheFont records a translated font under its owning reference, keyed by
// the reference's string form ("N G R").
func (c *Catalog) CacheFont(ref *core.PdfObjectReference, font TranslatedFont) {
	c.fontCache[ref.String()] = font
}

// CacheCMap records a built-in CMap by name.
func (c *Catalog) CacheCMap(name string, cmap core.PdfObject) {
	c.builtInCMapCache[name] = cmap
}

// CMap returns a previously cached built-in CMap.
func (c *Catalog) CMap(name string) (core.PdfObject, bool) {
	v, ok := c.builtInCMapCache[name]
	return v, ok
}

// FontFallback routes a fallback request to the cached font whose loaded
// name matches id, reporting whether one was found.
func (c *Catalog) FontFallback(id string, handler interface{}) bool {
	for _, font := range c.fontCache {
		if font.LoadedName() == id {
			font.Fallback(handler)
			return true
		}
	}
	return false
}

// Cleanup clears the performance-only caches (font, CMap, page kids
// count); correctness never depends on them being warm.
func (c *Catalog) Cleanup() {
	c.pageKidsCountCache = map[string]int{}
	c.fontCache = map[string]TranslatedFont{}
	c.builtInCMapCache = map[string]core.PdfObject{}
}

func (c *Catalog) resolve(obj core.PdfObject) (core.PdfObject, error) {
	return core.TraceToDirectObject(obj, c.xref)
}

// fetchStream adapts XRef.Fetch to ReadMetadata's expected callback shape,
// falling back to direct tracing when ref isn't itself an indirect
// reference (an inline /Metadata dict is nonstandard but tolerated).
func (c *Catalog) fetchStream(ref core.PdfObject, suppressEncryption bool) (core.PdfObject, error) {
	if r, ok := ref.(*core.PdfObjectReference); ok {
		return c.xref.Fetch(r, suppressEncryption)
	}
	return core.TraceToDirectObject(ref, c.xref)
}

// Metadata returns the decoded /Metadata stream, if any.
func (c *Catalog) Metadata() (*Metadata, error) {
	if c.metadataOK {
		return c.metadata, nil
	}
	suppress := false
	if enc := c.xref.Encrypt(); enc != nil {
		if b, ok := core.GetBoolVal(enc.Get("EncryptMetadata")); ok && !b {
			suppress = true
		}
	}
	md, err := ReadMetadata(c.root, c.xref, suppress, c.fetchStream)
	if err != nil {
		if md2, isMissing := core.AsMissingData(err); isMissing {
			return nil, md2
		}
		common.Log.Debug("metadata: %v", err)
		c.metadata, c.metadataOK = nil, true
		return nil, nil
	}
	c.metadata, c.metadataOK = md, true
	return md, nil
}

// ToplevelPagesDict returns the root /Pages dictionary.
func (c *Catalog) ToplevelPagesDict() (*core.PdfObjectDictionary, error) {
	if c.pagesDictOK {
		return c.pagesDict, nil
	}
	direct, err := c.resolve(c.root.Get("Pages"))
	if err != nil {
		if _, isMissing := core.AsMissingData(err); isMissing {
			return nil, err
		}
		return nil, core.NewFormatError("/Pages: %v", err)
	}
	dict, ok := core.GetDict(direct)
	if !ok {
		return nil, core.NewFormatError("/Pages is not a dictionary")
	}
	c.pagesDict, c.pagesDictOK = dict, true
	return dict, nil
}

// NumPages returns /Count of the top-level pages dictionary.
func (c *Catalog) NumPages() (int, error) {
	if c.numPagesOK {
		return c.numPages, nil
	}
	pages, err := c.ToplevelPagesDict()
	if err != nil {
		return 0, err
	}
	n, ok := core.GetIntVal(pages.Get("Count"))
	if !ok {
		return 0, core.NewFormatError("/Pages /Count is not an integer")
	}
	c.numPages, c.numPagesOK = n, true
	return n, nil
}

// PageLayout returns the validated /PageLayout name; default ""
// (distinct from SinglePage).
func (c *Catalog) PageLayout() string {
	if c.pageLayoutOK {
		return c.pageLayout
	}
	c.pageLayoutOK = true
	c.pageLayout = ""
	if v, ok := core.GetNameVal(c.root.Get("PageLayout")); ok && validPageLayouts[v] {
		c.pageLayout = v
	}
	return c.pageLayout
}

// PageMode returns the validated /PageMode name; default UseNone.
func (c *Catalog) PageMode() string {
	if c.pageModeOK {
		return c.pageMode
	}
	c.pageModeOK = true
	c.pageMode = "UseNone"
	if v, ok := core.GetNameVal(c.root.Get("PageMode")); ok && validPageModes[v] {
		c.pageMode = v
	}
	return c.pageMode
}

// ViewerPreferences returns the validated /ViewerPreferences subset.
func (c *Catalog) ViewerPreferences() (*ViewerPreferences, error) {
	if c.viewerPrefsOK {
		return c.viewerPrefs, nil
	}
	numPages, _ := c.NumPages()
	var dict *core.PdfObjectDictionary
	if v := c.root.Get("ViewerPreferences"); v != nil {
		direct, err := c.resolve(v)
		if err != nil {
			if _, isMissing := core.AsMissingData(err); isMissing {
				return nil, err
			}
		} else {
			dict, _ = core.GetDict(direct)
		}
	}
	vp := ParseViewerPreferences(dict, numPages, c.xref)
	c.viewerPrefs, c.viewerPrefsOK = vp, true
	return vp, nil
}

// OpenActionDestination interprets /OpenAction: a dict is treated as an
// action and its destination extracted; an array is a destination
// literal.
func (c *Catalog) OpenActionDestination() (*NormalizedAction, error) {
	if c.openActionOK {
		return c.openAction, nil
	}
	oa := c.root.Get("OpenAction")
	if oa == nil {
		c.openActionOK = true
		return nil, nil
	}
	direct, err := c.resolve(oa)
	if err != nil {
		if _, isMissing := core.AsMissingData(err); isMissing {
			return nil, err
		}
		common.Log.Debug("OpenAction: %v", err)
		c.openActionOK = true
		return nil, nil
	}
	var result *NormalizedAction
	if dict, ok := core.GetDict(direct); ok {
		result = ParseDestDictionary(actionAsDestDict(dict), c.xref, c.docBaseURL)
	} else if arr, ok := core.GetArray(direct); ok {
		result = ParseDestArray(arr)
	}
	c.openAction, c.openActionOK = result, true
	return result, nil
}

// actionAsDestDict wraps a bare action dict so ParseDestDictionary (which
// looks for /A) sees it as the action itself.
func actionAsDestDict(action *core.PdfObjectDictionary) *core.PdfObjectDictionary {
	wrapper := core.MakeDict()
	wrapper.Set("A", action)
	return wrapper
}

// DocumentOutline returns the parsed outline (bookmark) tree.
func (c *Catalog) DocumentOutline() ([]*OutlineItem, error) {
	if c.outlineOK {
		return c.outline, nil
	}
	outlinesObj := c.root.Get("Outlines")
	if outlinesObj == nil {
		c.outlineOK = true
		return nil, nil
	}
	direct, err := c.resolve(outlinesObj)
	if err != nil {
		if _, isMissing := core.AsMissingData(err); isMissing {
			return nil, err
		}
		common.Log.Debug("Outlines: %v", err)
		c.outlineOK = true
		return nil, nil
	}
	dict, ok := core.GetDict(direct)
	if !ok {
		c.outlineOK = true
		return nil, nil
	}
	items, err := ReadDocumentOutline(dict, c.xref, c.docBaseURL)
	if err != nil {
		if _, isMissing := core.AsMissingData(err); isMissing {
			return nil, err
		}
		common.Log.Debug("documentOutline: %v", err)
		c.outlineOK = true
		return nil, nil
	}
	c.outline, c.outlineOK = items, true
	return items, nil
}

// Permissions decodes /Encrypt /P into a permissions bitfield, or nil
// when the document is unencrypted or /P is not numeric.
func (c *Catalog) Permissions() (*security.Permissions, error) {
	if c.permissionsOK {
		return c.permissions, nil
	}
	c.permissionsOK = true
	enc := c.xref.Encrypt()
	if enc == nil {
		return nil, nil
	}
	pObj := enc.Get("P")
	if pObj == nil {
		return nil, nil
	}
	p, ok := core.GetIntVal(pObj)
	if !ok {
		return nil, nil
	}
	perm := security.FromSignedP(int64(p))
	c.permissions = &perm
	return c.permissions, nil
}

// Destinations merges the /Names/Dests name tree with the legacy /Dests
// dictionary into one map.
func (c *Catalog) Destinations() (map[string]core.PdfObject, error) {
	if c.destinationsOK {
		return c.destinations, nil
	}
	result := map[string]core.PdfObject{}

	if legacy := c.root.Get("Dests"); legacy != nil {
		direct, err := c.resolve(legacy)
		if err != nil {
			if _, isMissing := core.AsMissingData(err); isMissing {
				return nil, err
			}
		} else if dict, ok := core.GetDict(direct); ok {
			for _, k := range dict.Keys() {
				v, err := c.resolve(dict.Get(k))
				if err != nil {
					if _, isMissing := core.AsMissingData(err); isMissing {
						return nil, err
					}
					continue
				}
				result[string(k)] = fetchDestinationValue(v)
			}
		}
	}

	if namesRoot, ok, err := c.namesSubDict("Dests"); err != nil {
		if _, isMissing := core.AsMissingData(err); isMissing {
			return nil, err
		}
	} else if ok {
		all, err := NewNameTree(namesRoot, c.xref).GetAll()
		if err != nil {
			common.Log.Debug("destinations: %v", err)
		} else {
			for k, v := range all {
				direct, err := c.resolve(v)
				if err != nil {
					if _, isMissing := core.AsMissingData(err); isMissing {
						return nil, err
					}
					continue
				}
				result[k] = fetchDestinationValue(direct)
			}
		}
	}

	c.destinations, c.destinationsOK = result, true
	return result, nil
}

// GetDestination looks up a single named destination across the same two
// sources Destinations merges, without materializing the whole map.
func (c *Catalog) GetDestination(id string) (core.PdfObject, bool, error) {
	if namesRoot, ok, err := c.namesSubDict("Dests"); err != nil {
		if _, isMissing := core.AsMissingData(err); isMissing {
			return nil, false, err
		}
	} else if ok {
		if v, found := NewNameTree(namesRoot, c.xref).Get(id); found {
			direct, err := c.resolve(v)
			if err != nil {
				return nil, false, err
			}
			return fetchDestinationValue(direct), true, nil
		}
	}

	if legacy := c.root.Get("Dests"); legacy != nil {
		direct, err := c.resolve(legacy)
		if err != nil {
			if _, isMissing := core.AsMissingData(err); isMissing {
				return nil, false, err
			}
		} else if dict, ok := core.GetDict(direct); ok {
			if v := dict.Get(core.PdfObjectName(id)); v != nil {
				resolved, err := c.resolve(v)
				if err != nil {
					return nil, false, err
				}
				return fetchDestinationValue(resolved), true, nil
			}
		}
	}
	return nil, false, nil
}

// fetchDestinationValue unwraps a destination value: a dict yields its
// /D entry, everything else passes through as-is.
func fetchDestinationValue(v core.PdfObject) core.PdfObject {
	if dict, ok := core.GetDict(v); ok {
		if d := dict.Get("D"); d != nil {
			return d
		}
	}
	return v
}

// namesSubDict resolves /Names/<key> (e.g. Dests, EmbeddedFiles,
// JavaScript) into a dict, reporting ok=false when /Names or the key is
// absent.
func (c *Catalog) namesSubDict(key core.PdfObjectName) (*core.PdfObjectDictionary, bool, error) {
	namesObj := c.root.Get("Names")
	if namesObj == nil {
		return nil, false, nil
	}
	namesDirect, err := c.resolve(namesObj)
	if err != nil {
		return nil, false, err
	}
	names, ok := core.GetDict(namesDirect)
	if !ok {
		return nil, false, nil
	}
	subObj := names.Get(key)
	if subObj == nil {
		return nil, false, nil
	}
	subDirect, err := c.resolve(subObj)
	if err != nil {
		return nil, false, err
	}
	sub, ok := core.GetDict(subDirect)
	return sub, ok, nil
}

// PageLabels computes the display label for every page from /PageLabels.
func (c *Catalog) PageLabels() ([]string, error) {
	if c.pageLabelsOK {
		return c.pageLabels, nil
	}
	plObj := c.root.Get("PageLabels")
	if plObj == nil {
		c.pageLabelsOK = true
		return nil, nil
	}
	direct, err := c.resolve(plObj)
	if err != nil {
		if _, isMissing := core.AsMissingData(err); isMissing {
			return nil, err
		}
		common.Log.Debug("PageLabels: %v", err)
		c.pageLabelsOK = true
		return nil, nil
	}
	dict, ok := core.GetDict(direct)
	if !ok {
		c.pageLabelsOK = true
		return nil, nil
	}
	numPages, err := c.NumPages()
	if err != nil {
		common.Log.Debug("PageLabels: %v", err)
		c.pageLabelsOK = true
		return nil, nil
	}
	labels, err := ReadPageLabels(dict, numPages, c.xref)
	if err != nil {
		if _, isMissing := core.AsMissingData(err); isMissing {
			return nil, err
		}
		common.Log.Debug("PageLabels: %v", err)
		c.pageLabelsOK = true
		return nil, nil
	}
	c.pageLabels, c.pageLabelsOK = labels, true
	return labels, nil
}

// Attachments builds a FileSpec for each entry in /Names/EmbeddedFiles
// and returns the resolved {filename, content} pairs.
func (c *Catalog) Attachments() (map[string]*Attachment, error) {
	if c.attachmentsOK {
		return c.attachments, nil
	}
	result := map[string]*Attachment{}
	efRoot, ok, err := c.namesSubDict("EmbeddedFiles")
	if err != nil {
		if _, isMissing := core.AsMissingData(err); isMissing {
			return nil, err
		}
		common.Log.Debug("attachments: %v", err)
		c.attachmentsOK = true
		return result, nil
	}
	if !ok {
		c.attachmentsOK = true
		return result, nil
	}
	all, err := NewNameTree(efRoot, c.xref).GetAll()
	if err != nil {
		common.Log.Debug("attachments: %v", err)
		c.attachmentsOK = true
		return result, nil
	}
	for name, v := range all {
		direct, err := c.resolve(v)
		if err != nil {
			if _, isMissing := core.AsMissingData(err); isMissing {
				return nil, err
			}
			continue
		}
		dict, ok := core.GetDict(direct)
		if !ok {
			continue
		}
		fs := NewFileSpec(dict, c.xref)
		att, err := fs.Serializable()
		if err != nil {
			if _, isMissing := core.AsMissingData(err); isMissing {
				return nil, err
			}
			common.Log.Debug("attachment %q: %v", name, err)
			continue
		}
		result[name] = att
	}
	c.attachments, c.attachmentsOK = result, true
	return result, nil
}

// JavaScript collects every /Names/JavaScript entry with S=JavaScript,
// plus the literal print({}); action when /OpenAction is a Named/Print
// action.
func (c *Catalog) JavaScript() ([]string, error) {
	if c.javaScriptOK {
		return c.javaScript, nil
	}
	var scripts []string
	jsRoot, ok, err := c.namesSubDict("JavaScript")
	if err != nil {
		if _, isMissing := core.AsMissingData(err); isMissing {
			return nil, err
		}
		common.Log.Debug("javaScript: %v", err)
	} else if ok {
		all, err := NewNameTree(jsRoot, c.xref).GetAll()
		if err != nil {
			common.Log.Debug("javaScript: %v", err)
		} else {
			for _, v := range all {
				direct, err := c.resolve(v)
				if err != nil {
					if _, isMissing := core.AsMissingData(err); isMissing {
						return nil, err
					}
					continue
				}
				dict, ok := core.GetDict(direct)
				if !ok {
					continue
				}
				if s, ok := core.GetNameVal(dict.Get("S")); !ok || s != "JavaScript" {
					continue
				}
				jsVal, err := c.resolve(dict.Get("JS"))
				if err != nil {
					if _, isMissing := core.AsMissingData(err); isMissing {
						return nil, err
					}
					continue
				}
				if text, ok := core.GetStringVal(jsVal); ok {
					scripts = append(scripts, text)
				} else if stream, ok := core.GetStream(jsVal); ok {
					scripts = append(scripts, string(stream.Stream))
				}
			}
		}
	}

	if oa := c.root.Get("OpenAction"); oa != nil {
		direct, err := c.resolve(oa)
		if _, isMissing := core.AsMissingData(err); isMissing {
			return nil, err
		}
		if err == nil {
			if dict, ok := core.GetDict(direct); ok {
				s, _ := core.GetNameVal(dict.Get("S"))
				n, _ := core.GetNameVal(dict.Get("N"))
				if s == "Named" && n == "Print" {
					scripts = append(scripts, "print({});")
				}
			}
		}
	}

	c.javaScript, c.javaScriptOK = scripts, true
	return scripts, nil
}

// pageTreeStackEntry is one pending node in the GetPageDict LIFO walk.
type pageTreeStackEntry struct {
	dict *core.PdfObjectDictionary
	ref  core.PdfObject // the raw Kids-array element this dict was reached through, or nil for the root
}

// GetPageDict locates the page at pageIndex: it descends from
// /Pages using an explicit LIFO node list, consulting pageKidsCountCache to
// skip subtrees whose cumulative leaf count falls below pageIndex. It
// returns the resolved leaf dictionary and the raw reference it was
// reached through (nil if the tree inlines the page directly).
func (c *Catalog) GetPageDict(pageIndex int) (*core.PdfObjectDictionary, core.PdfObject, error) {
	root, err := c.ToplevelPagesDict()
	if err != nil {
		return nil, nil, err
	}
	if pageIndex < 0 {
		return nil, nil, core.NewFormatError("page index %d out of range", pageIndex)
	}

	stack := []pageTreeStackEntry{{dict: root}}
	currentPageIndex := 0

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key := c.pageCacheKey(top.dict, top.ref)

		if kids, ok := core.GetArray(top.dict.Get("Kids")); ok {
			if cachedCount, found := c.pageKidsCountCache[key]; found {
				if currentPageIndex+cachedCount <= pageIndex {
					currentPageIndex += cachedCount
					continue
				}
			} else if cnt, ok := core.GetIntVal(top.dict.Get("Count")); ok && cnt >= 0 {
				c.pageKidsCountCache[key] = cnt
				if currentPageIndex+cnt <= pageIndex {
					currentPageIndex += cnt
					continue
				}
			}

			for i := kids.Len() - 1; i >= 0; i-- {
				kidRaw := kids.Get(i)
				kidDirect, err := c.resolve(kidRaw)
				if err != nil {
					return nil, nil, err
				}
				kidDict, ok := core.GetDict(kidDirect)
				if !ok {
					continue
				}
				stack = append(stack, pageTreeStackEntry{dict: kidDict, ref: kidRaw})
			}
			continue
		}

		if isPageLeaf(top.dict) {
			if currentPageIndex == pageIndex {
				c.pageKidsCountCache[key] = 1
				return top.dict, top.ref, nil
			}
			currentPageIndex++
			c.pageKidsCountCache[key] = 1
			continue
		}

		return nil, nil, core.NewFormatError("malformed page tree node (no Kids, not a page)")
	}

	return nil, nil, core.NewFormatError("page index %d unreachable", pageIndex)
}

// isPageLeaf is the page-tree leaf test: Type=Page, or (tolerating
// writers that omit it) no Type but present Contents.
func isPageLeaf(dict *core.PdfObjectDictionary) bool {
	if t, ok := core.GetNameVal(dict.Get("Type")); ok {
		return t == "Page"
	}
	return dict.Get("Contents") != nil
}

func (c *Catalog) pageCacheKey(dict *core.PdfObjectDictionary, ref core.PdfObject) string {
	if id := dict.ObjId(); id != "" {
		return id
	}
	if r, ok := ref.(*core.PdfObjectReference); ok {
		return fmt.Sprintf("%d %d R", r.ObjectNumber, r.Generation)
	}
	return fmt.Sprintf("%p", dict)
}

// GetPageIndex is the inverse of GetPageDict.
// Starting from ref, repeatedly fetches Parent, summing Count (or 1 for
// leaves) over siblings strictly before ref at each level. Stops when
// Parent is absent (at the root).
func (c *Catalog) GetPageIndex(ref *core.PdfObjectReference) (int, error) {
	total := 0
	cur := ref
	for {
		obj, err := c.xref.Fetch(cur, false)
		if err != nil {
			return 0, err
		}
		dict, ok := core.GetDict(obj)
		if !ok {
			return 0, core.NewFormatError("getPageIndex: object is not a dictionary")
		}
		parentObj := dict.Get("Parent")
		if parentObj == nil {
			break
		}
		parentRef, isRef := parentObj.(*core.PdfObjectReference)
		if !isRef {
			break
		}
		parentDirect, err := c.xref.Fetch(parentRef, false)
		if err != nil {
			return 0, err
		}
		parentDict, ok := core.GetDict(parentDirect)
		if !ok {
			return 0, core.NewFormatError("getPageIndex: parent is not a dictionary")
		}
		kids, ok := core.GetArray(parentDict.Get("Kids"))
		if !ok {
			return 0, core.NewFormatError("getPageIndex: parent missing /Kids")
		}
		for i := 0; i < kids.Len(); i++ {
			kidRaw := kids.Get(i)
			if kidRef, ok := kidRaw.(*core.PdfObjectReference); ok {
				if kidRef.ObjectNumber == cur.ObjectNumber && kidRef.Generation == cur.Generation {
					break
				}
			}
			kidDirect, err := c.resolve(kidRaw)
			if err != nil {
				return 0, err
			}
			kidDict, ok := core.GetDict(kidDirect)
			if !ok {
				continue
			}
			if cnt, ok := core.GetIntVal(kidDict.Get("Count")); ok {
				total += cnt
			} else {
				total++
			}
		}
		cur = parentRef
	}
	return total, nil
}
