/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import "github.com/pdfxref/pdfxref/core"

// stubResolver resolves indirect references against an in-memory object
// table, for tests that only need the core.Resolver contract and not a full
// XRef/byte stream.
type stubResolver struct {
	objects map[int64]core.PdfObject
}

func newStubResolver() *stubResolver {
	return &stubResolver{objects: map[int64]core.PdfObject{}}
}

func (r *stubResolver) put(num int64, obj core.PdfObject) {
	r.objects[num] = obj
}

func (r *stubResolver) Resolve(ref *core.PdfObjectReference) (core.PdfObject, error) {
	obj, ok := r.objects[ref.ObjectNumber]
	if !ok {
		return core.MakeNull(), nil
	}
	return obj, nil
}
