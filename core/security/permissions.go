/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package security holds the permissions bitfield decoded from
// /Encrypt /P. Actual encryption and decryption live with the cipher
// layer; this package only interprets the access bits.
package security

import "math"

// Permissions is a bitmask of access permissions for a PDF file, decoded
// from the signed 32-bit /Encrypt /P value normalized to unsigned.
type Permissions uint32

const (
	// PermOwner grants all permissions.
	PermOwner = Permissions(math.MaxUint32)

	// PermPrinting allows printing the document with low quality.
	PermPrinting = Permissions(1 << 2)
	// PermModify allows modifying the document.
	PermModify = Permissions(1 << 3)
	// PermExtractGraphics allows extracting graphics from the document.
	PermExtractGraphics = Permissions(1 << 4)
	// PermAnnotate allows annotating the document.
	PermAnnotate = Permissions(1 << 5)
	// PermFillForms allows form filling.
	PermFillForms = Permissions(1 << 8)
	// PermDisabilityExtract allows extracting graphics in accessibility mode.
	PermDisabilityExtract = Permissions(1 << 9)
	// PermRotateInsert allows rotating pages and editing page order.
	PermRotateInsert = Permissions(1 << 10)
	// PermFullPrintQuality allows full (as opposed to low) print quality.
	PermFullPrintQuality = Permissions(1 << 11)
)

// Allowed checks whether p2's bits are a subset of p's.
func (p Permissions) Allowed(p2 Permissions) bool {
	return p&p2 == p2
}

// FromSignedP normalizes a signed 32-bit /P value (as decoded from a PDF
// integer object) to unsigned bitfield form: add 2^32 to negative values,
// then mask to 32 bits.
func FromSignedP(p int64) Permissions {
	if p < 0 {
		p += 1 << 32
	}
	return Permissions(uint32(p))
}
