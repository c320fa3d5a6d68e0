/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package core implements the PDF primitive object model, the
// cross-reference resolver, and the lexer/parser that turns raw bytes into
// PdfObject values. It is the lowest layer of the module: it knows nothing
// about pages, outlines, or destinations, only about objects, refs, and the
// tables that map the one to the other.
package core
