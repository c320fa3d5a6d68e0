/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Sentinel errors returned by the primitive accessors (GetIntVal, GetName,
// etc).
var (
	ErrTypeError   = xerrors.New("core: type check error")
	ErrRangeError  = xerrors.New("core: range check error")
	ErrNotANumber  = xerrors.New("core: object is not a number")
	ErrInvalidPdf  = xerrors.New("core: invalid pdf structure")
)

// MissingDataError signals that resolving an object requires bytes that the
// underlying Stream has not received yet. Callers of the synchronous fetch
// path propagate it; fetchAsync-style callers catch it, request the byte
// range, and retry.
type MissingDataError struct {
	Begin, End int64
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("core: missing data [%d, %d)", e.Begin, e.End)
}

// NewMissingDataError builds a MissingDataError for the half-open byte range
// [begin, end).
func NewMissingDataError(begin, end int64) error {
	return &MissingDataError{Begin: begin, End: end}
}

// AsMissingData reports whether err (or something it wraps) is a
// MissingDataError, returning it for range extraction.
func AsMissingData(err error) (*MissingDataError, bool) {
	var md *MissingDataError
	if xerrors.As(err, &md) {
		return md, true
	}
	return nil, false
}

// XRefEntryError is raised when an xref entry does not match the object it
// is supposed to describe (generation mismatch, wrong "N G obj" header,
// dangling compressed-object reference).
type XRefEntryError struct {
	Msg string
}

func (e *XRefEntryError) Error() string { return "core: xref entry error: " + e.Msg }

// NewXRefEntryError builds an XRefEntryError.
func NewXRefEntryError(msg string, args ...interface{}) error {
	return &XRefEntryError{Msg: fmt.Sprintf(msg, args...)}
}

// XRefParseError is raised when the xref table/stream chain cannot be read
// in normal mode; the caller is expected to retry parse(recoveryMode=true).
type XRefParseError struct {
	Msg string
}

func (e *XRefParseError) Error() string { return "core: xref parse error: " + e.Msg }

// NewXRefParseError builds an XRefParseError.
func NewXRefParseError(msg string, args ...interface{}) error {
	return &XRefParseError{Msg: fmt.Sprintf(msg, args...)}
}

// FormatError represents a structural violation of the PDF spec that is
// non-fatal to the overall document (missing optional key, wrong type for
// an optional field). Callers of optional views catch it, log it, and
// substitute a default value, per the propagation policy of the error
// taxonomy.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string { return "core: format error: " + e.Msg }

// NewFormatError builds a FormatError.
func NewFormatError(msg string, args ...interface{}) error {
	return &FormatError{Msg: fmt.Sprintf(msg, args...)}
}

// IsFormatError reports whether err is (or wraps) a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return xerrors.As(err, &fe)
}

// InvalidPdfError is fatal: recovery-mode scanning produced no trailer that
// validates.
type InvalidPdfError struct {
	Msg   string
	Cause error
}

func (e *InvalidPdfError) Error() string {
	if e.Cause != nil {
		return "core: invalid pdf: " + e.Msg + ": " + e.Cause.Error()
	}
	return "core: invalid pdf: " + e.Msg
}

// Unwrap returns the wrapped cause, or nil.
func (e *InvalidPdfError) Unwrap() error { return e.Cause }

// NewInvalidPdfError builds an InvalidPdfError, wrapping cause if non-nil.
func NewInvalidPdfError(msg string, cause error) error {
	return &InvalidPdfError{Msg: msg, Cause: cause}
}
