// Package sheetkit is the public entry point for reading, mutating, and
// writing OOXML spreadsheet packages. It re-exports the workbook
// façade's core types so a caller never has to import the workbook
// subpackage directly, and it unifies the Kind every subpackage's own
// *Error raises into one closed taxonomy a caller can switch on with
// errors.As(err, &sheetkit.Error{}) regardless of which subpackage
// actually produced it.
package sheetkit

import (
	"github.com/gosheetkit/sheetkit/cellref"
	"github.com/gosheetkit/sheetkit/formula"
	"github.com/gosheetkit/sheetkit/opc"
	"github.com/gosheetkit/sheetkit/sst"
	"github.com/gosheetkit/sheetkit/streamwriter"
	"github.com/gosheetkit/sheetkit/style"
	"github.com/gosheetkit/sheetkit/workbook"
	"github.com/gosheetkit/sheetkit/worksheet"
	"github.com/gosheetkit/sheetkit/xlcrypto"
)

// Workbook, Sheet, Cell, and CellValue are aliases for the façade's own
// types: a caller working only against this package gets the same
// values back from every method, with no wrapping or copying.
type (
	Workbook  = workbook.Workbook
	Sheet     = workbook.Sheet
	Cell      = worksheet.Cell
	CellValue = worksheet.Value
)

// New and Open are the façade's own constructors, re-exported so a
// caller never needs to import "workbook" directly.
var (
	New  = workbook.New
	Open = workbook.Open
)

// Kind is the closed set of error kinds every subpackage can raise.
// Its string values are exactly the Kind each subpackage's own *Error
// already carries (workbook.Error.Kind, worksheet.Error.Kind, and so
// on) — Kind doesn't replace those types, it names the same values at
// a level a caller can depend on without importing nine subpackages.
type Kind string

const (
	// Cell/row/column bounds and content (worksheet).
	KindInvalidCellReference  Kind = "InvalidCellReference"
	KindInvalidColumnNumber   Kind = "InvalidColumnNumber"
	KindInvalidRowNumber      Kind = "InvalidRowNumber"
	KindCellValueTooLong      Kind = "CellValueTooLong"
	KindColumnWidthExceeded   Kind = "ColumnWidthExceeded"
	KindRowHeightExceeded     Kind = "RowHeightExceeded"
	KindOutlineLevelExceeded  Kind = "OutlineLevelExceeded"
	KindInvalidMergeCellRef   Kind = "InvalidMergeCellReference"
	KindMergeCellOverlap      Kind = "MergeCellOverlap"
	KindMergeCellNotFound     Kind = "MergeCellNotFound"

	// Sheet and workbook lifecycle (workbook).
	KindSheetNotFound         Kind = "SheetNotFound"
	KindSheetAlreadyExists    Kind = "SheetAlreadyExists"
	KindInvalidSheetName      Kind = "InvalidSheetName"
	KindCannotDeleteLastSheet Kind = "CannotDeleteLastSheet"
	KindInvalidDefinedName    Kind = "InvalidDefinedName"
	KindDefinedNameNotFound   Kind = "DefinedNameNotFound"
	KindTableNotFound         Kind = "TableNotFound"
	KindTableAlreadyExists    Kind = "TableAlreadyExists"

	// Formula parsing/evaluation (formula).
	KindCircularReference Kind = "CircularReference"

	// Package codec (opc).
	KindIo                       Kind = "Io"
	KindZip                      Kind = "Zip"
	KindXmlParse                 Kind = "XmlParse"
	KindZipSizeExceeded          Kind = "ZipSizeExceeded"
	KindZipEntryCountExceeded    Kind = "ZipEntryCountExceeded"
	KindFileEncrypted            Kind = "FileEncrypted"
	KindUnsupportedFileExtension Kind = "UnsupportedFileExtension"

	// Encryption (xlcrypto).
	KindIncorrectPassword    Kind = "IncorrectPassword"
	KindUnsupportedEncryption Kind = "UnsupportedEncryption"

	// Style registry (style).
	KindCellStylesExceeded Kind = "CellStylesExceeded"
	KindStyleNotFound      Kind = "StyleNotFound"

	// Shared-string table (sst).
	KindInvalidReference Kind = "InvalidReference"

	// Streaming writer (streamwriter).
	KindStreamAlreadyFinished   Kind = "StreamAlreadyFinished"
	KindStreamColumnsAfterRows  Kind = "StreamColumnsAfterRows"
	KindStreamRowAlreadyWritten Kind = "StreamRowAlreadyWritten"

	// A subpackage's own "Internal" kind, raised for states that are
	// not reachable through valid input; Wrap copies it like any other
	// Kind and never raises it itself.
	KindInternal Kind = "Internal"
)

// Error is the unified error shape Wrap produces: Kind names which of
// the above conditions occurred, and Unwrap exposes the original
// subpackage error so errors.As against e.g. *worksheet.Error still
// works on a wrapped value.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind, the same "compare by kind, not by
// identity" rule every subpackage's own *Error already implements.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Wrap converts an error returned by any call through this package
// (or by a subpackage's types used directly) into a *sheetkit.Error
// carrying the unified Kind, so code that only ever wants to switch on
// Kind doesn't need a type switch over nine different concrete *Error
// types. Errors this package doesn't recognise — including one already
// wrapped, or a caller's own error — are returned unchanged.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if _, already := err.(*Error); already {
		return err
	}
	switch e := err.(type) {
	case *workbook.Error:
		return &Error{Kind: Kind(e.Kind), Err: e}
	case *worksheet.Error:
		return &Error{Kind: Kind(e.Kind), Err: e}
	case *opc.Error:
		return &Error{Kind: Kind(e.Kind), Err: e}
	case *sst.Error:
		return &Error{Kind: Kind(e.Kind), Err: e}
	case *style.Error:
		return &Error{Kind: Kind(e.Kind), Err: e}
	case *xlcrypto.Error:
		return &Error{Kind: Kind(e.Kind), Err: e}
	case *formula.Error:
		return &Error{Kind: Kind(e.Kind), Err: e}
	case *streamwriter.Error:
		return &Error{Kind: Kind(e.Kind), Err: e}
	case *cellref.Error:
		return &Error{Kind: Kind(e.Kind), Err: e}
	default:
		return err
	}
}

// As reports whether err is, or wraps, a *sheetkit.Error of kind k —
// the one-line check a caller reaches for instead of hand-rolling
// errors.As plus a Kind comparison.
func As(err error, k Kind) bool {
	wrapped := Wrap(err)
	var se *Error
	for wrapped != nil {
		if e, ok := wrapped.(*Error); ok {
			se = e
			break
		}
		wrapped = unwrapOnce(wrapped)
	}
	return se != nil && se.Kind == k
}

func unwrapOnce(err error) error {
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		return u.Unwrap()
	}
	return nil
}
