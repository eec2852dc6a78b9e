// Package opc implements the Open Packaging Conventions container that an
// .xlsx file is: a ZIP archive of XML parts wired together by
// [Content_Types].xml and per-part .rels relationship files, optionally
// wrapped in a CFB container when the package is password-protected.
package opc

import (
	"bytes"
	"fmt"
)

// Error kinds mirror the taxonomy's "I/O and container" and "Limits"
// groups: Io, Zip, XmlParse, UnsupportedFileExtension, ZipSizeExceeded,
// ZipEntryCountExceeded, FileEncrypted, IncorrectPassword,
// UnsupportedEncryption.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func errIo(format string, a ...any) error    { return &Error{Kind: "Io", Msg: fmt.Sprintf(format, a...)} }
func errZip(format string, a ...any) error   { return &Error{Kind: "Zip", Msg: fmt.Sprintf(format, a...)} }
func errXML(format string, a ...any) error   { return &Error{Kind: "XmlParse", Msg: fmt.Sprintf(format, a...)} }
func errSizeExceeded(format string, a ...any) error {
	return &Error{Kind: "ZipSizeExceeded", Msg: fmt.Sprintf(format, a...)}
}
func errEntryCountExceeded(format string, a ...any) error {
	return &Error{Kind: "ZipEntryCountExceeded", Msg: fmt.Sprintf(format, a...)}
}
func errFileEncrypted(format string, a ...any) error {
	return &Error{Kind: "FileEncrypted", Msg: fmt.Sprintf(format, a...)}
}
func errUnsupportedFormat(format string, a ...any) error {
	return &Error{Kind: "UnsupportedFileExtension", Msg: fmt.Sprintf(format, a...)}
}

// Format identifies the outer container format a package was read from.
type Format int

const (
	FormatUnknown Format = iota
	FormatZip
	FormatCFB
)

var (
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFormat inspects the leading bytes of a candidate package and
// reports whether it is a plain ZIP or a CFB container (used for
// password-protected workbooks). An unrecognised header is an error.
func DetectFormat(header []byte) (Format, error) {
	if len(header) >= 4 && bytes.Equal(header[:4], zipMagic) {
		return FormatZip, nil
	}
	if len(header) >= 8 && bytes.Equal(header[:8], cfbMagic) {
		return FormatCFB, nil
	}
	return FormatUnknown, errUnsupportedFormat("unrecognised container header, expected ZIP or CFB magic bytes")
}

// Limits bounds resource consumption while reading a package: optional
// caps a caller can set to reject hostile or oversized input early.
type Limits struct {
	MaxDecompressedSize int64 // 0 = unbounded
	MaxEntryCount        int   // 0 = unbounded
}

// DefaultLimits matches what a conservative desktop reader would apply:
// generous enough for real-world workbooks, small enough to stop a zip
// bomb.
var DefaultLimits = Limits{
	MaxDecompressedSize: 1 << 30, // 1 GiB
	MaxEntryCount:        100000,
}
