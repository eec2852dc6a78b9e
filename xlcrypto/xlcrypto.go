// Package xlcrypto implements the two MS-OFFCRYPTO encryption schemes used
// to password-protect an OOXML package stored inside a CFB container:
// the agile scheme (AES-256-CBC content, SHA-512 key derivation,
// EncryptionInfo version 4.4) with full decrypt/encrypt support, and the
// legacy "Standard" scheme (AES-128-ECB content, SHA-1 key derivation,
// versions 3.2/4.2) with decrypt-only support; only the agile scheme
// supports encryption.
package xlcrypto

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// Version identifies which of the two encryption schemes an EncryptionInfo
// stream describes.
type Version int

const (
	VersionUnknown Version = iota
	VersionLegacy          // 3.2 or 4.2 — Standard encryption, AES-128-ECB + SHA-1
	VersionAgile           // 4.4 — AES-256-CBC + SHA-512
)

// Error kinds surfaced by this package's Encryption-related failures.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func errIncorrectPassword() error {
	return &Error{Kind: "IncorrectPassword", Msg: "xlcrypto: incorrect password"}
}

func errUnsupported(format string, a ...any) error {
	return &Error{Kind: "UnsupportedEncryption", Msg: fmt.Sprintf("xlcrypto: "+format, a...)}
}

// DetectVersion reads the 4-byte version header that begins every
// /EncryptionInfo stream: a little-endian uint16 major version followed by
// a little-endian uint16 minor version.
func DetectVersion(encryptionInfo []byte) (Version, error) {
	if len(encryptionInfo) < 4 {
		return VersionUnknown, fmt.Errorf("xlcrypto: EncryptionInfo stream too short")
	}
	major := binary.LittleEndian.Uint16(encryptionInfo[0:2])
	minor := binary.LittleEndian.Uint16(encryptionInfo[2:4])
	switch {
	case major == 4 && minor == 4:
		return VersionAgile, nil
	case (major == 3 || major == 4) && minor == 2:
		return VersionLegacy, nil
	default:
		return VersionUnknown, errUnsupported("unrecognized EncryptionInfo version %d.%d", major, minor)
	}
}

// utf16lePassword encodes a password the way MS-OFFCRYPTO requires: UTF-16
// little-endian, no BOM, no trailing NUL.
func utf16lePassword(password string) ([]byte, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := enc.String(password)
	if err != nil {
		return nil, fmt.Errorf("xlcrypto: encode password: %w", err)
	}
	return []byte(out), nil
}

func randBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("xlcrypto: read random bytes: %w", err)
	}
	return b, nil
}
