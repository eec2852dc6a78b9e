package opc

import (
	"encoding/xml"
	"io"

	"github.com/richardlehane/mscfb"

	"github.com/gosheetkit/sheetkit/ooxml"
	"github.com/gosheetkit/sheetkit/xlcrypto"
)

// readCFB extracts /EncryptionInfo and /EncryptedPackage from a CFB
// container, decrypts the package with password (detecting agile vs.
// legacy from the EncryptionInfo version header), and returns the
// decrypted ZIP bytes.
func readCFB(r io.ReaderAt, size int64, password string) ([]byte, error) {
	sr := io.NewSectionReader(r, 0, size)
	doc, err := mscfb.New(sr)
	if err != nil {
		return nil, errIo("open CFB container: %v", err)
	}

	var encryptionInfo, encryptedPackage []byte
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case "EncryptionInfo":
			buf := make([]byte, entry.Size)
			if _, rerr := io.ReadFull(entry, buf); rerr != nil {
				return nil, errIo("read EncryptionInfo stream: %v", rerr)
			}
			encryptionInfo = buf
		case "EncryptedPackage":
			buf := make([]byte, entry.Size)
			if _, rerr := io.ReadFull(entry, buf); rerr != nil {
				return nil, errIo("read EncryptedPackage stream: %v", rerr)
			}
			encryptedPackage = buf
		}
	}
	if encryptionInfo == nil || encryptedPackage == nil {
		return nil, errFileEncrypted("CFB container is missing EncryptionInfo or EncryptedPackage")
	}
	if password == "" {
		return nil, errFileEncrypted("workbook is password-protected but no password was supplied")
	}

	version, err := xlcrypto.DetectVersion(encryptionInfo)
	if err != nil {
		return nil, err
	}

	switch version {
	case xlcrypto.VersionAgile:
		if len(encryptionInfo) < 8 {
			return nil, errXML("agile EncryptionInfo stream too short")
		}
		var info ooxml.EncryptionInfoAgile
		if err := xml.Unmarshal(encryptionInfo[8:], &info); err != nil {
			return nil, errXML("decode agile EncryptionInfo: %v", err)
		}
		secrets, verr := xlcrypto.AgileVerifyAndDeriveKey(&info, password)
		if verr != nil {
			return nil, verr
		}
		return xlcrypto.AgileDecryptPackage(secrets, encryptedPackage)
	case xlcrypto.VersionLegacy:
		header, perr := xlcrypto.ParseLegacyEncryptionInfo(encryptionInfo)
		if perr != nil {
			return nil, perr
		}
		key, verr := xlcrypto.LegacyVerifyAndDeriveKey(header, password)
		if verr != nil {
			return nil, verr
		}
		return xlcrypto.LegacyDecryptPackage(key, encryptedPackage)
	default:
		return nil, errUnsupportedFormat("unrecognised encryption scheme")
	}
}

// writeEncryptedCFB encrypts zipBytes with password using the agile
// scheme (the only encrypt-capable scheme this package supports) and writes
// the resulting EncryptionInfo/EncryptedPackage pair into a fresh CFB
// container.
func writeEncryptedCFB(w io.Writer, zipBytes []byte, password string) error {
	info, encryptedPackage, err := xlcrypto.AgileEncrypt(password, zipBytes)
	if err != nil {
		return err
	}
	xmlBody, err := xml.Marshal(info)
	if err != nil {
		return errXML("encode agile EncryptionInfo: %v", err)
	}
	// A 4-byte version header (major=4, minor=4, both little-endian)
	// precedes the XML body, per MS-OFFCRYPTO §2.3.4.10.
	infoStream := append([]byte{4, 0, 4, 0}, xmlBody...)

	return writeCFB(w, []cfbNamedStream{
		{name: "EncryptionInfo", data: infoStream},
		{name: "EncryptedPackage", data: encryptedPackage},
	})
}
