package ooxml

import "encoding/xml"

// EncryptionInfoAgile binds the XML body of the agile /EncryptionInfo
// stream (version 4.4), following MS-OFFCRYPTO §2.3.4.10.
type EncryptionInfoAgile struct {
	XMLName  xml.Name       `xml:"encryption"`
	Xmlns    string         `xml:"xmlns,attr"`
	XmlnsP   string         `xml:"xmlns:p,attr"`
	KeyData  KeyData        `xml:"keyData"`
	KeyEncryptors KeyEncryptors `xml:"keyEncryptors"`
	DataIntegrity *DataIntegrity `xml:"dataIntegrity,omitempty"`
}

// KeyData describes how /EncryptedPackage itself was encrypted (as opposed
// to the password-derived key-encryptor block below it).
type KeyData struct {
	SaltSize     int    `xml:"saltSize,attr"`
	BlockSize    int    `xml:"blockSize,attr"`
	KeyBits      int    `xml:"keyBits,attr"`
	HashSize     int    `xml:"hashSize,attr"`
	CipherAlgorithm string `xml:"cipherAlgorithm,attr"`
	CipherChaining  string `xml:"cipherChaining,attr"`
	HashAlgorithm   string `xml:"hashAlgorithm,attr"`
	SaltValue       string `xml:"saltValue,attr"`
}

type KeyEncryptors struct {
	KeyEncryptor []KeyEncryptor `xml:"keyEncryptor"`
}

type KeyEncryptor struct {
	URI             string          `xml:"uri,attr"`
	EncryptedKey    EncryptedKey    `xml:"encryptedKey"`
}

// EncryptedKey is the password key-encryptor node of an agile
// EncryptionInfo, bound field-by-field.
type EncryptedKey struct {
	SpinCount                   int    `xml:"spinCount,attr"`
	SaltSize                    int    `xml:"saltSize,attr"`
	BlockSize                   int    `xml:"blockSize,attr"`
	KeyBits                     int    `xml:"keyBits,attr"`
	HashSize                    int    `xml:"hashSize,attr"`
	CipherAlgorithm             string `xml:"cipherAlgorithm,attr"`
	CipherChaining              string `xml:"cipherChaining,attr"`
	HashAlgorithm               string `xml:"hashAlgorithm,attr"`
	SaltValue                   string `xml:"saltValue,attr"`
	EncryptedVerifierHashInput  string `xml:"encryptedVerifierHashInput,attr"`
	EncryptedVerifierHashValue  string `xml:"encryptedVerifierHashValue,attr"`
	EncryptedKeyValue           string `xml:"encryptedKeyValue,attr"`
}

type DataIntegrity struct {
	EncryptedHmacKey   string `xml:"encryptedHmacKey,attr"`
	EncryptedHmacValue string `xml:"encryptedHmacValue,attr"`
}

// CoreProperties binds docProps/core.xml.
type CoreProperties struct {
	XMLName   xml.Name `xml:"coreProperties"`
	XmlnsCP   string   `xml:"xmlns:cp,attr"`
	XmlnsDC   string   `xml:"xmlns:dc,attr"`
	XmlnsDCTerms string `xml:"xmlns:dcterms,attr"`
	XmlnsXSI  string   `xml:"xmlns:xsi,attr"`
	Creator   string   `xml:"dc:creator,omitempty"`
	Title     string   `xml:"dc:title,omitempty"`
	Created   *W3CDTF  `xml:"dcterms:created,omitempty"`
	Modified  *W3CDTF  `xml:"dcterms:modified,omitempty"`
}

type W3CDTF struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

// ExtendedProperties binds docProps/app.xml.
type ExtendedProperties struct {
	XMLName     xml.Name `xml:"Properties"`
	Xmlns       string   `xml:"xmlns,attr"`
	XmlnsVT     string   `xml:"xmlns:vt,attr"`
	Application string   `xml:"Application,omitempty"`
	TitlesOfParts *TitlesOfParts `xml:"TitlesOfParts,omitempty"`
}

type TitlesOfParts struct {
	VTVector VTVector `xml:"vt:vector"`
}

type VTVector struct {
	Size      int      `xml:"size,attr"`
	BaseType  string   `xml:"baseType,attr"`
	LPSTR     []string `xml:"vt:lpstr"`
}
