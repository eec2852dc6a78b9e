package xlcrypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/gosheetkit/sheetkit/ooxml"
)

// Fixed block-key byte sequences used to derive purpose-specific keys from
// the iterated password hash (MS-OFFCRYPTO §2.3.4.11-§2.3.4.13).
var (
	blockKeyVerifierHashInput = []byte{0xfe, 0xa7, 0xd2, 0x76, 0x3b, 0x4b, 0x9e, 0x79}
	blockKeyVerifierHashValue = []byte{0xd7, 0xaa, 0x0f, 0x6d, 0x30, 0x61, 0x34, 0x4e}
	blockKeyKeyValue          = []byte{0x14, 0x6e, 0x0b, 0xe7, 0xab, 0xac, 0xd0, 0xd6}
	blockKeyHmacKey           = []byte{0x5f, 0xb2, 0xad, 0x01, 0x0c, 0xb9, 0xe1, 0xf6}
	blockKeyHmacValue         = []byte{0xa0, 0x67, 0x7f, 0x02, 0xb2, 0x2c, 0x84, 0x33}
)

const agileSegmentSize = 4096

// AgileSecrets holds the per-password derived material needed to decrypt or
// re-encrypt an agile-protected package.
type AgileSecrets struct {
	SecretKey []byte
	KeyBits   int
	Salt      []byte // KeyData.saltValue, used to derive per-segment IVs
	BlockSize int
}

// AgileVerifyAndDeriveKey walks the key-encryptor verification chain:
// iterate the password hash spinCount times, derive the four
// purpose-specific block keys, decrypt and compare the verifier, then
// recover the package secret key from encryptedKeyValue.
func AgileVerifyAndDeriveKey(info *ooxml.EncryptionInfoAgile, password string) (*AgileSecrets, error) {
	if len(info.KeyEncryptors.KeyEncryptor) == 0 {
		return nil, errUnsupported("agile EncryptionInfo has no key encryptors")
	}
	ke := info.KeyEncryptors.KeyEncryptor[0].EncryptedKey

	salt, err := b64(ke.SaltValue)
	if err != nil {
		return nil, err
	}
	pwd, err := utf16lePassword(password)
	if err != nil {
		return nil, err
	}

	hFinal, err := iteratedHash(salt, pwd, ke.SpinCount)
	if err != nil {
		return nil, err
	}

	verifierInputKey := deriveKey(hFinal, blockKeyVerifierHashInput, ke.KeyBits/8)
	verifierValueKey := deriveKey(hFinal, blockKeyVerifierHashValue, ke.KeyBits/8)
	keyValueKey := deriveKey(hFinal, blockKeyKeyValue, ke.KeyBits/8)

	encVerifierInput, err := b64(ke.EncryptedVerifierHashInput)
	if err != nil {
		return nil, err
	}
	encVerifierValue, err := b64(ke.EncryptedVerifierHashValue)
	if err != nil {
		return nil, err
	}
	encKeyValue, err := b64(ke.EncryptedKeyValue)
	if err != nil {
		return nil, err
	}

	verifierInput, err := aesCBCDecryptNoPad(verifierInputKey, salt, encVerifierInput)
	if err != nil {
		return nil, err
	}
	verifierInput = verifierInput[:ke.HashSize]
	computedHash := sha512.Sum512(verifierInput)

	verifierValue, err := aesCBCDecryptNoPad(verifierValueKey, salt, encVerifierValue)
	if err != nil {
		return nil, err
	}
	verifierValue = verifierValue[:ke.HashSize]

	if !bytes.Equal(computedHash[:ke.HashSize], verifierValue) {
		return nil, errIncorrectPassword()
	}

	secretKey, err := aesCBCDecryptNoPad(keyValueKey, salt, encKeyValue)
	if err != nil {
		return nil, err
	}
	secretKey = secretKey[:ke.KeyBits/8]

	keyDataSalt, err := b64(info.KeyData.SaltValue)
	if err != nil {
		return nil, err
	}

	return &AgileSecrets{
		SecretKey: secretKey,
		KeyBits:   info.KeyData.KeyBits,
		Salt:      keyDataSalt,
		BlockSize: info.KeyData.BlockSize,
	}, nil
}

// AgileDecryptPackage decrypts the /EncryptedPackage stream: an 8-byte
// little-endian original size followed by 4096-byte AES-256-CBC segments,
// each keyed with the same secret key but a segment-specific IV
// (SHA-512(salt || segmentIndex) truncated to blockSize).
func AgileDecryptPackage(secrets *AgileSecrets, encryptedPackage []byte) ([]byte, error) {
	if len(encryptedPackage) < 8 {
		return nil, fmt.Errorf("xlcrypto: encrypted package too short")
	}
	originalSize := binary.LittleEndian.Uint64(encryptedPackage[:8])
	ciphertext := encryptedPackage[8:]

	var out bytes.Buffer
	for i := 0; i*agileSegmentSize < len(ciphertext); i++ {
		start := i * agileSegmentSize
		end := start + agileSegmentSize
		if end > len(ciphertext) {
			end = len(ciphertext)
		}
		segment := ciphertext[start:end]
		iv := segmentIV(secrets.Salt, uint32(i), secrets.BlockSize)
		plain, err := aesCBCDecryptNoPad(secrets.SecretKey, iv, segment)
		if err != nil {
			return nil, fmt.Errorf("xlcrypto: decrypt segment %d: %w", i, err)
		}
		out.Write(plain)
	}
	data := out.Bytes()
	if uint64(len(data)) > originalSize {
		data = data[:originalSize]
	}
	return data, nil
}

// AgileEncrypt produces a fresh EncryptionInfo + EncryptedPackage pair for
// plaintext, protected by password. It is the save-side counterpart of
// AgileVerifyAndDeriveKey + AgileDecryptPackage.
func AgileEncrypt(password string, plaintext []byte) (info *ooxml.EncryptionInfoAgile, encryptedPackage []byte, err error) {
	const spinCount = 100000
	const keyBits = 256
	const hashSize = 64
	const blockSize = 16
	const saltSize = 16

	keySalt, err := randBytes(saltSize)
	if err != nil {
		return nil, nil, err
	}
	verifierSalt := keySalt // the password key-encryptor reuses its own salt for its verifier chain
	pwd, err := utf16lePassword(password)
	if err != nil {
		return nil, nil, err
	}
	hFinal, err := iteratedHash(verifierSalt, pwd, spinCount)
	if err != nil {
		return nil, nil, err
	}

	verifierInputKey := deriveKey(hFinal, blockKeyVerifierHashInput, keyBits/8)
	verifierValueKey := deriveKey(hFinal, blockKeyVerifierHashValue, keyBits/8)
	keyValueKey := deriveKey(hFinal, blockKeyKeyValue, keyBits/8)

	verifierInput, err := randBytes(hashSize)
	if err != nil {
		return nil, nil, err
	}
	verifierHash := sha512.Sum512(verifierInput)

	secretKey, err := randBytes(keyBits / 8)
	if err != nil {
		return nil, nil, err
	}

	encVerifierInput, err := aesCBCEncryptNoPad(verifierInputKey, verifierSalt, pad(verifierInput, blockSize))
	if err != nil {
		return nil, nil, err
	}
	encVerifierValue, err := aesCBCEncryptNoPad(verifierValueKey, verifierSalt, pad(verifierHash[:], blockSize))
	if err != nil {
		return nil, nil, err
	}
	encKeyValue, err := aesCBCEncryptNoPad(keyValueKey, verifierSalt, pad(secretKey, blockSize))
	if err != nil {
		return nil, nil, err
	}

	packageSalt, err := randBytes(saltSize)
	if err != nil {
		return nil, nil, err
	}

	var body bytes.Buffer
	body.Write(uint64le(uint64(len(plaintext))))
	for i := 0; ; i++ {
		start := i * agileSegmentSize
		if start >= len(plaintext) {
			break
		}
		end := start + agileSegmentSize
		if end > len(plaintext) {
			end = len(plaintext)
		}
		segment := pad(plaintext[start:end], blockSize)
		iv := segmentIV(packageSalt, uint32(i), blockSize)
		enc, err := aesCBCEncryptNoPad(secretKey, iv, segment)
		if err != nil {
			return nil, nil, fmt.Errorf("xlcrypto: encrypt segment %d: %w", i, err)
		}
		body.Write(enc)
	}

	hmacKey, err := randBytes(hashSize)
	if err != nil {
		return nil, nil, err
	}
	mac := hmac.New(sha512.New, hmacKey)
	mac.Write(body.Bytes())
	hmacValue := mac.Sum(nil)
	encHmacValue, err := aesCBCEncryptNoPad(deriveKey(hFinal, blockKeyHmacValue, keyBits/8), verifierSalt, pad(hmacValue, blockSize))
	if err != nil {
		return nil, nil, err
	}
	encHmacKey, err := aesCBCEncryptNoPad(deriveKey(hFinal, blockKeyHmacKey, keyBits/8), verifierSalt, pad(hmacKey, blockSize))
	if err != nil {
		return nil, nil, err
	}

	info = &ooxml.EncryptionInfoAgile{
		Xmlns:  "http://schemas.microsoft.com/office/2006/encryption",
		XmlnsP: "http://schemas.microsoft.com/office/2006/keyEncryptor/password",
		KeyData: ooxml.KeyData{
			SaltSize: saltSize, BlockSize: blockSize, KeyBits: keyBits, HashSize: hashSize,
			CipherAlgorithm: "AES", CipherChaining: "ChainingModeCBC", HashAlgorithm: "SHA512",
			SaltValue: base64.StdEncoding.EncodeToString(packageSalt),
		},
		KeyEncryptors: ooxml.KeyEncryptors{
			KeyEncryptor: []ooxml.KeyEncryptor{{
				URI: "http://schemas.microsoft.com/office/2006/keyEncryptor/password",
				EncryptedKey: ooxml.EncryptedKey{
					SpinCount: spinCount, SaltSize: saltSize, BlockSize: blockSize,
					KeyBits: keyBits, HashSize: hashSize,
					CipherAlgorithm: "AES", CipherChaining: "ChainingModeCBC", HashAlgorithm: "SHA512",
					SaltValue:                  base64.StdEncoding.EncodeToString(verifierSalt),
					EncryptedVerifierHashInput: base64.StdEncoding.EncodeToString(encVerifierInput),
					EncryptedVerifierHashValue: base64.StdEncoding.EncodeToString(encVerifierValue),
					EncryptedKeyValue:          base64.StdEncoding.EncodeToString(encKeyValue),
				},
			}},
		},
		DataIntegrity: &ooxml.DataIntegrity{
			EncryptedHmacKey:   base64.StdEncoding.EncodeToString(encHmacKey),
			EncryptedHmacValue: base64.StdEncoding.EncodeToString(encHmacValue),
		},
	}
	return info, body.Bytes(), nil
}

// iteratedHash computes H0 = SHA-512(salt || password) then iterates
// Hi = SHA-512(i_le32 || H_{i-1}) spinCount times.
func iteratedHash(salt, password []byte, spinCount int) ([]byte, error) {
	h := sha512.New()
	h.Write(salt)
	h.Write(password)
	cur := h.Sum(nil)
	for i := 0; i < spinCount; i++ {
		h.Reset()
		h.Write(uint32le(uint32(i)))
		h.Write(cur)
		cur = h.Sum(nil)
	}
	return cur, nil
}

// deriveKey computes SHA-512(h || blockKey) and trims to keyBytes.
func deriveKey(h, blockKey []byte, keyBytes int) []byte {
	sh := sha512.New()
	sh.Write(h)
	sh.Write(blockKey)
	full := sh.Sum(nil)
	if keyBytes > len(full) {
		keyBytes = len(full)
	}
	return full[:keyBytes]
}

// segmentIV computes SHA-512(salt || segmentIndex_le32) truncated to
// blockSize bytes.
func segmentIV(salt []byte, index uint32, blockSize int) []byte {
	h := sha512.New()
	h.Write(salt)
	h.Write(uint32le(index))
	full := h.Sum(nil)
	if blockSize > len(full) {
		blockSize = len(full)
	}
	return full[:blockSize]
}

func aesCBCDecryptNoPad(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("xlcrypto: aes.NewCipher: %w", err)
	}
	if len(ciphertext)%block.BlockSize() != 0 {
		return nil, fmt.Errorf("xlcrypto: ciphertext is not a multiple of the block size")
	}
	mode := cipher.NewCBCDecrypter(block, iv[:block.BlockSize()])
	out := make([]byte, len(ciphertext))
	mode.CryptBlocks(out, ciphertext)
	return out, nil
}

func aesCBCEncryptNoPad(key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("xlcrypto: aes.NewCipher: %w", err)
	}
	mode := cipher.NewCBCEncrypter(block, iv[:block.BlockSize()])
	out := make([]byte, len(plaintext))
	mode.CryptBlocks(out, plaintext)
	return out, nil
}

func pad(b []byte, blockSize int) []byte {
	if len(b)%blockSize == 0 {
		return b
	}
	padded := make([]byte, ((len(b)/blockSize)+1)*blockSize)
	copy(padded, b)
	return padded
}

func uint32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func uint64le(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func b64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("xlcrypto: decode base64: %w", err)
	}
	return b, nil
}
