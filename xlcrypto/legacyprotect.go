package xlcrypto

import (
	"encoding/base64"
)

// defaultProtectionSpinCount matches the spin count Excel itself writes
// for workbook/sheet structure-protection hashes.
const defaultProtectionSpinCount = 100000

// ProtectionHash computes the salted, iterated workbook/sheet
// structure-protection password verifier (not the 16-bit legacy XOR
// hash): salt (16 random bytes), then the same iterated
// SHA-512 hash agile encryption's key derivation uses (H0 = SHA-512(salt
// || password), Hn = SHA-512(iterator_le32 || H{n-1}) repeated
// spinCount times), per MS-OFFCRYPTO's hashPassword algorithm. Returns
// the algorithm name, and the base64-encoded salt/hash values workbook
// and worksheet protection elements store directly.
func ProtectionHash(password string) (algorithmName, saltValueB64, hashValueB64 string, spinCount int, err error) {
	salt, err := randBytes(16)
	if err != nil {
		return "", "", "", 0, err
	}
	pw, err := utf16lePassword(password)
	if err != nil {
		return "", "", "", 0, err
	}
	hash, err := protectionIteratedHash(salt, pw, defaultProtectionSpinCount)
	if err != nil {
		return "", "", "", 0, err
	}
	return "SHA-512", base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash), defaultProtectionSpinCount, nil
}

// VerifyProtectionHash reports whether password reproduces hashValueB64
// under the given base64 salt and spin count.
func VerifyProtectionHash(password, saltValueB64, hashValueB64 string, spinCount int) (bool, error) {
	salt, err := base64.StdEncoding.DecodeString(saltValueB64)
	if err != nil {
		return false, err
	}
	want, err := base64.StdEncoding.DecodeString(hashValueB64)
	if err != nil {
		return false, err
	}
	pw, err := utf16lePassword(password)
	if err != nil {
		return false, err
	}
	got, err := protectionIteratedHash(salt, pw, spinCount)
	if err != nil {
		return false, err
	}
	if len(got) != len(want) {
		return false, nil
	}
	diff := byte(0)
	for i := range got {
		diff |= got[i] ^ want[i]
	}
	return diff == 0, nil
}

// protectionIteratedHash is iteratedHash's salt||password-ordering
// variant: MS-OFFCRYPTO's hashPassword algorithm hashes salt before
// password at H0, identically to agile's key-derivation iteration, so
// this simply delegates rather than duplicate the loop.
func protectionIteratedHash(salt, password []byte, spinCount int) ([]byte, error) {
	return iteratedHash(salt, password, spinCount)
}
