package xlcrypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAgileRoundTrip(t *testing.T) {
	plaintext := bytes.Repeat([]byte("PK\x03\x04 fake zip payload "), 500) // spans several 4096-byte segments

	info, encryptedPackage, err := AgileEncrypt("correct horse", plaintext)
	require.NoError(t, err)
	require.NotNil(t, info.DataIntegrity)

	secrets, err := AgileVerifyAndDeriveKey(info, "correct horse")
	require.NoError(t, err)

	got, err := AgileDecryptPackage(secrets, encryptedPackage)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestAgileWrongPassword(t *testing.T) {
	info, _, err := AgileEncrypt("correct horse", []byte("hello world"))
	require.NoError(t, err)

	_, err = AgileVerifyAndDeriveKey(info, "wrong password")
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "IncorrectPassword", cerr.Kind)
}

func TestAgileRoundTripEmptyPayload(t *testing.T) {
	info, encryptedPackage, err := AgileEncrypt("pw", nil)
	require.NoError(t, err)

	secrets, err := AgileVerifyAndDeriveKey(info, "pw")
	require.NoError(t, err)

	got, err := AgileDecryptPackage(secrets, encryptedPackage)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDetectVersion(t *testing.T) {
	agile := []byte{4, 0, 4, 0}
	legacy32 := []byte{3, 0, 2, 0}
	legacy42 := []byte{4, 0, 2, 0}
	unknown := []byte{1, 0, 1, 0}

	v, err := DetectVersion(agile)
	require.NoError(t, err)
	require.Equal(t, VersionAgile, v)

	v, err = DetectVersion(legacy32)
	require.NoError(t, err)
	require.Equal(t, VersionLegacy, v)

	v, err = DetectVersion(legacy42)
	require.NoError(t, err)
	require.Equal(t, VersionLegacy, v)

	_, err = DetectVersion(unknown)
	require.Error(t, err)
}

func TestDerivePadXorKeyLength(t *testing.T) {
	h := bytes.Repeat([]byte{0xAB}, 20) // SHA-1 digest size
	key := derivePadXorKey(h, 16)
	require.Len(t, key, 16)
}
