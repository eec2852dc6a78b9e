package opc

import (
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
)

// BlobName derives a package-absolute part name for a binary blob (a
// drawing part, a rich-value structure payload) by hashing its content
// into a UUID under dir, so saving the same bytes twice reuses the same
// part name instead of appending a new one.
func BlobName(dir, ext string, blob []byte) string {
	h := fnv.New128()
	h.Write(blob)
	id, _ := uuid.FromBytes(h.Sum(nil))
	return fmt.Sprintf("%s/%s.%s", dir, id.String(), ext)
}

// NewStructureID returns a fresh random UUID string, used for
// identifiers that must be unique per workbook but carry no
// content-derived meaning (rich-value structure and value ids).
func NewStructureID() string {
	return uuid.New().String()
}
