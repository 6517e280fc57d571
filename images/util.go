package images

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
)

// Checksum generates a deterministic checksum of a Buffer's shape and samples, used to verify
// idempotency and to tag reports.
//
// Arguments:
// - buf: The Buffer to compute checksum for.
//
// Returns:
// - A hex-encoded MD5 checksum string, or "empty" for an empty buffer.
//
// Example:
//
// ```go
//
//	checksum := Checksum(reconstructed)
//	fmt.Printf("Output checksum: %s\n", checksum)
//
// ```
func Checksum(buf *Buffer) string {
	if buf.Empty() {
		return "empty"
	}

	var dims [16]byte
	binary.LittleEndian.PutUint64(dims[:8], uint64(buf.Height))
	binary.LittleEndian.PutUint64(dims[8:], uint64(buf.Width))

	hash := md5.New()
	hash.Write(dims[:])
	hash.Write(buf.Pix)
	return fmt.Sprintf("%x", hash.Sum(nil))
}
