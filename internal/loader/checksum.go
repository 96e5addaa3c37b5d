package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// checksumKey is the metadata entry holding the SHA-256 of the data section.
const checksumKey = "sha256"

func computeChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// validateChecksum compares the checksum of data against stored. An empty
// stored value means the file carries none.
func validateChecksum(data []byte, stored string) error {
	if stored == "" {
		return nil
	}
	if computed := computeChecksum(data); computed != stored {
		return fmt.Errorf("%w: got %s, header says %s", ErrChecksumMismatch, computed, stored)
	}
	return nil
}
