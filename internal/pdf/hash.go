package pdf

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Supported content hash algorithms.
const (
	HashSHA256  = "sha256"
	HashBLAKE2b = "blake2b"
)

// HashLength is the number of hex characters kept from the digest.
const HashLength = 16

// Hash returns the truncated hex digest of data. The result is used only to
// detect resubmission of identical bytes. An empty algorithm means sha256.
func Hash(data []byte, algorithm string) (string, error) {
	var sum []byte
	switch algorithm {
	case "", HashSHA256:
		s := sha256.Sum256(data)
		sum = s[:]
	case HashBLAKE2b:
		s := blake2b.Sum256(data)
		sum = s[:]
	default:
		return "", fmt.Errorf("unknown hash algorithm %q (valid: %s, %s)", algorithm, HashSHA256, HashBLAKE2b)
	}
	return hex.EncodeToString(sum)[:HashLength], nil
}
