// Package shortlink derives short share tokens for content ids. Tokens are
// deterministic (the same id always yields the same token) and
// non-cryptographic; they are navigation aids, not secrets.
package shortlink

import (
	"hash/fnv"

	"github.com/google/uuid"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TokenLength is the fixed length of generated tokens.
const TokenLength = 9

// FromID returns the share token for a content id.
func FromID(id uuid.UUID) string {
	h := fnv.New64a()
	h.Write(id[:])
	n := h.Sum64()

	buf := make([]byte, TokenLength)
	for i := range buf {
		buf[i] = alphabet[n%uint64(len(alphabet))]
		n /= uint64(len(alphabet))
	}
	return string(buf)
}
