package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data. Trace hashes (over the
// canonical JSON records) and layout hashes are both computed with it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "<kind>:<digest>", where the digest covers the content
// hash and the JSON form of the options that shaped the content.
func hashKey(kind, contentHash string, opts any) string {
	h := sha256.New()
	h.Write([]byte(contentHash))
	h.Write([]byte{0})
	// Options are flat structs of strings, numbers and bools.
	_ = json.NewEncoder(h).Encode(opts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
