package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Key types reported to the cache hooks.
const (
	KeyTypeOrdering    = "ordering"
	KeyTypeEnumeration = "enumeration"
)

// OrderingKeyOpts are the inputs besides the graph that change an ordering
// result.
type OrderingKeyOpts struct {
	Algorithm string        `json:"algorithm"`
	Timeout   time.Duration `json:"timeout"`
	Seed      uint64        `json:"seed,omitempty"`
	Normalize bool          `json:"normalize"`
}

// Keyer generates cache keys.
type Keyer interface {
	// OrderingKey is the key of an ordering of the graph whose canonical
	// encoding hashes to graphHash.
	OrderingKey(graphHash string, opts OrderingKeyOpts) string
	// EnumerationKey is the key of an enumeration of the named model.
	// params must encode deterministically to JSON.
	EnumerationKey(model string, params any, limit int) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// OrderingKey implements [Keyer].
func (DefaultKeyer) OrderingKey(graphHash string, opts OrderingKeyOpts) string {
	return hashKey(KeyTypeOrdering, graphHash, opts)
}

// EnumerationKey implements [Keyer].
func (DefaultKeyer) EnumerationKey(model string, params any, limit int) string {
	return hashKey(KeyTypeEnumeration, model, params, limit)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "kind:<digest>" where the digest covers the JSON encoding
// of parts. Every part must encode deterministically; struct fields and
// sorted map keys do.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(parts); err != nil {
		panic("cache: unencodable key part: " + err.Error())
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
