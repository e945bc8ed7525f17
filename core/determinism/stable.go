// Package determinism provides primitives for deterministic iteration,
// formatting and fingerprinting of price tables.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// HashTable fingerprints a price table. Keys are visited in sorted order and
// values are encoded as exact decimals, so equal tables hash equally
// regardless of map iteration order.
func HashTable(prices map[string]float64) ContentHash {
	h := sha256.New()
	for _, k := range SortedKeys(prices) {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(exact(prices[k])))
		h.Write([]byte{0})
	}
	var out ContentHash
	copy(out[:], h.Sum(nil))
	return out
}

// FormatPrice renders a price with a fixed number of decimal places
func FormatPrice(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// exact renders the shortest decimal that round-trips to v
func exact(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return decimal.NewFromFloat(v).String()
}

// SortedKeys returns a sorted copy of map keys
func SortedKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys
}

// RangeMapSorted iterates over a map in sorted key order
func RangeMapSorted[K comparable, V any](m map[K]V, fn func(K, V) bool) {
	for _, k := range SortedKeys(m) {
		if !fn(k, m[k]) {
			break
		}
	}
}
