package measure

import (
	"fmt"
	"sort"
	"strings"
)

// Signature returns the duplicate fingerprint of a record: experiment index,
// condition, image index and the sorted (parameter, value) pairs. Two records
// are duplicates iff their signatures are equal.
func Signature(rec MeasurementRecord) string {
	names := make([]string, 0, len(rec.Parameters))
	for name := range rec.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%d|%s|%d", rec.ExperimentIndex, rec.Condition, rec.ImageIndex)
	for _, name := range names {
		fmt.Fprintf(&b, "|%s=%.17g", name, rec.Parameters[name])
	}
	return b.String()
}

// SignatureCache tracks signatures seen within one comparison scope.
// The zero value is not usable; create with NewSignatureCache.
type SignatureCache struct {
	seen map[string]struct{}
}

// NewSignatureCache creates an empty cache.
func NewSignatureCache() *SignatureCache {
	return &SignatureCache{seen: make(map[string]struct{})}
}

// Observe records the signature of rec and reports whether it was already
// present.
func (c *SignatureCache) Observe(rec MeasurementRecord) bool {
	sig := Signature(rec)
	if _, ok := c.seen[sig]; ok {
		return true
	}
	c.seen[sig] = struct{}{}
	return false
}

// Len returns the number of distinct signatures observed.
func (c *SignatureCache) Len() int {
	return len(c.seen)
}
