// internal/assessment/fingerprint.go
package assessment

import (
	"encoding/json"
	"fmt"

	"github.com/spaolacci/murmur3"
)

// Fingerprint returns the cache key for (userID, in). in must already be
// normalized so that reordered or duplicated sets hash identically.
func Fingerprint(userID string, in AssessmentInput) (string, error) {
	canonical, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("canonicalize input: %w", err)
	}
	h := murmur3.New128()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write(canonical)
	hi, lo := h.Sum128()
	return fmt.Sprintf("%016x%016x", hi, lo), nil
}
