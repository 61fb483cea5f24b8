package audit

import (
	"crypto/sha256"
	"encoding/base64"
)

// Fingerprint derives a stable, loggable reference from a secret token.
// Audit sinks record fingerprints, never raw token material.
func Fingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}
