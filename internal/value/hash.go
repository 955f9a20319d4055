package value

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainGraph prefixes graph fingerprints. The version suffix leaves room
// for changing the canonical format.
const DomainGraph = "graphclone/graph/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a content-and-topology hash of the graph rooted at v.
// A faithful clone has the same fingerprint as its original.
func Fingerprint(v Value) string {
	return hashWithDomain(DomainGraph, Canonical(v))
}
