package rawdata

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ProcessedFile marks one (filename, content) pair already folded into the ledger.
type ProcessedFile struct {
	Filename    string
	Fingerprint string
	ProcessedAt time.Time
}

// Fingerprint is the hex SHA-256 digest of raw file content.
func Fingerprint(raw []byte) string {
	hash := sha256.Sum256(raw)
	return hex.EncodeToString(hash[:])
}
