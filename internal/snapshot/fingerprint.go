package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"GroundwaterDash/internal/reporting"
)

// Fingerprint returns the sha256 of the entries' JSON encoding. Equal
// fingerprints mean a refresh brought nothing new.
func Fingerprint(entries []reporting.FileEntry) (string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
