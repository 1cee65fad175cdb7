package domain

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Fingerprint is the checkpoint key of one unit of work.
// It is the standard base64 encoding of the work description, so it is safe
// to use as a JSON object key and can always be decoded back for auditing.
type Fingerprint string

// Encode derives the fingerprint of a work description.
func Encode(description string) Fingerprint {
	return Fingerprint(base64.StdEncoding.EncodeToString([]byte(description)))
}

// Decode returns the description a fingerprint was derived from.
func Decode(f Fingerprint) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(string(f))
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, ErrInvalidFingerprint.Error()), "fingerprint", string(f))
	}
	return string(raw), nil
}

// String returns the encoded key.
func (f Fingerprint) String() string {
	return string(f)
}

// Digest returns a short xxhash label for logs and progress output.
// It is not unique enough to serve as a storage key.
func (f Fingerprint) Digest() string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(string(f)))
}

// Preview truncates a description for log lines.
func Preview(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
