// Package gameid generates compact, time-sortable identifiers for game
// instances.
package gameid

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"time"
)

// Crockford's base32 alphabet, lowercased: unambiguous and URL-safe.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// IDLength is the length of a generated id: 15 raw bytes, base32 encoded.
const IDLength = 24

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Generate returns a new 24-character game id. The leading 48 bits are a
// millisecond timestamp, so ids sort by creation time; the remaining 72
// bits are random.
func Generate() string {
	return generateAt(time.Now())
}

func generateAt(t time.Time) string {
	var raw [15]byte
	ms := t.UnixMilli()
	for i := 0; i < 6; i++ {
		raw[i] = byte(ms >> (40 - 8*i))
	}
	if _, err := rand.Read(raw[6:]); err != nil {
		panic("gameid: failed to read random bytes: " + err.Error())
	}
	return encoding.EncodeToString(raw[:])
}

// Validate checks that an id is well-formed: exact length and alphabet.
func Validate(id string) error {
	if len(id) != IDLength {
		return fmt.Errorf("game id must be %d characters, got %d", IDLength, len(id))
	}
	for i := 0; i < len(id); i++ {
		found := false
		for j := 0; j < len(alphabet); j++ {
			if id[i] == alphabet[j] {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("invalid character %q at position %d", id[i], i)
		}
	}
	return nil
}
