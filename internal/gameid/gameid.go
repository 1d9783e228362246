// Package gameid generates sortable identifiers for game runs.
//
// An id is a UUIDv7 rendered as 26 lowercase Crockford base32 characters, the
// same textual form TypeID uses. IDs generated later sort after earlier ones.
package gameid

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Crockford base32 alphabet, lowercase
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an encoded id
const Length = 26

// Generate returns a new id. It panics only if the system random source fails.
func Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("failed to generate game id: " + err.Error())
	}
	return Encode(id)
}

// GenerateFrom returns a new id drawing its random bits from r
func GenerateFrom(r io.Reader) (string, error) {
	id, err := uuid.NewV7FromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to generate game id: %w", err)
	}
	return Encode(id), nil
}

// Encode renders a UUID as a 26 character base32 string. The 128 bits are
// left-padded with two zero bits so the first character is always 0-7.
func Encode(id uuid.UUID) string {
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])

	var out [Length]byte
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

// Decode parses an encoded id back into its UUID
func Decode(s string) (uuid.UUID, error) {
	if err := Validate(s); err != nil {
		return uuid.Nil, err
	}

	var hi, lo uint64
	for i := 0; i < Length; i++ {
		v := uint64(strings.IndexByte(alphabet, s[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}

	var id uuid.UUID
	binary.BigEndian.PutUint64(id[:8], hi)
	binary.BigEndian.PutUint64(id[8:], lo)
	return id, nil
}

// Validate checks that s is a well-formed id
func Validate(s string) error {
	if len(s) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(s))
	}
	if s[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", s[0])
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(alphabet, s[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", s[i], i)
		}
	}
	return nil
}
