// Package id generates opaque identifiers for requests and other
// short-lived values.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a random UUIDv4 rendered as 26 lowercase base32 characters.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(u[:])), nil
}

// Parse reverses NewID and returns the underlying UUID.
func Parse(s string) (uuid.UUID, error) {
	raw, err := encoding.DecodeString(strings.ToUpper(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("decode id: %w", err)
	}
	u, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("decode id: %w", err)
	}
	return u, nil
}
