// Package id generates random identifiers for sessions and CSP nonces.
package id

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	Alphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// SessionLen gives roughly 190 bits of entropy over Alphanumeric.
	SessionLen = 32
)

// New returns a random string of length n drawn from Alphanumeric, or from
// charset if one is given. Bytes that would bias the distribution are
// rejected and redrawn. The charset must hold between 1 and 255 characters.
func New(n uint8, charset ...string) (string, error) {
	chars := Alphanumeric
	if len(charset) > 0 {
		chars = charset[0]
	}
	if len(chars) == 0 || len(chars) > 255 {
		return "", fmt.Errorf("charset length must be between 1 and 255 inclusive, got %d", len(chars))
	}
	if n == 0 {
		return "", nil
	}

	limit := 256 - 256%len(chars)
	out := make([]byte, 0, n)
	buf := make([]byte, int(n)+int(n)/2)
	for len(out) < int(n) {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, chars[int(b)%len(chars)])
			if len(out) == int(n) {
				break
			}
		}
	}
	return string(out), nil
}

// Session returns a new session identifier.
func Session() (string, error) {
	return New(SessionLen)
}

// IsSession reports whether s has the shape of an id from Session.
func IsSession(s string) bool {
	if len(s) != SessionLen {
		return false
	}
	for i := range len(s) {
		if !strings.ContainsRune(Alphanumeric, rune(s[i])) {
			return false
		}
	}
	return true
}
