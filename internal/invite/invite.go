// Package invite generates short invite codes for joining groups.
package invite

import (
	"crypto/rand"
	"fmt"
)

// CodeLength is the length of every generated invite code.
const CodeLength = 6

// alphabet deliberately excludes lowercase to keep codes easy to read aloud
// and type. 36^6 codes; collisions are tolerated and resolved by the caller
// retrying against the store's uniqueness constraint.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewCode generates a random 6-character uppercase alphanumeric code.
func NewCode() (string, error) {
	b := make([]byte, CodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b), nil
}

// NewCodePair generates two independent codes, one for members and one for
// guests. The pair is regenerated as a whole if either collides, so the two
// are guaranteed distinct from each other as well.
func NewCodePair() (memberCode, guestCode string, err error) {
	memberCode, err = NewCode()
	if err != nil {
		return "", "", err
	}
	for {
		guestCode, err = NewCode()
		if err != nil {
			return "", "", err
		}
		if guestCode != memberCode {
			return memberCode, guestCode, nil
		}
	}
}
