// Package token mints the unguessable secrets that accompany outgoing
// federated shares.
package token

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// Length 40 matches the refresh tokens elsewhere in the server and is
// comfortably above the 32-character floor for guess resistance.
const Length = 40

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type Issuer struct {
	generate func() string
}

func NewIssuer() (*Issuer, error) {
	generate, err := nanoid.CustomASCII(alphabet, Length)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}
	return &Issuer{generate: generate}, nil
}

// Issue returns a fresh token from a cryptographically strong source.
// Uniqueness across the store is probabilistic, not enforced.
func (i *Issuer) Issue() string {
	return i.generate()
}
