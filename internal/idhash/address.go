package idhash

import (
	"crypto/sha512"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ErrInvalidAddress is returned when an address does not decode to a curve point.
var ErrInvalidAddress = errors.New("invalid wallet address")

// AgentAddress derives a synthetic wallet address for an agent.
// The address is the base58-encoded ed25519 public key of the seed
// SHA512(seed|agent_id)[:32], i.e. the same shape as a Solana account key.
func AgentAddress(seed uint64, agentID string) (string, error) {
	digest := sha512.Sum512([]byte(fmt.Sprintf("%d|%s", seed, agentID)))

	s, err := edwards25519.NewScalar().SetBytesWithClamping(digest[:32])
	if err != nil {
		return "", fmt.Errorf("derive scalar: %w", err)
	}

	pub := new(edwards25519.Point).ScalarBaseMult(s)
	return base58.Encode(pub.Bytes()), nil
}

// isOnCurve reports whether addr decodes to a valid ed25519 point.
func isOnCurve(addr string) bool {
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}

// ValidateAddress returns ErrInvalidAddress if addr is not an on-curve key.
func ValidateAddress(addr string) error {
	if !isOnCurve(addr) {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	return nil
}
