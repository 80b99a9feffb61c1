package utils

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// attestSuffix is appended to the signed payload of a recipient signature, as
// required by the off-chain travel rule exchange.
const attestSuffix = "@@$$LIBRA_ATTEST$$@@"

// SignRecipientSignature produces the hex ed25519 recipient signature over a
// payment reference ID using the compliance key (hex seed).
func SignRecipientSignature(complianceKeyHex, referenceID string) (string, error) {
	seed, err := hex.DecodeString(complianceKeyHex)
	if err != nil {
		return "", fmt.Errorf("invalid compliance key hex: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return "", fmt.Errorf("compliance key must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	key := ed25519.NewKeyFromSeed(seed)
	sig := ed25519.Sign(key, []byte(referenceID+attestSuffix))
	return hex.EncodeToString(sig), nil
}
