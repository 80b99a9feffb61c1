package utils

import (
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

// VASPAddressBytesLen is the raw length of an on-chain VASP address.
const VASPAddressBytesLen = 16

// subaddressBytesLen mirrors domain.SubaddressBytesLen; kept local to avoid an
// import cycle between utils and domain.
const subaddressBytesLen = 8

// EncodeAccountIdentifier builds the externally shared receiving address for an
// account: base58(vaspAddress || subaddress). Both inputs are hex encoded.
func EncodeAccountIdentifier(vaspAddressHex, subaddressHex string) (string, error) {
	vaspAddr, err := hex.DecodeString(vaspAddressHex)
	if err != nil {
		return "", fmt.Errorf("invalid vasp address hex: %w", err)
	}
	if len(vaspAddr) != VASPAddressBytesLen {
		return "", fmt.Errorf("vasp address must be %d bytes, got %d", VASPAddressBytesLen, len(vaspAddr))
	}
	sub, err := hex.DecodeString(subaddressHex)
	if err != nil {
		return "", fmt.Errorf("invalid subaddress hex: %w", err)
	}
	if len(sub) != subaddressBytesLen {
		return "", fmt.Errorf("subaddress must be %d bytes, got %d", subaddressBytesLen, len(sub))
	}
	raw := make([]byte, 0, len(vaspAddr)+len(sub))
	raw = append(raw, vaspAddr...)
	raw = append(raw, sub...)
	return base58.Encode(raw), nil
}

// DecodeAccountIdentifier splits an account identifier back into its VASP
// address and subaddress, both hex encoded.
func DecodeAccountIdentifier(identifier string) (vaspAddressHex, subaddressHex string, err error) {
	raw, err := base58.Decode(identifier)
	if err != nil {
		return "", "", fmt.Errorf("invalid account identifier: %w", err)
	}
	if len(raw) != VASPAddressBytesLen+subaddressBytesLen {
		return "", "", fmt.Errorf("account identifier must decode to %d bytes, got %d", VASPAddressBytesLen+subaddressBytesLen, len(raw))
	}
	return hex.EncodeToString(raw[:VASPAddressBytesLen]), hex.EncodeToString(raw[VASPAddressBytesLen:]), nil
}
