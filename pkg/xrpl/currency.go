package xrpl

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// currencyHexLen is the length of a hex-encoded 160-bit currency code.
const currencyHexLen = 40

// ToHex encodes a string as uppercase hex, the encoding rippled expects
// for memo fields and the Domain account field.
func ToHex(s string) string {
	return strings.ToUpper(hex.EncodeToString([]byte(s)))
}

// FromHex decodes a hex string produced by ToHex (case-insensitive).
func FromHex(h string) (string, error) {
	b, err := hex.DecodeString(h)
	if err != nil {
		return "", fmt.Errorf("invalid hex value: %w", err)
	}
	return string(b), nil
}

// CurrencyCode normalizes a currency code for the wire. Codes up to three
// characters are used as-is; longer codes (e.g. "RLUSD") must be encoded
// as a zero-padded 160-bit hex value.
func CurrencyCode(code string) string {
	if len(code) <= 3 {
		return code
	}
	if len(code) == currencyHexLen && isHex(code) {
		return strings.ToUpper(code)
	}
	h := ToHex(code)
	return h + strings.Repeat("0", currencyHexLen-len(h))
}

// DecodeCurrency renders a wire currency code for display. Hex codes are
// decoded and trailing padding stripped; short codes pass through.
func DecodeCurrency(code string) string {
	if len(code) != currencyHexLen || !isHex(code) {
		return code
	}
	s, err := FromHex(code)
	if err != nil {
		return code
	}
	return strings.TrimRight(s, "\x00")
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}
