package wallet

import (
	"crypto/ed25519"
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ledger address scheme requires RIPEMD-160
)

// The ledger's base58 dictionary. Note the alphabet differs from the
// Bitcoin one; addresses start with 'r' because the version byte is 0x00.
const addressAlphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

// accountVersionByte prefixes the account ID before base58check encoding.
const accountVersionByte = 0x00

// ed25519KeyPrefix marks an Ed25519 public key in the ledger's key
// encoding, distinguishing it from secp256k1 keys.
const ed25519KeyPrefix = 0xED

// DeriveAddress computes the classic address for an Ed25519 public key:
// base58check(0x00 || RIPEMD160(SHA256(0xED || pubkey))).
func DeriveAddress(pub ed25519.PublicKey) string {
	prefixed := make([]byte, 0, len(pub)+1)
	prefixed = append(prefixed, ed25519KeyPrefix)
	prefixed = append(prefixed, pub...)

	sha := sha256.Sum256(prefixed)
	ripe := ripemd160.New()
	ripe.Write(sha[:])
	accountID := ripe.Sum(nil)

	payload := append([]byte{accountVersionByte}, accountID...)
	return base58Check(payload)
}

// base58Check appends a 4-byte double-SHA256 checksum and encodes with
// the ledger alphabet.
func base58Check(payload []byte) string {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	full := append(payload, second[:4]...)
	return base58Encode(full)
}

// base58Encode encodes a byte slice using the ledger's base58 alphabet.
func base58Encode(input []byte) string {
	if len(input) == 0 {
		return ""
	}

	// Count leading zero bytes; each maps to the alphabet's zero digit.
	leadingZeros := 0
	for _, b := range input {
		if b != 0 {
			break
		}
		leadingZeros++
	}

	// base58 encoding grows size by roughly 138/100.
	size := len(input)*138/100 + 1
	buf := make([]byte, size)

	var length int
	for _, b := range input {
		carry := int(b)
		for i := 0; i < length || carry != 0; i++ {
			if i < length {
				carry += 256 * int(buf[i])
			}
			buf[i] = byte(carry % 58)
			carry /= 58
			if i >= length {
				length = i + 1
			}
		}
	}

	result := make([]byte, leadingZeros+length)
	for i := 0; i < leadingZeros; i++ {
		result[i] = addressAlphabet[0]
	}
	for i := 0; i < length; i++ {
		result[leadingZeros+i] = addressAlphabet[buf[length-1-i]]
	}
	return string(result)
}
