package secrets

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// ErrMalformedKey signals structurally corrupt stored credential material.
// It is a data-corruption fault, never a user-facing credential mismatch.
var ErrMalformedKey = errors.New("malformed credential record")

const (
	saltLength = 16
	hashLength = 64

	// scrypt cost parameters.
	scryptN = 16384
	scryptR = 8
	scryptP = 1

	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"
)

// GenerateToken returns a cryptographically random alphanumeric token of
// the given length. Account tokens are 20 characters.
func GenerateToken(length int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(tokenAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// Issue derives credential material for a plaintext secret: a fresh random
// salt and the scrypt hash of the secret under that salt.
func Issue(secret string) (salt, hash []byte, err error) {
	salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, err
	}
	hash, err = scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, hashLength)
	if err != nil {
		return nil, nil, err
	}
	return salt, hash, nil
}

// Verify recomputes the hash of the supplied secret under the stored salt
// and compares it to the stored hash in constant time. It never branches on
// partial matches.
func Verify(secret string, salt, hash []byte) bool {
	computed, err := scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, hashLength)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(computed, hash) == 1
}

// EncodeKey packs salt and hash into the stored "hexsalt:hexhash" form.
func EncodeKey(salt, hash []byte) string {
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(hash)
}

// DecodeKey unpacks stored credential material. Any structural defect in
// the record yields ErrMalformedKey.
func DecodeKey(key string) (salt, hash []byte, err error) {
	parts := strings.Split(key, ":")
	if len(parts) != 2 {
		return nil, nil, ErrMalformedKey
	}
	salt, err = hex.DecodeString(parts[0])
	if err != nil {
		return nil, nil, ErrMalformedKey
	}
	hash, err = hex.DecodeString(parts[1])
	if err != nil {
		return nil, nil, ErrMalformedKey
	}
	if len(salt) != saltLength || len(hash) != hashLength {
		return nil, nil, ErrMalformedKey
	}
	return salt, hash, nil
}
