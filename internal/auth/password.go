package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Password hashing defaults. Both values are embedded in every stored
// hash, so changing them only affects newly created hashes.
const (
	DefaultAlgorithm  = "SHA256"
	DefaultIterations = 720_000
)

const (
	saltMinLen = 15
	saltMaxLen = 24
)

// HashPassword derives a salted PBKDF2 hash from a plaintext password
// using a fresh random salt and the default parameters. The result is
// "hash$salt$algorithm$iterations" with the derived key base64-encoded.
func HashPassword(raw string) (string, error) {
	salt, err := generateSalt()
	if err != nil {
		return "", err
	}
	return HashPasswordWith(raw, salt, DefaultAlgorithm, DefaultIterations)
}

// HashPasswordWith derives the hash with explicit parameters. Given the
// same inputs it always produces the same output, which is what makes
// stored hashes verifiable.
func HashPasswordWith(raw, salt, algorithm string, iterations int) (string, error) {
	digest, err := digestFor(algorithm)
	if err != nil {
		return "", err
	}
	if iterations <= 0 {
		return "", fmt.Errorf("invalid iteration count %d", iterations)
	}

	key := pbkdf2.Key([]byte(raw), []byte(salt), iterations, digest().Size(), digest)
	encoded := base64.StdEncoding.EncodeToString(key)
	return fmt.Sprintf("%s$%s$%s$%d", encoded, salt, algorithm, iterations), nil
}

// CheckPassword reports whether raw matches the stored composite hash.
// The stored string is self-describing: salt, algorithm and iteration
// count are parsed out of it and the derivation is re-run. Comparison is
// constant-time.
func CheckPassword(stored, raw string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 4 {
		return false
	}
	salt, algorithm := parts[1], parts[2]
	iterations, err := strconv.Atoi(parts[3])
	if err != nil {
		return false
	}

	recomputed, err := HashPasswordWith(raw, salt, algorithm, iterations)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(recomputed)) == 1
}

func digestFor(algorithm string) (func() hash.Hash, error) {
	switch algorithm {
	case "SHA256":
		return sha256.New, nil
	case "SHA512":
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}
}

// generateSalt returns a URL-safe random string of random length in
// [15,24]. The salt travels verbatim inside the stored hash, so no
// decoding of it ever happens.
func generateSalt() (string, error) {
	span, err := rand.Int(rand.Reader, big.NewInt(saltMaxLen-saltMinLen+1))
	if err != nil {
		return "", err
	}
	length := saltMinLen + int(span.Int64())

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:length], nil
}
