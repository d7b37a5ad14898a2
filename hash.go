package granola

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Hasher performs one-way hashing.
type Hasher interface {
	// Hash returns the hash of plaintext as a string.
	// Salted hashers (argon2, bcrypt) include salt and parameters in the result.
	// Deterministic hashers (sha256, sha512) return a hex digest.
	Hash(plaintext []byte) (string, error)
}

// HasherFunc adapts a function into a Hasher.
type HasherFunc func(plaintext []byte) (string, error)

// Hash calls f.
func (f HasherFunc) Hash(plaintext []byte) (string, error) {
	return f(plaintext)
}

// Argon2Params configures Argon2id hashing.
type Argon2Params struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory usage in KiB
	Threads uint8  // Parallelism factor
	KeyLen  uint32 // Output key length
	SaltLen uint32 // Salt length
}

// DefaultArgon2Params returns the OWASP recommended Argon2id parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		KeyLen:  32,
		SaltLen: 16,
	}
}

// Argon2 returns an Argon2id hasher with default parameters.
func Argon2() Hasher {
	return Argon2WithParams(DefaultArgon2Params())
}

// Argon2WithParams returns an Argon2id hasher with custom parameters.
// Output format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func Argon2WithParams(p Argon2Params) Hasher {
	return HasherFunc(func(plaintext []byte) (string, error) {
		salt := make([]byte, p.SaltLen)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return "", fmt.Errorf("failed to generate salt: %w", err)
		}

		key := argon2.IDKey(plaintext, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
		return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
			argon2.Version, p.Memory, p.Time, p.Threads,
			base64.RawStdEncoding.EncodeToString(salt),
			base64.RawStdEncoding.EncodeToString(key),
		), nil
	})
}

// BcryptCost represents the bcrypt cost factor.
type BcryptCost int

// Bcrypt cost constants.
const (
	BcryptMinCost     BcryptCost = BcryptCost(bcrypt.MinCost)
	BcryptDefaultCost BcryptCost = BcryptCost(bcrypt.DefaultCost)
	BcryptMaxCost     BcryptCost = BcryptCost(bcrypt.MaxCost)
)

// Bcrypt returns a bcrypt hasher with default cost.
func Bcrypt() Hasher {
	return BcryptWithCost(BcryptDefaultCost)
}

// BcryptWithCost returns a bcrypt hasher with a specific cost factor.
func BcryptWithCost(cost BcryptCost) Hasher {
	return HasherFunc(func(plaintext []byte) (string, error) {
		hash, err := bcrypt.GenerateFromPassword(plaintext, int(cost))
		if err != nil {
			return "", fmt.Errorf("bcrypt hash failed: %w", err)
		}
		return string(hash), nil
	})
}

// SHA256Hasher returns a hex-encoded SHA-256 hasher.
// Use for fingerprints, not passwords.
func SHA256Hasher() Hasher {
	return HasherFunc(func(plaintext []byte) (string, error) {
		sum := sha256.Sum256(plaintext)
		return hex.EncodeToString(sum[:]), nil
	})
}

// SHA512Hasher returns a hex-encoded SHA-512 hasher.
// Use for fingerprints, not passwords.
func SHA512Hasher() Hasher {
	return HasherFunc(func(plaintext []byte) (string, error) {
		sum := sha512.Sum512(plaintext)
		return hex.EncodeToString(sum[:]), nil
	})
}

// builtinHashers returns a hasher for every HashAlgo.
func builtinHashers() map[HashAlgo]Hasher {
	return map[HashAlgo]Hasher{
		HashArgon2: Argon2(),
		HashBcrypt: Bcrypt(),
		HashSHA256: SHA256Hasher(),
		HashSHA512: SHA512Hasher(),
	}
}
