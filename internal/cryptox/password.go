// Package cryptox implements the one-way password codec used by the account
// service: argon2id digests in the standard encoded form, with a fresh random
// salt per call and constant-time verification.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/techclub/recruitd/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argonIterations  = 1
	argonMemory      = 64 * 1024
	argonParallelism = 4
	argonKeyLength   = 32
	argonSaltLength  = 16
)

// HashPassword derives an argon2id digest of password with a fresh random
// salt. Two calls on the same password produce different digests; both verify.
//
// The digest is self-describing:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// with salt and key base64-encoded without padding.
func HashPassword(password string) string {
	salt := common.GenerateRandByteArray(argonSaltLength)
	key := argon2.IDKey([]byte(password), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonIterations, argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

// VerifyPassword recomputes the digest of password using the salt and
// parameters embedded in encoded and compares the result in constant time.
// It returns common.ErrMalformedDigest when encoded is not a valid argon2id
// digest. The plaintext is never stored or logged.
func VerifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return false, common.ErrMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, common.ErrMalformedDigest
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, common.ErrMalformedDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, common.ErrMalformedDigest
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return false, common.ErrMalformedDigest
	}

	candidate := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}
