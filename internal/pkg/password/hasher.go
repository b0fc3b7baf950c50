// Package password hashes and verifies account passwords.
//
// Argon2id (PHC string format) is the current scheme. Hashes produced by the
// previous bcrypt deployment still verify; Verify flags them so callers can
// re-hash with current parameters after a successful login.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidHash = errors.New("password: invalid hash format")

// Params are the argon2id cost parameters used for new hashes.
type Params struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultParams returns the cost parameters for new hashes: 64 MiB, one
// pass, four lanes.
func DefaultParams() Params {
	return Params{
		Memory:  64 * 1024,
		Time:    1,
		Threads: 4,
		SaltLen: 16,
		KeyLen:  32,
	}
}

// Hasher hashes and verifies passwords with a fixed parameter set.
type Hasher struct {
	params Params

	// dummyHash is verified against on the unknown-identifier path so that
	// a lookup miss costs the same as a password mismatch.
	dummyHash string
}

// NewHasher returns a Hasher using the given parameters (zero value fields
// fall back to defaults).
func NewHasher(p Params) (*Hasher, error) {
	def := DefaultParams()
	if p.Memory == 0 {
		p.Memory = def.Memory
	}
	if p.Time == 0 {
		p.Time = def.Time
	}
	if p.Threads == 0 {
		p.Threads = def.Threads
	}
	if p.SaltLen == 0 {
		p.SaltLen = def.SaltLen
	}
	if p.KeyLen == 0 {
		p.KeyLen = def.KeyLen
	}

	h := &Hasher{params: p}
	dummy, err := h.Hash("campus-dummy-password")
	if err != nil {
		return nil, err
	}
	h.dummyHash = dummy
	return h, nil
}

// Hash returns a PHC-style argon2id hash of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plain), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks plain against a stored hash. upgrade reports that the stored
// hash uses an outdated scheme or parameters and should be re-hashed.
func (h *Hasher) Verify(plain, stored string) (ok, upgrade bool, err error) {
	switch {
	case strings.HasPrefix(stored, "$argon2id$"):
		return h.verifyArgon2id(plain, stored)
	case strings.HasPrefix(stored, "$2a$"), strings.HasPrefix(stored, "$2b$"), strings.HasPrefix(stored, "$2y$"):
		// Legacy bcrypt hash from the previous deployment.
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) != nil {
			return false, false, nil
		}
		return true, true, nil
	default:
		return false, false, ErrInvalidHash
	}
}

// VerifyDummy burns one argon2id verification against a fixed hash. Called
// on the unknown-identifier path of authentication so that both failure
// modes perform exactly one hash computation.
func (h *Hasher) VerifyDummy(plain string) {
	_, _, _ = h.verifyArgon2id(plain, h.dummyHash)
}

func (h *Hasher) verifyArgon2id(plain, stored string) (ok, upgrade bool, err error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		return false, false, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, false, ErrInvalidHash
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return false, false, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, false, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, false, ErrInvalidHash
	}

	computed := argon2.IDKey([]byte(plain), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	if subtle.ConstantTimeCompare(computed, key) != 1 {
		return false, false, nil
	}

	upgrade = version != argon2.Version ||
		p.Memory != h.params.Memory ||
		p.Time != h.params.Time ||
		p.Threads != h.params.Threads ||
		uint32(len(key)) != h.params.KeyLen
	return true, upgrade, nil
}
