// Package auth holds the credential and access-token primitives used by the
// login and bearer-authentication flows. Everything here is stateless and safe
// for concurrent use once constructed.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

type Scheme string

const (
	SchemeBcrypt   Scheme = "bcrypt"
	SchemeArgon2id Scheme = "argon2id"
)

const (
	argon2Prefix    = "$argon2id$"
	maxArgon2Memory = 1 << 20
)

// PasswordHasher hashes new passwords with one scheme and verifies stored
// hashes of any supported scheme.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password string, encodedHash string) bool
}

type Argon2Params struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var DefaultArgon2Params = Argon2Params{
	Memory:      64 * 1024,
	Time:        3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

type HasherConfig struct {
	Scheme     Scheme
	BcryptCost int
	Argon2     Argon2Params
}

func NewPasswordHasher(cfg HasherConfig) (PasswordHasher, error) {
	switch cfg.Scheme {
	case "", SchemeBcrypt:
		return NewBcryptHasher(cfg.BcryptCost)
	case SchemeArgon2id:
		return NewArgon2Hasher(cfg.Argon2)
	default:
		return nil, fmt.Errorf("unsupported password scheme %q", cfg.Scheme)
	}
}

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return &BcryptHasher{cost: cost}, nil
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}

	return string(hash), nil
}

func (h *BcryptHasher) Verify(password string, encodedHash string) bool {
	return VerifyPassword(password, encodedHash)
}

type Argon2Hasher struct {
	params Argon2Params
}

func NewArgon2Hasher(params Argon2Params) (*Argon2Hasher, error) {
	if params == (Argon2Params{}) {
		params = DefaultArgon2Params
	}
	if params.Memory < 8*1024 || params.Memory > maxArgon2Memory {
		return nil, fmt.Errorf("argon2 memory must be between 8192 and %d KiB", maxArgon2Memory)
	}
	if params.Time < 1 || params.Parallelism < 1 {
		return nil, fmt.Errorf("argon2 time and parallelism must be positive")
	}
	if params.SaltLength < 16 || params.KeyLength < 16 {
		return nil, fmt.Errorf("argon2 salt and key length must be at least 16 bytes")
	}

	return &Argon2Hasher{params: params}, nil
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix,
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2Hasher) Verify(password string, encodedHash string) bool {
	return VerifyPassword(password, encodedHash)
}

// VerifyPassword reports whether password matches encodedHash. The scheme is
// taken from the hash prefix; unknown or malformed hashes never match.
func VerifyPassword(password string, encodedHash string) bool {
	switch {
	case strings.HasPrefix(encodedHash, argon2Prefix):
		return verifyArgon2id(password, encodedHash)
	case isBcryptHash(encodedHash):
		return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
	default:
		return false
	}
}

func isBcryptHash(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$")
}

func verifyArgon2id(password string, encodedHash string) bool {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, timeCost uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &parallelism); err != nil {
		return false
	}
	if memory == 0 || memory > maxArgon2Memory || timeCost == 0 || parallelism == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return false
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, timeCost, memory, parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(computed, key) == 1
}
