package auth

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature invalid")
	ErrExpired      = errors.New("token expired")
)

type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// TokenManager issues and verifies HS256 access tokens. It holds no mutable
// state after construction.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if len(strings.TrimSpace(string(cfg.Secret))) == 0 {
		return nil, errors.New("token signing secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &TokenManager{
		secret: secret,
		ttl:    cfg.TTL,
		issuer: strings.TrimSpace(cfg.Issuer),
	}, nil
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for subject that expires TTL after now. The returned
// time is the expiry exactly as encoded in the token.
func (m *TokenManager) Issue(subject string, role string, now time.Time) (string, time.Time, error) {
	if strings.TrimSpace(subject) == "" {
		return "", time.Time{}, errors.New("token subject is required")
	}

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks the signature of raw, then its claims against now. Failures
// are reported as ErrMalformed, ErrBadSignature or ErrExpired.
func (m *TokenManager) Verify(raw string, now time.Time) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	token, err := jwt.NewParser(opts...).ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, classifyParseError(raw, err)
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrMalformed
	}

	return claims, nil
}

func classifyParseError(raw string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		if onlySignatureUndecodable(raw) {
			return ErrBadSignature
		}
		return ErrMalformed
	default:
		return ErrMalformed
	}
}

// onlySignatureUndecodable reports whether the header and claims segments of
// raw decode to JSON objects while the signature segment does not. Everything
// after the second dot counts as signature.
func onlySignatureUndecodable(raw string) bool {
	segments := strings.SplitN(raw, ".", 3)
	if len(segments) != 3 {
		return false
	}

	parser := jwt.NewParser(jwt.WithStrictDecoding())
	for _, segment := range segments[:2] {
		decoded, err := parser.DecodeSegment(segment)
		if err != nil {
			return false
		}
		var fields map[string]any
		if err := json.Unmarshal(decoded, &fields); err != nil || fields == nil {
			return false
		}
	}

	_, err := parser.DecodeSegment(segments[2])
	return err != nil
}
