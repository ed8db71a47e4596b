package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	internal_errors "github.com/gocart-dev/gocart/internal/errors"
	"github.com/gocart-dev/gocart/internal/logger"
)

// Kind tags what a token may be used for. An access token can never stand in
// for a refresh or reset token and vice versa.
type Kind string

const (
	Access  Kind = "access"
	Refresh Kind = "refresh"
	Reset   Kind = "reset"
)

// ErrInvalidToken is the single error Parse returns for every decode failure.
// Callers cannot tell expired from tampered from malformed; the distinction
// only shows up in the debug log.
var ErrInvalidToken = internal_errors.Unauthorized("Invalid token")

// Claims is the decoded, verified content of a token.
type Claims struct {
	Subject   uuid.UUID
	Kind      Kind
	Jti       uuid.UUID
	ExpiresAt time.Time
}

// TTLs carries the per-kind token lifetimes.
type TTLs struct {
	Access  time.Duration
	Refresh time.Duration
	Reset   time.Duration
}

type Codec struct {
	secretKey string
	ttls      TTLs
}

func NewCodec(secretKey string, ttls TTLs) *Codec {
	return &Codec{secretKey: secretKey, ttls: ttls}
}

func (c *Codec) ttl(kind Kind) time.Duration {
	switch kind {
	case Refresh:
		return c.ttls.Refresh
	case Reset:
		return c.ttls.Reset
	default:
		return c.ttls.Access
	}
}

// TTL exposes the configured lifetime for a kind, used e.g. to size the
// refresh cookie's MaxAge.
func (c *Codec) TTL(kind Kind) time.Duration {
	return c.ttl(kind)
}

// Issue signs a token of the given kind for subject. Every token gets a fresh
// jti and an absolute expiry of now + the kind's TTL.
func (c *Codec) Issue(kind Kind, subject uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": subject.String(),
		"typ": string(kind),
		"jti": uuid.NewString(),
		"exp": now.Add(c.ttl(kind)).Unix(),
		"iat": now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(c.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "kind", kind, "error", err)
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the claims. It is pure:
// no storage lookups, no blacklist checks. Any failure collapses into
// ErrInvalidToken so the response can't be used as an oracle.
func (c *Codec) Parse(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(c.secretKey), nil
	})
	if err != nil {
		logger.Log.Debug("token rejected", "error", err)
		return Claims{}, ErrInvalidToken
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	return claimsFromMap(mapClaims)
}

func claimsFromMap(m jwt.MapClaims) (Claims, error) {
	sub, ok := m["sub"].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	subject, err := uuid.Parse(sub)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	typ, ok := m["typ"].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	jtiStr, ok := m["jti"].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	jti, err := uuid.Parse(jtiStr)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	expFloat, ok := m["exp"].(float64)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		Subject:   subject,
		Kind:      Kind(typ),
		Jti:       jti,
		ExpiresAt: time.Unix(int64(expFloat), 0).UTC(),
	}, nil
}
