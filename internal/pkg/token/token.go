package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid service token")

// Strategy issues and verifies tokens for the mutating endpoints.
type Strategy interface {
	Issue(actor string) (string, error)
	Verify(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}

// HMACStrategy signs service tokens with HMAC-SHA256 over a shared
// secret. The platform gateway holds the same secret and signs the admin
// calls it forwards.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl}
}

// Issue generates a signed token naming the acting service or operator.
func (s *HMACStrategy) Issue(actor string) (string, error) {
	if actor == "" || strings.Contains(actor, ":") {
		return "", fmt.Errorf("invalid actor %q", actor)
	}
	expires := time.Now().Add(s.ttl).Unix()
	payload := fmt.Sprintf("%s:%d", actor, expires)
	sig := s.sign(payload)
	return base64.StdEncoding.EncodeToString([]byte(payload + ":" + sig)), nil
}

// Verify validates the token and returns the encoded actor.
func (s *HMACStrategy) Verify(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return "", ErrInvalidToken
	}

	payload := strings.Join(parts[:2], ":")
	expectedSig := s.sign(payload)
	if !hmac.Equal([]byte(expectedSig), []byte(parts[2])) {
		return "", ErrInvalidToken
	}

	expires, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	if time.Unix(expires, 0).Before(time.Now()) {
		return "", ErrInvalidToken
	}

	return parts[0], nil
}

func (s *HMACStrategy) Name() string {
	return "hmac"
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
