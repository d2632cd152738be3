// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/movie-night/models"
)

var (
	ErrInvalidToken     = errors.New("invalid token format")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// InviteCodeBytes is the entropy of an invite code; hex encoding doubles it
// to 8 characters.
const InviteCodeBytes = 4

// NewID returns a random UUID string for lobbies and candidates
func NewID() string {
	return uuid.NewString()
}

// NewVoterID issues a fresh anonymous identity
func NewVoterID() models.VoterID {
	return models.VoterID(uuid.NewString())
}

// GenerateInviteCode creates an 8-character lowercase hex code
func GenerateInviteCode() (string, error) {
	b := make([]byte, InviteCodeBytes)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// IsInviteCode reports whether s has the shape of an invite code
func IsInviteCode(s string) bool {
	if len(s) != 2*InviteCodeBytes {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// SignVoterID returns the cookie value for a voter: "<id>.<hmac>"
func SignVoterID(id models.VoterID, salt string) string {
	return string(id) + "." + voterSignature(id, salt)
}

// ParseVoterCookie verifies a value produced by SignVoterID
func ParseVoterCookie(value, salt string) (models.VoterID, error) {
	idx := strings.LastIndexByte(value, '.')
	if idx <= 0 || idx == len(value)-1 {
		return "", ErrInvalidToken
	}

	id := models.VoterID(value[:idx])
	if _, err := uuid.Parse(string(id)); err != nil {
		return "", ErrInvalidToken
	}

	expected := voterSignature(id, salt)
	if !hmac.Equal([]byte(value[idx+1:]), []byte(expected)) {
		return "", ErrInvalidSignature
	}
	return id, nil
}

// voterSignature is deterministic and verifiable
func voterSignature(id models.VoterID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(id))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner cookies
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}
