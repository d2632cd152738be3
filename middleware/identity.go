// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/movie-night/auth"
	"github.com/danielhkuo/movie-night/models"
)

// VoterCookieName holds the signed anonymous voter id
const VoterCookieName = "mn_uid"

const voterCookieMaxAge = 365 * 24 * 60 * 60 // one year

type voterKey struct{}

// Identity gives every request a voter id. A valid signed cookie is reused;
// a missing or tampered one is replaced with a fresh id.
func Identity(salt string, secure bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		voter, ok := voterFromCookie(r, salt)
		if !ok {
			voter = auth.NewVoterID()
			http.SetCookie(w, &http.Cookie{
				Name:     VoterCookieName,
				Value:    auth.SignVoterID(voter, salt),
				Path:     "/",
				MaxAge:   voterCookieMaxAge,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			slog.Debug("issued voter id", "voter_id", voter)
		}

		next.ServeHTTP(w, WithVoterID(r, voter))
	})
}

func voterFromCookie(r *http.Request, salt string) (models.VoterID, bool) {
	c, err := r.Cookie(VoterCookieName)
	if err != nil {
		return "", false
	}
	voter, err := auth.ParseVoterCookie(c.Value, salt)
	if err != nil {
		slog.Warn("rejected voter cookie", "error", err, "client_ip", GetClientIP(r))
		return "", false
	}
	return voter, true
}

// WithVoterID returns a shallow copy of r carrying voter
func WithVoterID(r *http.Request, voter models.VoterID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), voterKey{}, voter))
}

// VoterID returns the caller's voter id, empty outside Identity
func VoterID(r *http.Request) models.VoterID {
	voter, _ := r.Context().Value(voterKey{}).(models.VoterID)
	return voter
}
