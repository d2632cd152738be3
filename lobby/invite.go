// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielhkuo/movie-night/events"
	"github.com/danielhkuo/movie-night/models"
)

// MaxCodeAttempts bounds the generate-write-retry loop for invite codes
const MaxCodeAttempts = 5

// RegenerateCode replaces the lobby's invite code. Host only; allowed in
// any lobby status.
func (s *Service) RegenerateCode(ctx context.Context, lobbyID string, caller models.VoterID) (string, error) {
	if _, err := s.requireHost(ctx, lobbyID, caller); err != nil {
		return "", err
	}

	code, err := s.allocateCode(ctx, func(code string) error {
		return s.store.SetLobbyCode(ctx, lobbyID, code)
	})
	if err != nil {
		return "", err
	}

	slog.Info("invite code regenerated", "lobby_id", lobbyID, "code", code)
	s.publish(events.CodeRegenerated, lobbyID, models.CodeResponse{Code: code})
	return code, nil
}

// allocateCode generates a code and hands it to write, retrying with a new
// code while write reports ErrCodeTaken. Any other error ends the loop.
func (s *Service) allocateCode(ctx context.Context, write func(code string) error) (string, error) {
	for attempt := 1; attempt <= MaxCodeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := s.newCode()
		if err != nil {
			return "", err
		}

		err = write(code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, ErrCodeTaken) {
			return "", err
		}

		slog.Warn("invite code collision", "attempt", attempt, "code", code)
	}

	return "", ErrAllocationExhausted
}
