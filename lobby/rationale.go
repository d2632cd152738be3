// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

var ErrRationaleDisabled = errors.New("rationale writer not configured")

// Rationale returns the stored explanation of a result, nil if none yet
func (s *Service) Rationale(ctx context.Context, lobbyID string) (*string, error) {
	res, err := s.store.GetResult(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	return res.Rationale, nil
}

// GenerateRationale writes the explanation once and stores it. Later calls
// return the stored text with created = false.
func (s *Service) GenerateRationale(ctx context.Context, lobbyID string) (text string, created bool, err error) {
	res, err := s.store.GetResult(ctx, lobbyID)
	if err != nil {
		return "", false, err
	}
	if res.Rationale != nil && strings.TrimSpace(*res.Rationale) != "" {
		return *res.Rationale, false, nil
	}
	if s.writer == nil {
		return "", false, ErrRationaleDisabled
	}

	text, err = s.writer.Rationale(ctx, res)
	if err != nil {
		return "", false, err
	}

	stored, err := s.store.SetRationale(ctx, lobbyID, text)
	if err != nil {
		return "", false, err
	}

	slog.Info("rationale stored", "lobby_id", lobbyID)
	return stored, stored == text, nil
}
