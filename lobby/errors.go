// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"errors"

	"github.com/danielhkuo/movie-night/tally"
)

var (
	ErrInvalidInput        = tally.ErrInvalidInput
	ErrNoCompleteBallots   = tally.ErrNoCompleteBallots
	ErrForbidden           = errors.New("host only")
	ErrNotFound            = errors.New("not found")
	ErrNoCandidates        = errors.New("no candidates")
	ErrLobbyClosed         = errors.New("lobby is closed")
	ErrAllocationExhausted = errors.New("could not allocate invite code")

	// ErrCodeTaken is returned by a Store when an invite code is already in
	// use by another lobby.
	ErrCodeTaken = errors.New("invite code already taken")
)
