// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity and token generation utilities.

# Voter Identity

Every browser gets an anonymous UUID, carried in a signed cookie:

	id := auth.NewVoterID()
	value := auth.SignVoterID(id, salt)
	id, err := auth.ParseVoterCookie(value, salt)

The signature is HMAC-SHA256 over the ID, URL-safe base64 without padding.
A tampered or foreign cookie fails with ErrInvalidSignature and the caller is
issued a new identity.

# Invite Codes

Invite codes are 4 random bytes, hex encoded (8 lowercase characters):

	code, err := auth.GenerateInviteCode()

Codes are not derived from the lobby ID; uniqueness is enforced by the
database and collisions are retried by the lobby service.

# ID Generation

Lobby and candidate IDs are random UUIDs:

	id := auth.NewID()
*/
package auth
