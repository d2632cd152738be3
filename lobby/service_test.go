// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/movie-night/auth"
	"github.com/danielhkuo/movie-night/events"
	"github.com/danielhkuo/movie-night/lobby"
	"github.com/danielhkuo/movie-night/models"
	"github.com/danielhkuo/movie-night/rationale"
	"github.com/danielhkuo/movie-night/store"
	"github.com/danielhkuo/movie-night/testutil"
)

const (
	host  models.VoterID = "host"
	guest models.VoterID = "guest"
)

// recorder collects published events
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(t events.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type fixture struct {
	svc  *lobby.Service
	conn *sql.DB
	pub  *recorder
}

func setup(t *testing.T, opts ...lobby.Option) fixture {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	pub := &recorder{}
	svc := lobby.NewService(store.New(conn), pub, rationale.Summarizer{}, opts...)
	return fixture{svc: svc, conn: conn, pub: pub}
}

// fixedCodes returns a generator that yields codes in order, then errors
func fixedCodes(codes ...string) (func() (string, error), *int) {
	calls := 0
	return func() (string, error) {
		calls++
		if calls > len(codes) {
			return "", errors.New("out of codes")
		}
		return codes[calls-1], nil
	}, &calls
}

func TestCreateLobby(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lb, err := f.svc.CreateLobby(ctx, host, "   ")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultLobbyTitle, lb.Title)
	assert.Equal(t, models.StatusOpen, lb.Status)
	require.NotNil(t, lb.Code)
	assert.True(t, auth.IsInviteCode(*lb.Code))

	members, err := f.svc.Members(ctx, lb.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, host, members[0].VoterID)
	assert.Equal(t, models.RoleHost, members[0].Role)

	resolved, err := f.svc.ResolveInvite(ctx, " "+strings.ToUpper(*lb.Code)+" ")
	require.NoError(t, err)
	assert.Equal(t, lb.ID, resolved.ID)

	_, err = f.svc.ResolveInvite(ctx, "00000000")
	assert.ErrorIs(t, err, lobby.ErrNotFound)

	for _, malformed := range []string{"", "not-a-code", *lb.Code + "0", "' OR 1=1"} {
		_, err = f.svc.ResolveInvite(ctx, malformed)
		assert.ErrorIs(t, err, lobby.ErrNotFound, "code %q", malformed)
	}

	_, err = f.svc.CreateLobby(ctx, "", "x")
	assert.ErrorIs(t, err, lobby.ErrInvalidInput)
}

func TestCreateLobby_AllocationExhausted(t *testing.T) {
	gen, calls := fixedCodes("aaaaaaaa", "aaaaaaaa", "aaaaaaaa", "aaaaaaaa", "aaaaaaaa", "aaaaaaaa")
	f := setup(t, lobby.WithCodeGenerator(gen))
	ctx := context.Background()

	_, err := f.svc.CreateLobby(ctx, host, "First")
	require.NoError(t, err)

	_, err = f.svc.CreateLobby(ctx, host, "Second")
	assert.ErrorIs(t, err, lobby.ErrAllocationExhausted)
	assert.Equal(t, 1+lobby.MaxCodeAttempts, *calls)
}

func TestRegenerateCode(t *testing.T) {
	gen, calls := fixedCodes("11111111", "22222222", "11111111", "33333333")
	f := setup(t, lobby.WithCodeGenerator(gen))
	ctx := context.Background()

	first, err := f.svc.CreateLobby(ctx, host, "First")
	require.NoError(t, err)
	second, err := f.svc.CreateLobby(ctx, host, "Second")
	require.NoError(t, err)

	// "11111111" belongs to the first lobby, so the allocator retries
	code, err := f.svc.RegenerateCode(ctx, second.ID, host)
	require.NoError(t, err)
	assert.Equal(t, "33333333", code)
	assert.Equal(t, 4, *calls)

	resolved, err := f.svc.ResolveInvite(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, second.ID, resolved.ID)

	_, err = f.svc.ResolveInvite(ctx, "22222222")
	assert.ErrorIs(t, err, lobby.ErrNotFound, "old code no longer resolves")

	_, err = f.svc.RegenerateCode(ctx, first.ID, guest)
	assert.ErrorIs(t, err, lobby.ErrForbidden)

	_, err = f.svc.RegenerateCode(ctx, "missing", host)
	assert.ErrorIs(t, err, lobby.ErrNotFound)

	// Generator failures are not retried
	_, err = f.svc.RegenerateCode(ctx, first.ID, host)
	require.Error(t, err)
	assert.NotErrorIs(t, err, lobby.ErrAllocationExhausted)
	assert.Equal(t, 1, f.pub.count(events.CodeRegenerated))
}

func TestRegenerateCode_ClosedLobby(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lb, err := f.svc.CreateLobby(ctx, host, "")
	require.NoError(t, err)
	a := testutil.AddTestCandidate(t, f.conn, lb.ID, "Alien")
	testutil.SubmitTestRanking(t, f.conn, lb.ID, host, a)
	_, err = f.svc.Finalize(ctx, lb.ID, host)
	require.NoError(t, err)

	code, err := f.svc.RegenerateCode(ctx, lb.ID, host)
	require.NoError(t, err)
	assert.NotEqual(t, *lb.Code, code)
}

func TestJoin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lb, err := f.svc.CreateLobby(ctx, host, "Friday")
	require.NoError(t, err)

	m, err := f.svc.Join(ctx, lb.ID, guest, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, m.Role)
	assert.Nil(t, m.Nickname)

	m, err = f.svc.Join(ctx, lb.ID, guest, "  Sam ")
	require.NoError(t, err)
	require.NotNil(t, m.Nickname)
	assert.Equal(t, "Sam", *m.Nickname)

	m, err = f.svc.Join(ctx, lb.ID, guest, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Sam", *m.Nickname, "join does not overwrite a nickname")

	m, err = f.svc.Join(ctx, lb.ID, host, "Boss")
	require.NoError(t, err)
	assert.Equal(t, models.RoleHost, m.Role)

	require.NoError(t, f.svc.SetNickname(ctx, lb.ID, guest, "Alex"))
	members, err := f.svc.Members(ctx, lb.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	_, err = f.svc.Join(ctx, lb.ID, guest, strings.Repeat("x", lobby.MaxNicknameLength+1))
	assert.ErrorIs(t, err, lobby.ErrInvalidInput)
	assert.ErrorIs(t, f.svc.SetNickname(ctx, lb.ID, guest, "  "), lobby.ErrInvalidInput)
	assert.ErrorIs(t, f.svc.SetNickname(ctx, lb.ID, "stranger", "Who"), lobby.ErrNotFound)

	_, err = f.svc.Join(ctx, "missing", guest, "")
	assert.ErrorIs(t, err, lobby.ErrNotFound)
	assert.Equal(t, 4, f.pub.count(events.MemberJoined))
}

func TestCandidates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lb, err := f.svc.CreateLobby(ctx, host, "")
	require.NoError(t, err)

	c, err := f.svc.AddCandidate(ctx, lb.ID, guest, "  Alien  ")
	require.NoError(t, err)
	assert.Equal(t, "Alien", c.Title)
	assert.Equal(t, guest, c.AddedBy)

	_, err = f.svc.AddCandidate(ctx, lb.ID, guest, "   ")
	assert.ErrorIs(t, err, lobby.ErrInvalidInput)
	_, err = f.svc.AddCandidate(ctx, "missing", guest, "Brazil")
	assert.ErrorIs(t, err, lobby.ErrNotFound)

	list, err := f.svc.Candidates(ctx, lb.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.ErrorIs(t, f.svc.RemoveCandidate(ctx, lb.ID, guest, c.ID), lobby.ErrForbidden)
	assert.ErrorIs(t, f.svc.RemoveCandidate(ctx, lb.ID, host, "missing"), lobby.ErrNotFound)
	require.NoError(t, f.svc.RemoveCandidate(ctx, lb.ID, host, c.ID))
	assert.Equal(t, 1, f.pub.count(events.CandidateRemoved))
}

func TestSubmitBallot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lb, err := f.svc.CreateLobby(ctx, host, "")
	require.NoError(t, err)
	a := testutil.AddTestCandidate(t, f.conn, lb.ID, "Alien")
	b := testutil.AddTestCandidate(t, f.conn, lb.ID, "Brazil")

	other := testutil.CreateTestLobby(t, f.conn, host)
	foreign := testutil.AddTestCandidate(t, f.conn, other, "Foreign")

	tests := []struct {
		name    string
		lobbyID string
		ranking []string
		wantErr error
	}{
		{"complete", lb.ID, []string{b, a}, nil},
		{"partial", lb.ID, []string{a}, nil},
		{"empty", lb.ID, nil, lobby.ErrInvalidInput},
		{"duplicate", lb.ID, []string{a, a}, lobby.ErrInvalidInput},
		{"unknown", lb.ID, []string{a, "nope"}, lobby.ErrInvalidInput},
		{"other lobby's candidate", lb.ID, []string{a, foreign}, lobby.ErrInvalidInput},
		{"missing lobby", "missing", []string{a}, lobby.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.SubmitBallot(ctx, tt.lobbyID, guest, tt.ranking)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := f.svc.MyBallot(ctx, tt.lobbyID, guest)
			require.NoError(t, err)
			assert.Equal(t, tt.ranking, got)
		})
	}

	// The last successful write was the partial ballot
	got, err := f.svc.MyBallot(ctx, lb.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, got)
	assert.Equal(t, 2, f.pub.count(events.BallotSubmitted))
}

func TestSubmitBallot_ClosedLobby(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lb, err := f.svc.CreateLobby(ctx, host, "")
	require.NoError(t, err)
	a := testutil.AddTestCandidate(t, f.conn, lb.ID, "Alien")
	require.NoError(t, f.svc.SubmitBallot(ctx, lb.ID, host, []string{a}))
	_, err = f.svc.Finalize(ctx, lb.ID, host)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.SubmitBallot(ctx, lb.ID, guest, []string{a}), lobby.ErrLobbyClosed)
	_, err = f.svc.AddCandidate(ctx, lb.ID, guest, "Late")
	assert.ErrorIs(t, err, lobby.ErrLobbyClosed)
}

func TestProgress(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lb, err := f.svc.CreateLobby(ctx, host, "")
	require.NoError(t, err)

	p, err := f.svc.Progress(ctx, lb.ID, host)
	require.NoError(t, err)
	assert.Equal(t, models.Progress{MemberCount: 1}, p)

	a := testutil.AddTestCandidate(t, f.conn, lb.ID, "Alien")
	b := testutil.AddTestCandidate(t, f.conn, lb.ID, "Brazil")
	_, err = f.svc.Join(ctx, lb.ID, guest, "")
	require.NoError(t, err)
	require.NoError(t, f.svc.SubmitBallot(ctx, lb.ID, guest, []string{a}))

	p, err = f.svc.Progress(ctx, lb.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, models.Progress{CandidateCount: 2, MemberCount: 2}, p)

	require.NoError(t, f.svc.SubmitBallot(ctx, lb.ID, guest, []string{b, a}))
	p, err = f.svc.Progress(ctx, lb.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, models.Progress{CandidateCount: 2, MemberCount: 2, FullBallots: 1, MyIsFull: true, CanFinalize: true}, p)

	p, err = f.svc.Progress(ctx, lb.ID, host)
	require.NoError(t, err)
	assert.False(t, p.MyIsFull)
	assert.True(t, p.CanFinalize)

	_, err = f.svc.Progress(ctx, "missing", host)
	assert.ErrorIs(t, err, lobby.ErrNotFound)
}

func TestGenerateRationale(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lb, err := f.svc.CreateLobby(ctx, host, "")
	require.NoError(t, err)
	a := testutil.AddTestCandidate(t, f.conn, lb.ID, "Alien")
	testutil.SubmitTestRanking(t, f.conn, lb.ID, host, a)

	_, _, err = f.svc.GenerateRationale(ctx, lb.ID)
	assert.ErrorIs(t, err, lobby.ErrNotFound, "no result yet")

	_, err = f.svc.Finalize(ctx, lb.ID, host)
	require.NoError(t, err)

	stored, err := f.svc.Rationale(ctx, lb.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	text, created, err := f.svc.GenerateRationale(ctx, lb.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Contains(t, text, `"Alien" won`)

	again, created, err := f.svc.GenerateRationale(ctx, lb.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, text, again)

	res, err := f.svc.GetResult(ctx, lb.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Rationale)
	assert.Equal(t, text, *res.Rationale)
}

func TestGenerateRationale_Disabled(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := lobby.NewService(store.New(conn), nil, nil, lobby.WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	}))
	ctx := context.Background()

	lb, err := svc.CreateLobby(ctx, host, "")
	require.NoError(t, err)
	a := testutil.AddTestCandidate(t, conn, lb.ID, "Alien")
	testutil.SubmitTestRanking(t, conn, lb.ID, host, a)
	_, err = svc.Finalize(ctx, lb.ID, host)
	require.NoError(t, err)

	_, _, err = svc.GenerateRationale(ctx, lb.ID)
	assert.ErrorIs(t, err, lobby.ErrRationaleDisabled)
}
