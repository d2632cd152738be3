// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/movie-night/auth"
	"github.com/danielhkuo/movie-night/cliparse"
	"github.com/danielhkuo/movie-night/db"
	"github.com/danielhkuo/movie-night/models"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: db.TypeSQLite,
		IdentitySalt: "test-identity-salt",
	}
}

// CreateTestLobby inserts an open lobby hosted by host and returns its ID
func CreateTestLobby(t *testing.T, conn *sql.DB, host models.VoterID) string {
	t.Helper()

	lobbyID := auth.NewID()
	code, _ := auth.GenerateInviteCode()
	now := time.Now().UTC()

	_, err := conn.Exec(`
		INSERT INTO lobby (id, title, creator, status, code, created_at)
		VALUES ($1, 'Test Lobby', $2, 'open', $3, $4)
	`, lobbyID, string(host), code, now)
	if err != nil {
		t.Fatalf("Failed to create test lobby: %v", err)
	}

	AddTestMember(t, conn, lobbyID, host, models.RoleHost)
	return lobbyID
}

// AddTestMember joins voter to a lobby with the given role
func AddTestMember(t *testing.T, conn *sql.DB, lobbyID string, voter models.VoterID, role string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO lobby_member (lobby_id, voter_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`, lobbyID, string(voter), role, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to add test member: %v", err)
	}
}

// AddTestCandidate nominates a title and returns the candidate ID
func AddTestCandidate(t *testing.T, conn *sql.DB, lobbyID, title string) string {
	t.Helper()

	candidateID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO candidate (id, lobby_id, title, added_by, created_at)
		VALUES ($1, $2, $3, 'test', $4)
	`, candidateID, lobbyID, title, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// AddTestCandidateID nominates a title under a fixed ID, for tests that
// depend on id ordering
func AddTestCandidateID(t *testing.T, conn *sql.DB, lobbyID, candidateID, title string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO candidate (id, lobby_id, title, added_by, created_at)
		VALUES ($1, $2, $3, 'test', $4)
	`, candidateID, lobbyID, title, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
}

// SubmitTestRanking writes a voter's ranking, first choice first
func SubmitTestRanking(t *testing.T, conn *sql.DB, lobbyID string, voter models.VoterID, ranking ...string) {
	t.Helper()

	for i, candidateID := range ranking {
		_, err := conn.Exec(`
			INSERT INTO ranking (lobby_id, voter_id, candidate_id, position)
			VALUES ($1, $2, $3, $4)
		`, lobbyID, string(voter), candidateID, i+1)
		if err != nil {
			t.Fatalf("Failed to create test ranking: %v", err)
		}
	}
}

// LobbyStatus reads a lobby's status straight from the database
func LobbyStatus(t *testing.T, conn *sql.DB, lobbyID string) string {
	t.Helper()

	var status string
	if err := conn.QueryRow(`SELECT status FROM lobby WHERE id = $1`, lobbyID).Scan(&status); err != nil {
		t.Fatalf("Failed to read lobby status: %v", err)
	}
	return status
}

// CountRows counts rows in table matching lobbyID
func CountRows(t *testing.T, conn *sql.DB, table, lobbyID string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE lobby_id = $1`, lobbyID).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s rows: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
