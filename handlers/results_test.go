// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/movie-night/lobby"
	"github.com/danielhkuo/movie-night/models"
	"github.com/danielhkuo/movie-night/store"
	"github.com/danielhkuo/movie-night/testutil"
)

func TestFinalize(t *testing.T) {
	svc, conn, _ := setupService(t)
	handler := NewResultsHandler(svc)
	lobbyID := testutil.CreateTestLobby(t, conn, host)
	testutil.AddTestCandidateID(t, conn, lobbyID, "A", "Alien")
	testutil.AddTestCandidateID(t, conn, lobbyID, "B", "Brazil")
	testutil.AddTestCandidateID(t, conn, lobbyID, "C", "Casablanca")
	path := map[string]string{"id": lobbyID}

	// No full ballot yet
	testutil.SubmitTestRanking(t, conn, lobbyID, "early", "A")
	w := httptest.NewRecorder()
	handler.Finalize(w, request("POST", "/lobbies/"+lobbyID+"/finalize", nil, host, path))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	if status := testutil.LobbyStatus(t, conn, lobbyID); status != models.StatusOpen {
		t.Errorf("Expected lobby to stay open, got %s", status)
	}

	testutil.SubmitTestRanking(t, conn, lobbyID, host, "A", "B", "C")
	testutil.SubmitTestRanking(t, conn, lobbyID, guest, "B", "A", "C")

	w = httptest.NewRecorder()
	handler.Finalize(w, request("POST", "/lobbies/"+lobbyID+"/finalize", nil, guest, path))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = httptest.NewRecorder()
	handler.Finalize(w, request("POST", "/lobbies/"+lobbyID+"/finalize", nil, host, path))
	testutil.AssertStatus(t, w, http.StatusOK)

	var first models.FinalizeResponse
	testutil.AssertJSON(t, w, &first)
	if first.Result.WinnerCandidateID != "A" {
		t.Errorf("Expected winner A, got %s", first.Result.WinnerCandidateID)
	}
	if first.Result.Scores["A"] != 5 || first.Result.Scores["B"] != 5 || first.Result.Scores["C"] != 2 {
		t.Errorf("Unexpected scores: %v", first.Result.Scores)
	}
	if status := testutil.LobbyStatus(t, conn, lobbyID); status != models.StatusClosed {
		t.Errorf("Expected lobby to be closed, got %s", status)
	}

	// Finalizing again returns the stored result
	w = httptest.NewRecorder()
	handler.Finalize(w, request("POST", "/lobbies/"+lobbyID+"/finalize", nil, host, path))
	testutil.AssertStatus(t, w, http.StatusOK)

	var second models.FinalizeResponse
	testutil.AssertJSON(t, w, &second)
	if !second.Result.ComputedAt.Equal(first.Result.ComputedAt) || second.Result.WinnerCandidateID != "A" {
		t.Errorf("Expected the stored result, got %+v", second.Result)
	}

	w = httptest.NewRecorder()
	handler.GetResult(w, request("GET", "/lobbies/"+lobbyID+"/result", nil, guest, path))
	testutil.AssertStatus(t, w, http.StatusOK)

	var stored models.Result
	testutil.AssertJSON(t, w, &stored)
	if len(stored.Leaderboard) != 3 || len(stored.Ballots) != 2 {
		t.Errorf("Expected 3 leaderboard rows and 2 ballots, got %d and %d", len(stored.Leaderboard), len(stored.Ballots))
	}
}

func TestFinalizeErrors(t *testing.T) {
	svc, conn, _ := setupService(t)
	handler := NewResultsHandler(svc)
	empty := testutil.CreateTestLobby(t, conn, host)

	tests := []struct {
		name           string
		lobbyID        string
		expectedStatus int
	}{
		{name: "no candidates", lobbyID: empty, expectedStatus: http.StatusBadRequest},
		{name: "lobby not found", lobbyID: "missing", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Finalize(w, request("POST", "/lobbies/"+tt.lobbyID+"/finalize", nil, host, map[string]string{"id": tt.lobbyID}))
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestGetResultBeforeFinalize(t *testing.T) {
	svc, conn, _ := setupService(t)
	handler := NewResultsHandler(svc)
	lobbyID := testutil.CreateTestLobby(t, conn, host)

	w := httptest.NewRecorder()
	handler.GetResult(w, request("GET", "/lobbies/"+lobbyID+"/result", nil, guest, map[string]string{"id": lobbyID}))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	handler.GetRationale(w, request("GET", "/lobbies/"+lobbyID+"/rationale", nil, guest, map[string]string{"id": lobbyID}))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestRationale(t *testing.T) {
	svc, conn, _ := setupService(t)
	handler := NewResultsHandler(svc)
	lobbyID := testutil.CreateTestLobby(t, conn, host)
	testutil.AddTestCandidateID(t, conn, lobbyID, "A", "Alien")
	testutil.AddTestCandidateID(t, conn, lobbyID, "B", "Brazil")
	testutil.SubmitTestRanking(t, conn, lobbyID, host, "B", "A")
	path := map[string]string{"id": lobbyID}

	w := httptest.NewRecorder()
	handler.Finalize(w, request("POST", "/lobbies/"+lobbyID+"/finalize", nil, host, path))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	handler.GetRationale(w, request("GET", "/lobbies/"+lobbyID+"/rationale", nil, guest, path))
	testutil.AssertStatus(t, w, http.StatusOK)
	var before models.RationaleResponse
	testutil.AssertJSON(t, w, &before)
	if before.Rationale != nil {
		t.Errorf("Expected no rationale yet, got %q", *before.Rationale)
	}

	w = httptest.NewRecorder()
	handler.GenerateRationale(w, request("POST", "/lobbies/"+lobbyID+"/rationale", nil, guest, path))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var created models.RationaleResponse
	testutil.AssertJSON(t, w, &created)
	if !created.Created || created.Rationale == nil || !strings.Contains(*created.Rationale, `"Brazil" won`) {
		t.Fatalf("Unexpected rationale response: %+v", created)
	}

	w = httptest.NewRecorder()
	handler.GenerateRationale(w, request("POST", "/lobbies/"+lobbyID+"/rationale", nil, guest, path))
	testutil.AssertStatus(t, w, http.StatusOK)
	var again models.RationaleResponse
	testutil.AssertJSON(t, w, &again)
	if again.Created || again.Rationale == nil || *again.Rationale != *created.Rationale {
		t.Errorf("Expected the stored rationale, got %+v", again)
	}
}

func TestGenerateRationaleDisabled(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := lobby.NewService(store.New(conn), nil, nil)
	handler := NewResultsHandler(svc)
	lobbyID := testutil.CreateTestLobby(t, conn, host)
	testutil.AddTestCandidateID(t, conn, lobbyID, "A", "Alien")
	testutil.SubmitTestRanking(t, conn, lobbyID, host, "A")
	path := map[string]string{"id": lobbyID}

	w := httptest.NewRecorder()
	handler.Finalize(w, request("POST", "/lobbies/"+lobbyID+"/finalize", nil, host, path))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	handler.GenerateRationale(w, request("POST", "/lobbies/"+lobbyID+"/rationale", nil, host, path))
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
}
