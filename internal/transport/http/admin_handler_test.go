package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

func TestAdminCreateAndInspectGame(t *testing.T) {
	server := newAdminServer(t)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/quiz/create", "application/json", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var created struct {
		GameID        string `json:"gameId"`
		QuestionCount int    `json:"questionCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.GameID == "" || created.QuestionCount != 1 {
		t.Fatalf("unexpected create response %+v", created)
	}

	infoResp, err := http.Get(server.URL + "/api/quiz/" + created.GameID)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	defer infoResp.Body.Close()
	if infoResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", infoResp.StatusCode)
	}

	var info struct {
		GameID        string `json:"gameId"`
		InProgress    bool   `json:"inProgress"`
		QuestionCount int    `json:"questionCount"`
		PlayerCount   int    `json:"playerCount"`
	}
	if err := json.NewDecoder(infoResp.Body).Decode(&info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.GameID != created.GameID || info.InProgress || info.QuestionCount != 1 || info.PlayerCount != 0 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestAdminCreateUnknownBank(t *testing.T) {
	server := newAdminServer(t)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/quiz/create?bank=missing", "application/json", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown bank, got %d", resp.StatusCode)
	}
}

func TestAdminGameInfoNotFound(t *testing.T) {
	server := newAdminServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/quiz/missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func newAdminServer(t *testing.T) *httptest.Server {
	t.Helper()
	registry := memory.NewSessionRegistry(app.SessionConfig{})
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(map[string]domain.QuestionBank{
		"bank-1": {
			ID: "bank-1",
			Questions: []domain.Question{
				{Text: "What is 2 + 2?", Options: []string{"3", "4"}, Correct: "4"},
			},
		},
	}), time.Minute)
	service := app.NewGameService(registry, banks, "bank-1")

	mux := http.NewServeMux()
	NewAdminHandler(service).Register(mux)
	return httptest.NewServer(mux)
}
