package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

// AdminHandler is the thin REST surface for creating and inspecting games
// without a socket.
type AdminHandler struct {
	service *app.GameService
}

func NewAdminHandler(service *app.GameService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/quiz/create", h.handleCreate)
	mux.HandleFunc("/api/quiz/", h.handleGameInfo)
}

// handleCreate makes a new session from the default bank or the ?bank=
// override. Empty or missing banks are a client error, not a server one.
func (h *AdminHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	bankID := r.URL.Query().Get("bank")
	session, err := h.service.CreateGame(r.Context(), r.URL.Query().Get("name"), bankID)
	if err != nil {
		if errors.Is(err, domain.ErrBankNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "No questions found in the specified bank",
			})
			return
		}
		log.Printf("create game failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"gameId":        session.ID(),
		"questionCount": session.QuestionCount(),
	})
}

func (h *AdminHandler) handleGameInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	gameID := strings.TrimPrefix(r.URL.Path, "/api/quiz/")
	if gameID == "" || strings.Contains(gameID, "/") {
		http.NotFound(w, r)
		return
	}

	session, ok := h.service.Game(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	summary := session.Summary()
	writeJSON(w, http.StatusOK, map[string]any{
		"gameId":               summary.ID,
		"gameName":             summary.Name,
		"inProgress":           summary.InProgress,
		"questionCount":        session.QuestionCount(),
		"currentQuestionIndex": session.CurrentQuestionIndex(),
		"playerCount":          summary.PlayerCount,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
