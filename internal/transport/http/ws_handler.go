package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// clientMessage is the flat action-tagged inbound shape. Fields not used by
// an action are simply left empty.
type clientMessage struct {
	Action   string `json:"action"`
	Name     string `json:"name"`
	GameID   string `json:"gameId"`
	GameName string `json:"gameName"`
	Answer   string `json:"answer"`
}

// ServeWS upgrades the request and runs the per-connection read loop. The
// engine owns all shared state; this loop only translates messages into
// engine calls and drops malformed ones without mutation.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	conn := newWSConn(ws)
	defer ws.Close()
	defer conn.close()

	var (
		session *app.Session
		player  app.PlayerInfo
	)
	defer func() {
		if session != nil {
			h.service.Leave(session.ID(), player.ID)
			log.Printf("player %s left game %s", player.DisplayName, session.ID())
		}
	}()

	for {
		var msg clientMessage
		if err := ws.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Action {
		case "join":
			if msg.Name == "" {
				continue
			}
			session, player = h.join(conn, session, player, app.DefaultGameID, msg.Name)

		case "joinSpecificGame":
			if msg.GameID == "" || msg.Name == "" {
				continue
			}
			session, player = h.join(conn, session, player, msg.GameID, msg.Name)

		case "createNewGame":
			if msg.Name == "" || msg.GameName == "" {
				continue
			}
			created, err := h.service.CreateGame(r.Context(), msg.GameName, "")
			if err != nil {
				h.sendError(conn, err)
				continue
			}
			_ = conn.Send(app.GameCreatedEvent{
				Action:   app.ActionGameCreated,
				GameID:   created.ID(),
				GameName: created.Name(),
			})
			session, player = h.join(conn, session, player, created.ID(), msg.Name)

		case "getAvailableGames":
			_ = conn.Send(app.AvailableGamesEvent{
				Action: app.ActionAvailableGames,
				Games:  h.service.Summaries(),
			})

		case "startGame":
			if session == nil {
				continue
			}
			// Starting an in-progress or finished game is a silent no-op.
			_ = session.Start()

		case "answer":
			if session == nil || msg.Answer == "" {
				continue
			}
			if _, err := session.SubmitAnswer(player.ID, msg.Answer); err != nil {
				// AlreadyAnswered and NoActiveQuestion are silent by contract.
				continue
			}

		default:
			// unknown action, dropped
		}
	}
}

// join switches the connection to a new session, detaching the previous
// player first so a rejoin cannot leak a ghost member.
func (h *WSHandler) join(conn *wsConn, prevSession *app.Session, prevPlayer app.PlayerInfo, gameID, name string) (*app.Session, app.PlayerInfo) {
	if prevSession != nil {
		h.service.Leave(prevSession.ID(), prevPlayer.ID)
	}

	session, player, err := h.service.Join(gameID, name, conn)
	if err != nil {
		h.sendError(conn, err)
		return nil, app.PlayerInfo{}
	}
	log.Printf("player %s joined game %s", player.DisplayName, gameID)
	return session, player
}

func (h *WSHandler) sendError(conn *wsConn, err error) {
	msg := err.Error()
	if errors.Is(err, domain.ErrSessionNotFound) {
		msg = "Game session not found"
	}
	_ = conn.Send(app.ErrorEvent{Action: app.ActionError, Message: msg})
}
