package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playputt/backend/internal/game"
)

// Golf-specific message data types
type DragPointData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type NewGameData struct {
	Seed int64 `json:"seed"`
}

// GameHub is the single hub for all sessions.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go runGolfHub(GameHub)
}

// HandleWebSocket handles WebSocket connections for golf sessions.
func HandleWebSocket(c *gin.Context) {
	sessionToken := c.Query("token")
	if sessionToken == "" {
		sessionToken = c.Param("token")
	}
	playerToken := c.Query("pt")

	if sessionToken == "" || playerToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and pt required"})
		return
	}

	s, err := game.Manager.GetSessionByToken(sessionToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	if s.PlayerToken != playerToken {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid player token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:         conn,
		sessionID:    s.ID,
		sessionToken: sessionToken,
		send:         make(chan []byte, 256),
	}

	GameHub.register <- client

	go client.writePump()
	go client.readPump()
}

// runGolfHub runs the hub for golf sessions.
func runGolfHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()

			if oldClient, exists := h.clients[client.sessionID]; exists {
				log.Printf("[WS] Session %s reconnecting - closing old connection", client.sessionID)
				if err := oldClient.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"), time.Now().Add(5*time.Second)); err != nil {
					log.Printf("Error writing close control to old client %s: %v", oldClient.sessionID, err)
				}
				oldClient.conn.Close()
				select {
				case <-oldClient.send:
				default:
					close(oldClient.send)
				}
				delete(h.clients, client.sessionID)
			}

			h.clients[client.sessionID] = client
			h.mu.Unlock()

			log.Printf("[WS] Client connected to session %s", client.sessionID)

			s, err := game.Manager.GetSessionByToken(client.sessionToken)
			if err != nil {
				log.Printf("[WS] Session not found for token on register: %v", err)
				continue
			}

			s.SetConnected(true)
			resetIdleTimers(client.sessionToken)

			state := s.GetClientState()
			state["type"] = "game_state"
			h.SendToSession(client.sessionID, state)

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.sessionID]; ok && cur == client {
				delete(h.clients, client.sessionID)
				log.Printf("[WS] Client disconnected from session %s", client.sessionID)

				if s, err := game.Manager.GetSessionByToken(client.sessionToken); err == nil {
					s.SetConnected(false)
					s.SaveToRedis()
				}

				select {
				case <-client.send:
				default:
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// readPump reads messages for golf sessions.
func (c *Client) readPump() {
	defer func() {
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error (unexpected) for session %s: %v", c.sessionID, err)
			} else {
				log.Printf("WebSocket read error for session %s: %v", c.sessionID, err)
			}
			break
		}

		resetIdleTimers(c.sessionToken)

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage processes incoming golf messages.
func (c *Client) handleMessage(msg WSMessage) {
	s, err := game.Manager.GetSessionByToken(c.sessionToken)
	if err != nil {
		c.sendError("Session not found")
		return
	}

	switch msg.Type {
	case "begin_drag":
		var data DragPointData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid drag data")
			return
		}
		c.handleBeginDrag(s, data)

	case "update_drag":
		var data DragPointData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid drag data")
			return
		}
		c.handleUpdateDrag(s, data)

	case "end_drag":
		var data DragPointData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid drag data")
			return
		}
		c.handleEndDrag(s, data)

	case "get_state":
		state := s.GetClientState()
		state["type"] = "game_state"
		d, _ := json.Marshal(state)
		c.send <- d

	case "new_game":
		var data NewGameData
		if len(msg.Data) > 0 {
			json.Unmarshal(msg.Data, &data)
		}
		c.handleNewGame(s, data)

	default:
		c.sendError("Unknown message type")
	}
}

// handleBeginDrag processes a begin_drag message.
func (c *Client) handleBeginDrag(s *game.GolfSession, data DragPointData) {
	accepted := s.BeginDrag(game.NewVec2(data.X, data.Y))
	GameHub.SendToSession(c.sessionID, map[string]interface{}{
		"type":     "drag_started",
		"accepted": accepted,
	})
}

// handleUpdateDrag processes an update_drag message and reports the aim line.
func (c *Client) handleUpdateDrag(s *game.GolfSession, data DragPointData) {
	aim, aiming := s.UpdateDrag(game.NewVec2(data.X, data.Y))
	if !aiming {
		return
	}
	GameHub.SendToSession(c.sessionID, map[string]interface{}{
		"type": "aim",
		"aim":  aim,
	})
}

// handleEndDrag processes an end_drag message. A successful launch starts the
// shot driver that ticks the simulation until the ball settles or holes.
func (c *Client) handleEndDrag(s *game.GolfSession, data DragPointData) {
	impulse, launched := s.EndDrag(game.NewVec2(data.X, data.Y))
	if !launched {
		GameHub.SendToSession(c.sessionID, map[string]interface{}{
			"type":     "shot_rejected",
			"accepted": false,
		})
		return
	}

	GameHub.SendToSession(c.sessionID, map[string]interface{}{
		"type":    "shot_launched",
		"impulse": impulse,
	})

	go c.driveShot(s)
	s.SaveToRedis()
}

// handleNewGame restarts the session from level 1 with a fresh seed.
func (c *Client) handleNewGame(s *game.GolfSession, data NewGameData) {
	seed := data.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if !s.NewGame(seed) {
		c.sendError("Cannot restart while the ball is moving")
		return
	}

	state := s.GetClientState()
	state["type"] = "game_state"
	GameHub.SendToSession(c.sessionID, state)
	s.SaveToRedis()
}

// driveShot ticks the simulation for one shot and streams frames to the
// client. Exactly one driver runs per launch: EndDrag only succeeds while the
// ball is at rest, so a second launch cannot start until this one finishes.
func (c *Client) driveShot(s *game.GolfSession) {
	tickRate := 60
	if wsConfig != nil && wsConfig.TickRate > 0 {
		tickRate = wsConfig.TickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	// A shot that somehow never settles is cut off rather than ticking forever.
	deadline := time.Now().Add(2 * time.Minute)

	for range ticker.C {
		frame := s.Tick()

		GameHub.SendToSession(c.sessionID, map[string]interface{}{
			"type":       "tick",
			"ball":       frame.Ball,
			"shot_state": frame.ShotState,
			"events":     frame.Events,
		})

		if frame.Outcome != game.OutcomeContinue {
			state := s.GetClientState()
			if frame.Holed {
				state["type"] = "level_complete"
			} else {
				state["type"] = "ball_settled"
			}
			GameHub.SendToSession(c.sessionID, state)
			s.SaveToRedis()
			return
		}

		if time.Now().After(deadline) {
			log.Printf("[WS] Shot driver for session %s hit the time cap", c.sessionID)
			s.SaveToRedis()
			return
		}
	}
}
