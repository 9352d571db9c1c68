package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 200 // input arrives every tick at high rates
	maxNameLen        = 16
	maxRoomIDLen      = 30
)

// Client represents a WebSocket connection. The connection id doubles as
// the player id inside whatever room the client joins.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	connID     string
	roomID     string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
	// Auth state
	authPlayerID int64  // 0 = unauthenticated/guest
	authUsername string // "" = unauthenticated
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		connID:     GenerateID(8),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgJoinRoom:
		c.handleJoinRoom(env.D)
	case MsgJoinTeam:
		c.handleJoinTeam(env.D)
	case MsgLeaveRoom:
		c.handleLeaveRoom()
	case MsgPlayerInput:
		c.handleInput(env.D)
	case MsgStartGame:
		c.handleStartGame()
	case MsgReturnToLobby:
		c.handleReturnToLobby()
	case MsgLobbyList:
		c.handleLobbyList()
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgProfile:
		c.handleProfile()
	case MsgLeaderboard:
		c.handleLeaderboard()
	}
}

// currentRoom resolves the client's room through the connection->room index.
// A late message after leave/disconnect resolves to nil and is ignored.
func (c *Client) currentRoom() *Room {
	if c.roomID == "" {
		return nil
	}
	room := c.hub.rooms.Get(c.roomID)
	if room == nil {
		log.Printf("stale room reference %q from %s", c.roomID, c.connID)
		c.roomID = ""
	}
	return room
}

func (c *Client) handleJoinRoom(data json.RawMessage) {
	var msg JoinRoomMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.RoomID == "" {
		c.sendError("room name required")
		return
	}
	if len(msg.RoomID) > maxRoomIDLen {
		msg.RoomID = msg.RoomID[:maxRoomIDLen]
	}

	name := msg.PlayerData.Name
	if name == "" {
		name = c.authUsername
	}
	if name == "" {
		name = "Guest"
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	// A connection belongs to at most one room
	c.hub.leaveCurrentRoom(c)

	room := c.hub.rooms.GetOrCreate(msg.RoomID, c.connID)
	if room == nil {
		c.sendError("too many active rooms")
		return
	}
	player := room.AddPlayer(c.connID, name, c.authPlayerID != 0)
	if player == nil {
		c.hub.rooms.RemoveIfEmpty(msg.RoomID)
		c.sendError(errRoomFull.Error())
		return
	}
	c.roomID = msg.RoomID
	room.SetClient(c.connID, c)

	if msg.PlayerData.Team != "" {
		room.SetTeam(c.connID, msg.PlayerData.Team)
	}

	c.SendJSON(Envelope{T: MsgRoomJoined, Data: room.RoomState()})
	room.BroadcastRoomState()
	c.hub.BroadcastLobbyList()
}

func (c *Client) handleJoinTeam(data json.RawMessage) {
	var msg JoinTeamMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	room := c.currentRoom()
	if room == nil {
		return
	}
	room.SetTeam(c.connID, msg.Team)
	room.BroadcastRoomState()
	c.hub.BroadcastLobbyList()
}

func (c *Client) handleLeaveRoom() {
	c.hub.leaveCurrentRoom(c)
}

// handleInput replaces the key state wholesale. A garbled payload counts
// as "no input": all keys released.
func (c *Client) handleInput(data json.RawMessage) {
	room := c.currentRoom()
	if room == nil {
		return
	}
	var msg PlayerInputMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		msg.Keys = KeyState{}
	}
	room.SetInput(c.connID, msg.Keys)
}

func (c *Client) handleStartGame() {
	room := c.currentRoom()
	if room == nil {
		return
	}
	if err := room.StartGame(c.connID); err != nil {
		c.sendError(err.Error())
		return
	}
	c.hub.BroadcastLobbyList()
}

func (c *Client) handleReturnToLobby() {
	room := c.currentRoom()
	if room == nil {
		return
	}
	if err := room.ReturnToLobby(c.connID); err != nil {
		c.sendError(err.Error())
		return
	}
	c.hub.BroadcastLobbyList()
}

func (c *Client) handleLobbyList() {
	c.SendJSON(Envelope{T: MsgLobbyListUpdate, Data: c.hub.rooms.List()})
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.hub.SetOnline(id, c)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.hub.SetOnline(id, c)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.sendError("invalid token")
		return
	}
	c.authPlayerID = id
	c.authUsername = username
	c.hub.SetOnline(id, c)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    msg.Token,
		Username: username,
		PlayerID: id,
	}})
}

func (c *Client) handleProfile() {
	if c.hub.db == nil || c.authPlayerID == 0 {
		c.sendError("not authenticated")
		return
	}
	stats, err := c.hub.db.GetUserStats(c.authPlayerID)
	if err != nil || stats == nil {
		c.sendError("profile not found")
		return
	}
	c.SendJSON(Envelope{T: MsgProfileData, Data: ProfileDataMsg{
		Username: stats.Username,
		Wins:     stats.Wins,
		Losses:   stats.Losses,
		Goals:    stats.Goals,
		Games:    stats.Games,
	}})
}

func (c *Client) handleLeaderboard() {
	if c.hub.db == nil {
		c.sendError("leaderboard unavailable")
		return
	}
	entries, err := c.hub.db.GetLeaderboard(10)
	if err != nil {
		c.sendError("leaderboard unavailable")
		return
	}
	c.SendJSON(Envelope{T: MsgLeaderboardData, Data: entries})
}
