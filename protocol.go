package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoinRoom      = "joinRoom"
	MsgJoinTeam      = "joinTeam"
	MsgLeaveRoom     = "leaveRoom"
	MsgPlayerInput   = "playerInput"
	MsgStartGame     = "startGame"
	MsgReturnToLobby = "returnToLobby"
	MsgLobbyList     = "requestLobbyList"
	MsgRegister      = "register"
	MsgLogin         = "login"
	MsgAuth          = "auth"
	MsgProfile       = "profile"
	MsgLeaderboard   = "leaderboard"
)

// Server -> Client message types
const (
	MsgRoomJoined      = "roomJoined"
	MsgRoomUpdate      = "roomUpdate"
	MsgGameStarted     = "gameStarted"
	MsgGameState       = "gameState" // binary msgpack, sent per tick
	MsgGameEnded       = "gameEnded"
	MsgLobbyListUpdate = "lobbyListUpdate"
	MsgError           = "error"
	MsgAuthOK          = "authOK"
	MsgProfileData     = "profileData"
	MsgLeaderboardData = "leaderboardData"
)

// Room state tags
const (
	StateLobby    = "lobby"
	StatePlaying  = "playing"
	StateFinished = "finished"
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// PlayerData carries the identity supplied at join time
type PlayerData struct {
	Name string `json:"name"`
	Team string `json:"team,omitempty"`
}

// JoinRoomMsg requests to join (or create) a room
type JoinRoomMsg struct {
	RoomID     string     `json:"roomId"`
	PlayerData PlayerData `json:"playerData"`
}

// JoinTeamMsg assigns the sender to a team
type JoinTeamMsg struct {
	RoomID string `json:"roomId"`
	Team   string `json:"team"`
}

// LeaveRoomMsg leaves the sender's current room
type LeaveRoomMsg struct {
	RoomID string `json:"roomId"`
}

// PlayerInputMsg replaces the sender's key state wholesale
type PlayerInputMsg struct {
	Keys KeyState `json:"keys"`
}

// ReturnToLobbyMsg asks the owner to reset the room to the lobby
type ReturnToLobbyMsg struct {
	RoomID string `json:"roomId"`
}

// Scores holds the per-team goal totals
type Scores struct {
	Red  int `json:"red" msgpack:"red"`
	Blue int `json:"blue" msgpack:"blue"`
}

// PlayerState is broadcast per player each tick
type PlayerState struct {
	ID    string   `json:"id" msgpack:"id"`
	Name  string   `json:"name" msgpack:"name"`
	Team  string   `json:"team" msgpack:"team"`
	X     float64  `json:"x" msgpack:"x"`
	Y     float64  `json:"y" msgpack:"y"`
	Boost float64  `json:"boost" msgpack:"boost"`
	Keys  KeyState `json:"keys" msgpack:"keys"`
}

// BallState is broadcast each tick
type BallState struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	VX     float64 `json:"vx" msgpack:"vx"`
	VY     float64 `json:"vy" msgpack:"vy"`
	Radius float64 `json:"radius" msgpack:"radius"`
}

// BoostPadState is broadcast per pad each tick
type BoostPadState struct {
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	Active   bool    `json:"active" msgpack:"active"`
	Cooldown int     `json:"cooldown" msgpack:"cooldown"`
}

// GameSnapshot is the full per-tick state broadcast (no delta compression)
type GameSnapshot struct {
	Players       []PlayerState   `json:"players" msgpack:"players"`
	Ball          BallState       `json:"ball" msgpack:"ball"`
	Scores        Scores          `json:"scores" msgpack:"scores"`
	BoostPads     []BoostPadState `json:"boostPads" msgpack:"boostPads"`
	GameState     string          `json:"gameState" msgpack:"gameState"`
	KickoffActive bool            `json:"kickoffActive" msgpack:"kickoffActive"`
	KickoffTeam   string          `json:"kickoffTeam" msgpack:"kickoffTeam"`
	MapDimensions FieldDimensions `json:"mapDimensions" msgpack:"mapDimensions"`
	GoalHeight    float64         `json:"goalHeight" msgpack:"goalHeight"`
	Tick          uint64          `json:"tick" msgpack:"tick"`
}

// RoomState is the out-of-band room broadcast on membership changes
type RoomState struct {
	ID      string        `json:"id"`
	OwnerID string        `json:"ownerId"`
	Players []PlayerState `json:"players"`
	State   string        `json:"gameState"`
	Scores  Scores        `json:"scores"`
}

// GameStartedMsg notifies room members that the match began
type GameStartedMsg struct {
	OwnerID string `json:"ownerId"`
}

// PlayerResult is one row of the end-of-game summary
type PlayerResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Team  string `json:"team"`
	Goals int    `json:"goals"`
}

// GameEndedMsg is the one-shot result broadcast at match end
type GameEndedMsg struct {
	WinningTeam string         `json:"winningTeam"`
	FinalScores Scores         `json:"finalScores"`
	PlayerStats []PlayerResult `json:"playerStats"`
}

// LobbyInfo is one room entry in the global lobby list
type LobbyInfo struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"playerCount"`
	GameState   string `json:"gameState"`
	OwnerID     string `json:"ownerId"`
}

// ErrorMsg sends an error to a single client
type ErrorMsg struct {
	Msg string `json:"message"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg authenticates with credentials
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg re-authenticates with a stored token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"playerId"`
}

// ProfileDataMsg returns the stored stats for the logged-in user
type ProfileDataMsg struct {
	Username string `json:"username"`
	Wins     int    `json:"totalWins"`
	Losses   int    `json:"totalLosses"`
	Goals    int    `json:"totalGoals"`
	Games    int    `json:"totalGames"`
}
