package protocol

import (
	"encoding/json"
	"fmt"
)

// Event names used on the wire. They match the server's socket event names.
const (
	EventUpdateGame    = "update game"
	EventFullGameError = "full game error"

	EventJoin         = "join"
	EventHeartbeat    = "heartbeat"
	EventGameSettings = "game settings"
	EventChooseTarget = "choose target"
	EventFlipCard     = "flip card"
	EventRestartGame  = "restart game"
)

// Envelope is the frame for every message in both directions.
// Data is left raw so the receiver can decide how to decode it.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode wraps payload in an Envelope for event and marshals it.
func Encode(event string, payload any) ([]byte, error) {
	env := Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %q payload: %w", event, err)
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// Decode parses a single frame.
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, err
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("frame has no event name")
	}
	return env, nil
}

// --- Server-to-Client payloads ---

// CardMsg is one card of a grid. Opponent cards that are not flipped carry no face.
type CardMsg struct {
	Flipped bool   `json:"flipped"`
	Face    string `json:"face,omitempty"`
}

// MyBoardMsg is the local player's half of an update.
// Target is null or "" until the player chooses one.
type MyBoardMsg struct {
	Cards  [][]CardMsg `json:"cards"`
	Target *string     `json:"target"`
}

// TheirBoardMsg is the opponent's half of an update. Their target face is never sent.
type TheirBoardMsg struct {
	Cards     [][]CardMsg `json:"cards"`
	HasTarget bool        `json:"has_target"`
}

// GamePayload is the data of an "update game" event. An empty object means no game.
type GamePayload struct {
	MyBoard    *MyBoardMsg    `json:"myBoard,omitempty"`
	TheirBoard *TheirBoardMsg `json:"theirBoard,omitempty"`
}

// FullGameErrorMsg tells the client the room is full and where to go instead.
type FullGameErrorMsg struct {
	DestinationURL string `json:"destination_url"`
}

// --- Client-to-Server payloads ---

// JoinMsg is sent once after connecting.
type JoinMsg struct {
	GameID   string `json:"game_id"`
	Nickname string `json:"nickname,omitempty"`
}

// SettingsMsg configures a new board for the room.
type SettingsMsg struct {
	RoomID   string `json:"room_id"`
	Facepack string `json:"facepack"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
}

// CellMsg addresses one card; used by both "choose target" and "flip card".
type CellMsg struct {
	RoomID string `json:"room_id"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

// RoomMsg carries only the room; used by "restart game".
type RoomMsg struct {
	RoomID string `json:"room_id"`
}

// HeartbeatMsg keeps the connection marked as active on the server.
type HeartbeatMsg struct{}
