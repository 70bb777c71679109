package hub

import (
	"encoding/json"

	"dragonspoker/holdem"
)

// Envelope is the wire frame in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client to server.
const (
	MsgJoinTable            = "joinTable"
	MsgReserveSeat          = "reserveSeat"
	MsgLeaveTable           = "leaveTable"
	MsgLeaveAfterHand       = "leaveAfterHand"
	MsgCancelLeaveAfterHand = "cancelLeaveAfterHand"
	MsgAction               = "action"
	MsgGaugeComplete        = "nextHandGaugeComplete"
	MsgRevealHand           = "revealHand"
	MsgSyncState            = "syncState"
	MsgHeartbeat            = "heartbeat"
	MsgStartHand            = "startHand"
	MsgResetTable           = "resetTable"
)

// Server to client.
const (
	MsgTableState    = "tableState"
	MsgHandState     = "handState"
	MsgActionApplied = "actionApplied"
	MsgError         = "error"
)

type JoinPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

type ReserveSeatPayload struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	SeatIndex int    `json:"seat_index"`
}

// PlayerPayload covers the messages that only carry an identity.
type PlayerPayload struct {
	PlayerID string `json:"player_id"`
}

type ActionPayload struct {
	PlayerID string `json:"player_id"`
	Action   string `json:"action"`
	Amount   int    `json:"amount"`
}

type ActionAppliedPayload struct {
	Seat   int           `json:"seat"`
	Action string        `json:"action"`
	Amount int           `json:"amount,omitempty"`
	Street holdem.Street `json:"street"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// encode wraps a payload in an envelope, marshalled once for fan-out.
func encode(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
