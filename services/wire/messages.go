package wire

import (
	"Bullpen/services/nimmt"
	"encoding/json"
	"fmt"
)

type PlayerJoinedMessage struct {
	Type       nimmt.EventType    `json:"type"`
	PlayerID   string             `json:"player_id"`
	PlayerName string             `json:"player_name"`
	Players    []nimmt.PlayerInfo `json:"players"`
}

type GameStartedMessage struct {
	Type         nimmt.EventType             `json:"type"`
	PlayerCards  map[string][]nimmt.Card     `json:"player_cards"`
	SharedCards  []nimmt.Card                `json:"shared_cards"`
	SharedPiles  [][]nimmt.Card              `json:"shared_piles"`
	PlayerPoints map[string]int              `json:"player_points"`
	PlayerStatus map[string]nimmt.StatusInfo `json:"player_status"`
	CurrentRound int                         `json:"current_round"`
}

type CardSelectedMessage struct {
	Type         nimmt.EventType             `json:"type"`
	PlayerID     string                      `json:"player_id"`
	PlayerCards  map[string][]nimmt.Card     `json:"player_cards"`
	LastSelected map[string]nimmt.Card       `json:"last_selected"`
	PlayerStatus map[string]nimmt.StatusInfo `json:"player_status"`
}

type RoundCompleteMessage struct {
	Type             nimmt.EventType             `json:"type"`
	PlayerCards      map[string][]nimmt.Card     `json:"player_cards"`
	LastSelected     map[string]nimmt.Card       `json:"last_selected"`
	SharedPiles      [][]nimmt.Card              `json:"shared_piles"`
	PlayerPoints     map[string]int              `json:"player_points"`
	PlayerStatus     map[string]nimmt.StatusInfo `json:"player_status"`
	PlacementResults []nimmt.Placement           `json:"placement_results"`
	PenaltyNeeded    bool                        `json:"penalty_needed"`
}

type PileTakenMessage struct {
	Type               nimmt.EventType             `json:"type"`
	PlayerID           string                      `json:"player_id"`
	PileIdx            int                         `json:"pile_idx"`
	PenaltyPoints      int                         `json:"penalty_points"`
	TakenCards         []nimmt.Card                `json:"taken_cards"`
	SharedPiles        [][]nimmt.Card              `json:"shared_piles"`
	PlayerPoints       map[string]int              `json:"player_points"`
	PlayerStatus       map[string]nimmt.StatusInfo `json:"player_status"`
	MorePenalties      bool                        `json:"more_penalties"`
	RemainingPlacement []nimmt.Placement           `json:"remaining_placement"`
	AllCardsProcessed  bool                        `json:"all_cards_processed"`
	CurrentRound       int                         `json:"current_round"`
}

type RoundFinishedMessage struct {
	Type    nimmt.EventType `json:"type"`
	Round   int             `json:"round"`
	Message string          `json:"message"`
}

type RoundEndedMessage struct {
	Type         nimmt.EventType             `json:"type"`
	NextRound    int                         `json:"next_round"`
	PlayerStatus map[string]nimmt.StatusInfo `json:"player_status"`
}

type GameFinishedMessage struct {
	Type         nimmt.EventType        `json:"type"`
	WinnerID     string                 `json:"winner_id"`
	WinnerName   string                 `json:"winner_name"`
	WinnerPoints int                    `json:"winner_points"`
	Winners      []nimmt.Score          `json:"winners"`
	Tie          bool                   `json:"tie"`
	FinalScores  map[string]nimmt.Score `json:"final_scores"`
	Rounds       int                    `json:"rounds"`
}

// ErrorMessage is only ever sent to the connection that caused it
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type PongMessage struct {
	Type string `json:"type"`
}

// Payload converts an event into the message sent to clients
func Payload(ev nimmt.Event) (interface{}, error) {
	switch e := ev.(type) {
	case nimmt.PlayerJoined:
		return PlayerJoinedMessage{
			Type:       e.Type(),
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Players:    e.Players,
		}, nil
	case nimmt.GameStarted:
		return GameStartedMessage{
			Type:         e.Type(),
			PlayerCards:  e.PlayerCards,
			SharedCards:  e.SharedCards,
			SharedPiles:  e.SharedPiles,
			PlayerPoints: e.PlayerPoints,
			PlayerStatus: e.PlayerStatus,
			CurrentRound: e.Round,
		}, nil
	case nimmt.CardSelected:
		return CardSelectedMessage{
			Type:         e.Type(),
			PlayerID:     e.PlayerID,
			PlayerCards:  e.PlayerCards,
			LastSelected: e.LastSelected,
			PlayerStatus: e.PlayerStatus,
		}, nil
	case nimmt.RoundComplete:
		return RoundCompleteMessage{
			Type:             e.Type(),
			PlayerCards:      e.PlayerCards,
			LastSelected:     e.LastSelected,
			SharedPiles:      e.SharedPiles,
			PlayerPoints:     e.PlayerPoints,
			PlayerStatus:     e.PlayerStatus,
			PlacementResults: e.PlacementResults,
			PenaltyNeeded:    e.PenaltyNeeded,
		}, nil
	case nimmt.PileTaken:
		return PileTakenMessage{
			Type:               e.Type(),
			PlayerID:           e.PlayerID,
			PileIdx:            e.PileIndex,
			PenaltyPoints:      e.PenaltyPoints,
			TakenCards:         e.TakenCards,
			SharedPiles:        e.SharedPiles,
			PlayerPoints:       e.PlayerPoints,
			PlayerStatus:       e.PlayerStatus,
			MorePenalties:      e.MorePenalties,
			RemainingPlacement: e.RemainingPlacement,
			AllCardsProcessed:  e.AllCardsProcessed,
			CurrentRound:       e.CurrentRound,
		}, nil
	case nimmt.RoundFinished:
		return RoundFinishedMessage{
			Type:    e.Type(),
			Round:   e.Round,
			Message: e.Message,
		}, nil
	case nimmt.RoundEnded:
		return RoundEndedMessage{
			Type:         e.Type(),
			NextRound:    e.NextRound,
			PlayerStatus: e.PlayerStatus,
		}, nil
	case nimmt.GameFinished:
		return GameFinishedMessage{
			Type:         e.Type(),
			WinnerID:     e.Result.WinnerID,
			WinnerName:   e.Result.WinnerName,
			WinnerPoints: e.Result.WinnerPoints,
			Winners:      e.Result.Winners,
			Tie:          e.Result.Tie,
			FinalScores:  e.Result.FinalScores,
			Rounds:       e.Result.Rounds,
		}, nil
	default:
		return nil, fmt.Errorf("unknown event type %T", ev)
	}
}

// Encode returns the JSON text of an event
func Encode(ev nimmt.Event) ([]byte, error) {
	payload, err := Payload(ev)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling %s: %v", ev.Type(), err)
	}
	return data, nil
}

func EncodeError(err error) []byte {
	data, _ := json.Marshal(ErrorMessage{Type: "error", Error: err.Error()})
	return data
}

func EncodePong() []byte {
	data, _ := json.Marshal(PongMessage{Type: "pong"})
	return data
}

// Client message types accepted on a socket
const (
	ClientSelect   = "select"
	ClientTakePile = "take_pile"
	ClientPing     = "ping"
)

// ClientMessage is anything a client sends over a socket
type ClientMessage struct {
	Type    string     `json:"type"`
	Card    nimmt.Card `json:"card,omitempty"`
	PileIdx *int       `json:"pile_idx,omitempty"`
	LowCard nimmt.Card `json:"low_card,omitempty"`
}

// DecodeClient parses and validates a client message
func DecodeClient(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("invalid message: %v", err)
	}
	switch msg.Type {
	case ClientSelect:
		if !msg.Card.Valid() {
			return ClientMessage{}, nimmt.ErrInvalidCard
		}
	case ClientTakePile:
		if msg.PileIdx == nil {
			return ClientMessage{}, fmt.Errorf("invalid message: pile_idx is required")
		}
		if !msg.LowCard.Valid() {
			return ClientMessage{}, nimmt.ErrInvalidCard
		}
	case ClientPing:
	default:
		return ClientMessage{}, fmt.Errorf("unknown message type %q", msg.Type)
	}
	return msg, nil
}
