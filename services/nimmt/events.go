package nimmt

// EventType is the discriminator sent to clients in the "type" field
type EventType string

const (
	EventPlayerJoined  EventType = "player_joined"
	EventGameStarted   EventType = "game_started"
	EventCardSelected  EventType = "card_selected"
	EventRoundComplete EventType = "round_complete"
	EventPileTaken     EventType = "pile_taken"
	EventRoundFinished EventType = "round_finished"
	EventRoundEnded    EventType = "round_ended"
	EventGameFinished  EventType = "game_finished"
)

// Event is the closed set of state transitions a room broadcasts.
// Only the types in this file implement it
type Event interface {
	Type() EventType
	isEvent()
}

// StatusInfo is the per-player entry of the "player_status" map
type StatusInfo struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// PlayerInfo is the public view of a player in the lobby
type PlayerInfo struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type PlayerJoined struct {
	PlayerID   string
	PlayerName string
	Players    []PlayerInfo
}

type GameStarted struct {
	PlayerCards  map[string][]Card
	SharedCards  []Card
	SharedPiles  [][]Card
	PlayerPoints map[string]int
	PlayerStatus map[string]StatusInfo
	Round        int
}

type CardSelected struct {
	PlayerID     string
	PlayerCards  map[string][]Card
	LastSelected map[string]Card
	PlayerStatus map[string]StatusInfo
}

// RoundComplete is sent once every player selected a card and the resolver ran
// as far as it could
type RoundComplete struct {
	PlayerCards      map[string][]Card
	LastSelected     map[string]Card
	SharedPiles      [][]Card
	PlayerPoints     map[string]int
	PlayerStatus     map[string]StatusInfo
	PlacementResults []Placement
	PenaltyNeeded    bool
}

// PileTaken follows a penalty choice. RemainingPlacement holds the placements
// that the choice unblocked
type PileTaken struct {
	PlayerID           string
	PileIndex          int
	PenaltyPoints      int
	TakenCards         []Card
	SharedPiles        [][]Card
	PlayerPoints       map[string]int
	PlayerStatus       map[string]StatusInfo
	MorePenalties      bool
	RemainingPlacement []Placement
	AllCardsProcessed  bool
	CurrentRound       int
}

type RoundFinished struct {
	Round   int
	Message string
}

type RoundEnded struct {
	NextRound    int
	PlayerStatus map[string]StatusInfo
}

type GameFinished struct {
	Result Result
}

// Score is the final standing of one player
type Score struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Points    int    `json:"points"`
	Collected []Card `json:"collected"`
}

// Result is computed when the room enters the finished phase. Every player
// sharing the lowest score is a winner, Winner* fields name the earliest joiner
type Result struct {
	WinnerID     string           `json:"winner_id"`
	WinnerName   string           `json:"winner_name"`
	WinnerPoints int              `json:"winner_points"`
	Winners      []Score          `json:"winners"`
	Tie          bool             `json:"tie"`
	FinalScores  map[string]Score `json:"final_scores"`
	Rounds       int              `json:"rounds"`
}

func (PlayerJoined) Type() EventType  { return EventPlayerJoined }
func (GameStarted) Type() EventType   { return EventGameStarted }
func (CardSelected) Type() EventType  { return EventCardSelected }
func (RoundComplete) Type() EventType { return EventRoundComplete }
func (PileTaken) Type() EventType     { return EventPileTaken }
func (RoundFinished) Type() EventType { return EventRoundFinished }
func (RoundEnded) Type() EventType    { return EventRoundEnded }
func (GameFinished) Type() EventType  { return EventGameFinished }

func (PlayerJoined) isEvent()  {}
func (GameStarted) isEvent()   {}
func (CardSelected) isEvent()  {}
func (RoundComplete) isEvent() {}
func (PileTaken) isEvent()     {}
func (RoundFinished) isEvent() {}
func (RoundEnded) isEvent()    {}
func (GameFinished) isEvent()  {}

// VisibleTo returns the event as the given player may see it: the hands of
// the other players are removed
func VisibleTo(ev Event, playerID string) Event {
	switch e := ev.(type) {
	case GameStarted:
		e.PlayerCards = ownHand(e.PlayerCards, playerID)
		return e
	case CardSelected:
		e.PlayerCards = ownHand(e.PlayerCards, playerID)
		return e
	case RoundComplete:
		e.PlayerCards = ownHand(e.PlayerCards, playerID)
		return e
	default:
		return ev
	}
}

func ownHand(hands map[string][]Card, playerID string) map[string][]Card {
	out := make(map[string][]Card, 1)
	if hand, ok := hands[playerID]; ok {
		out[playerID] = hand
	}
	return out
}
