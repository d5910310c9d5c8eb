package nimmt

import "errors"

// Validation errors. They are returned before any state is touched
var (
	ErrRoomFull             = errors.New("room is full")
	ErrDuplicateName        = errors.New("a player with that name is already in the room")
	ErrInvalidName          = errors.New("player name can't be empty")
	ErrGameStarted          = errors.New("game already started")
	ErrGameNotInProgress    = errors.New("game is not in progress")
	ErrNotAdmin             = errors.New("only the admin can start the game")
	ErrNotEnoughPlayers     = errors.New("not enough players to start the game")
	ErrCardNotHeld          = errors.New("card is not in the player's hand")
	ErrAlreadySelected      = errors.New("player already selected a card this round")
	ErrNoPendingPenalty     = errors.New("player has no pending penalty for that card")
	ErrResolutionInProgress = errors.New("round is being resolved, waiting for a pile to be taken")
	ErrInvalidPile          = errors.New("pile index out of range")
	ErrInvalidCard          = errors.New("card number out of range")
	ErrDeckTooSmall         = errors.New("not enough cards to deal a hand to every player")
)

// Structural errors
var (
	ErrPlayerNotFound = errors.New("player not found in room")
)

// Internal faults. A room that hits one of these rejects every further mutation
var (
	ErrEmptyPile    = errors.New("pile has no cards")
	ErrDeckMismatch = errors.New("deck conservation violated")
	ErrRoomFaulted  = errors.New("room is in an unrecoverable state")
)
