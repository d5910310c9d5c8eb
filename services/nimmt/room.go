package nimmt

import (
	game_constants "Bullpen/constants/game"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"
)

const maxPileSize = game_constants.MAX_PILE_SIZE

type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseInProgress Phase = "in_progress"
	PhaseFinished   Phase = "finished"
)

// Status of a player inside the current round
type Status string

const (
	StatusPending Status = "pending"
	StatusPlayed  Status = "played"
	StatusPenalty Status = "penalty"
)

type Player struct {
	ID           string
	Name         string
	Role         string
	Hand         []Card
	Points       int
	Status       Status
	Connected    bool
	LastSelected Card
	// Cards taken from the piles, their bull points are already in Points
	Collected []Card
}

// Options configure a single game. Zero values fall back to the defaults
type Options struct {
	HandSize   int
	MaxRounds  int
	MaxPlayers int
	Rand       *rand.Rand
	Now        func() time.Time
}

func (o Options) withDefaults() Options {
	if o.HandSize <= 0 {
		o.HandSize = game_constants.DEFAULT_HAND_SIZE
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = game_constants.DEFAULT_MAX_ROUNDS
	}
	if o.MaxPlayers <= 0 || o.MaxPlayers > game_constants.MAX_PLAYERS_PER_ROOM {
		o.MaxPlayers = game_constants.MAX_PLAYERS_PER_ROOM
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(o.Now().UnixNano()))
	}
	return o
}

// Room hosts exactly one game. It is not safe for concurrent use, the
// registry serializes every call on a given room
type Room struct {
	ID string

	opts       Options
	players    []*Player
	phase      Phase
	round      int
	piles      []*Pile
	selections map[string]Card
	deck       *Deck
	resolver   *Resolver
	result     *Result
	fault      error

	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRoom creates a room in the lobby phase, the creator becomes its admin
func NewRoom(id, adminID, adminName string, opts Options) (*Room, error) {
	opts = opts.withDefaults()
	name := strings.TrimSpace(adminName)
	if name == "" {
		return nil, ErrInvalidName
	}

	r := &Room{
		ID:         id,
		opts:       opts,
		phase:      PhaseLobby,
		selections: make(map[string]Card),
		CreatedAt:  opts.Now(),
	}
	r.players = append(r.players, &Player{
		ID:     adminID,
		Name:   name,
		Role:   game_constants.ROLE_ADMIN,
		Status: StatusPending,
	})
	return r, nil
}

func (r *Room) Phase() Phase {
	return r.phase
}

func (r *Room) Round() int {
	return r.round
}

func (r *Room) MaxRounds() int {
	return r.opts.MaxRounds
}

// Err returns the fault that stopped the room, if any
func (r *Room) Err() error {
	return r.fault
}

// Result is nil until the game is finished
func (r *Room) Result() *Result {
	return r.result
}

// Players returns the public roster in join order
func (r *Room) Players() []PlayerInfo {
	out := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, PlayerInfo{Name: p.Name, Role: p.Role})
	}
	return out
}

func (r *Room) HasPlayer(playerID string) bool {
	_, err := r.player(playerID)
	return err == nil
}

// Hand returns a copy of the player's current hand
func (r *Room) Hand(playerID string) ([]Card, error) {
	p, err := r.player(playerID)
	if err != nil {
		return nil, err
	}
	return copyCards(p.Hand), nil
}

func (r *Room) player(playerID string) (*Player, error) {
	for _, p := range r.players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// Join adds a player to the lobby
func (r *Room) Join(playerID, name string) ([]Event, error) {
	if r.fault != nil {
		return nil, ErrRoomFaulted
	}
	if r.phase != PhaseLobby {
		return nil, ErrGameStarted
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if len(r.players) >= r.opts.MaxPlayers {
		return nil, ErrRoomFull
	}
	for _, p := range r.players {
		if strings.EqualFold(p.Name, name) {
			return nil, ErrDuplicateName
		}
	}

	r.players = append(r.players, &Player{
		ID:     playerID,
		Name:   name,
		Role:   game_constants.ROLE_MEMBER,
		Status: StatusPending,
	})

	return []Event{PlayerJoined{
		PlayerID:   playerID,
		PlayerName: name,
		Players:    r.Players(),
	}}, nil
}

// Connected reports whether the player has at least one live connection
func (r *Room) Connected(playerID string) bool {
	p, err := r.player(playerID)
	return err == nil && p.Connected
}

// SetConnected records whether the player currently has a live socket
func (r *Room) SetConnected(playerID string, connected bool) error {
	p, err := r.player(playerID)
	if err != nil {
		return err
	}
	p.Connected = connected
	return nil
}

// Start shuffles and deals the deck. Only the admin may start a game
func (r *Room) Start(playerID string) ([]Event, error) {
	if r.fault != nil {
		return nil, ErrRoomFaulted
	}
	p, err := r.player(playerID)
	if err != nil {
		return nil, err
	}
	if p.Role != game_constants.ROLE_ADMIN {
		return nil, ErrNotAdmin
	}
	if r.phase != PhaseLobby {
		return nil, ErrGameStarted
	}
	if len(r.players) < game_constants.MIN_PLAYERS_TO_START {
		return nil, ErrNotEnoughPlayers
	}
	if len(r.players)*r.opts.HandSize+game_constants.PILE_COUNT > game_constants.DECK_SIZE {
		return nil, ErrDeckTooSmall
	}

	deck := NewDeck()
	deck.Shuffle(r.opts.Rand)

	for _, pl := range r.players {
		pl.Hand = deck.Draw(r.opts.HandSize)
		SortCards(pl.Hand)
		pl.Points = 0
		pl.Status = StatusPending
		pl.Collected = nil
		pl.LastSelected = 0
	}

	shared := deck.Draw(game_constants.PILE_COUNT)
	SortCards(shared)
	r.piles = make([]*Pile, 0, game_constants.PILE_COUNT)
	for _, c := range shared {
		r.piles = append(r.piles, NewPile(c))
	}

	r.deck = deck
	r.phase = PhaseInProgress
	r.round = 1
	r.StartedAt = r.opts.Now()

	if err := r.verify(); err != nil {
		return nil, err
	}

	log.Printf("[ROOM-START] Room %s started with %d players, %d cards left undealt",
		r.ID, len(r.players), deck.Len())

	return []Event{GameStarted{
		PlayerCards:  r.handsMap(),
		SharedCards:  copyCards(shared),
		SharedPiles:  r.pilesView(),
		PlayerPoints: r.pointsMap(),
		PlayerStatus: r.statusMap(),
		Round:        r.round,
	}}, nil
}

// SelectCard puts the card face down for the current round. The last player to
// select triggers the resolution of the round
func (r *Room) SelectCard(playerID string, card Card) ([]Event, error) {
	if r.fault != nil {
		return nil, ErrRoomFaulted
	}
	if !card.Valid() {
		return nil, ErrInvalidCard
	}
	p, err := r.player(playerID)
	if err != nil {
		return nil, err
	}
	if r.phase != PhaseInProgress {
		return nil, ErrGameNotInProgress
	}
	if r.resolver != nil {
		return nil, ErrResolutionInProgress
	}
	if _, ok := r.selections[playerID]; ok {
		return nil, ErrAlreadySelected
	}
	idx := indexOf(p.Hand, card)
	if idx < 0 {
		return nil, ErrCardNotHeld
	}

	p.Hand = append(p.Hand[:idx:idx], p.Hand[idx+1:]...)
	p.LastSelected = card
	p.Status = StatusPlayed
	r.selections[playerID] = card

	events := []Event{CardSelected{
		PlayerID:     playerID,
		PlayerCards:  r.handsMap(),
		LastSelected: r.lastSelectedMap(),
		PlayerStatus: r.statusMap(),
	}}

	if len(r.selections) == len(r.players) {
		resolved, err := r.resolveRound()
		if err != nil {
			return nil, r.markFaulted(err)
		}
		events = append(events, resolved...)
	}

	if err := r.verify(); err != nil {
		return nil, err
	}
	return events, nil
}

// TakePile settles the outstanding penalty of the player whose card was lower
// than every pile top
func (r *Room) TakePile(playerID string, pileIdx int, lowCard Card) ([]Event, error) {
	if r.fault != nil {
		return nil, ErrRoomFaulted
	}
	p, err := r.player(playerID)
	if err != nil {
		return nil, err
	}
	if r.phase != PhaseInProgress || r.resolver == nil {
		return nil, ErrNoPendingPenalty
	}

	taken, err := r.resolver.Resolve(r.piles, playerID, pileIdx, lowCard)
	if err != nil {
		return nil, err
	}
	r.award(p, taken)
	p.Status = StatusPlayed

	log.Printf("[PILE-TAKE] Room %s: player %s took pile %d with card %d (+%d points)",
		r.ID, p.Name, pileIdx, lowCard, taken.PenaltyPoints)

	remaining, err := r.resolver.Advance(r.piles)
	if err != nil {
		return nil, r.markFaulted(err)
	}
	r.applyPlacements(remaining)

	ev := PileTaken{
		PlayerID:           playerID,
		PileIndex:          pileIdx,
		PenaltyPoints:      taken.PenaltyPoints,
		TakenCards:         taken.TakenCards,
		RemainingPlacement: remaining,
	}

	var tail []Event
	if r.resolver.Done() {
		ev.AllCardsProcessed = true
		tail = r.finishRound()
	} else {
		ev.MorePenalties = true
	}

	ev.SharedPiles = r.pilesView()
	ev.PlayerPoints = r.pointsMap()
	ev.PlayerStatus = r.statusMap()
	ev.CurrentRound = r.round

	if err := r.verify(); err != nil {
		return nil, err
	}
	return append([]Event{ev}, tail...), nil
}

// WaitingOn lists the players the room needs an action from before it can move on
func (r *Room) WaitingOn() []string {
	if r.phase != PhaseInProgress {
		return nil
	}
	if r.resolver != nil {
		if sel, ok := r.resolver.Pending(); ok {
			return []string{sel.PlayerID}
		}
		return nil
	}
	waiting := []string{}
	for _, p := range r.players {
		if _, ok := r.selections[p.ID]; !ok {
			waiting = append(waiting, p.ID)
		}
	}
	return waiting
}

// AutoPlay acts on behalf of an absent player: it plays the lowest card in hand,
// or when a penalty is pending takes the pile with the fewest bull points
func (r *Room) AutoPlay(playerID string) ([]Event, error) {
	if r.fault != nil {
		return nil, ErrRoomFaulted
	}
	p, err := r.player(playerID)
	if err != nil {
		return nil, err
	}
	if r.phase != PhaseInProgress {
		return nil, ErrGameNotInProgress
	}

	if r.resolver != nil {
		sel, ok := r.resolver.Pending()
		if !ok || sel.PlayerID != playerID {
			return nil, ErrNoPendingPenalty
		}
		log.Printf("[AUTO-PLAY] Room %s: taking cheapest pile for %s", r.ID, p.Name)
		return r.TakePile(playerID, r.cheapestPile(), sel.Card)
	}

	if _, ok := r.selections[playerID]; ok {
		return nil, ErrAlreadySelected
	}
	if len(p.Hand) == 0 {
		return nil, ErrCardNotHeld
	}
	log.Printf("[AUTO-PLAY] Room %s: playing card %d for %s", r.ID, p.Hand[0], p.Name)
	return r.SelectCard(playerID, p.Hand[0])
}

func (r *Room) resolveRound() ([]Event, error) {
	r.resolver = NewResolver(r.selections)

	placements, err := r.resolver.Advance(r.piles)
	if err != nil {
		return nil, err
	}
	r.applyPlacements(placements)

	_, penaltyNeeded := r.resolver.Pending()

	events := []Event{RoundComplete{
		PlayerCards:      r.handsMap(),
		LastSelected:     r.lastSelectedMap(),
		SharedPiles:      r.pilesView(),
		PlayerPoints:     r.pointsMap(),
		PlayerStatus:     r.statusMap(),
		PlacementResults: placements,
		PenaltyNeeded:    penaltyNeeded,
	}}

	if r.resolver.Done() {
		events = append(events, r.finishRound()...)
	}
	return events, nil
}

// applyPlacements credits forced takes and flags the player who must choose a pile
func (r *Room) applyPlacements(placements []Placement) {
	for _, pl := range placements {
		p, err := r.player(pl.PlayerID)
		if err != nil {
			continue
		}
		switch pl.Action {
		case ActionForcedTake:
			r.award(p, pl)
		case ActionPenaltyRequired:
			p.Status = StatusPenalty
		}
	}
}

func (r *Room) award(p *Player, pl Placement) {
	p.Points += pl.PenaltyPoints
	p.Collected = append(p.Collected, pl.TakenCards...)
}

func (r *Room) finishRound() []Event {
	finished := r.round
	r.selections = make(map[string]Card)
	r.resolver = nil
	for _, p := range r.players {
		p.Status = StatusPending
	}

	events := []Event{RoundFinished{
		Round:   finished,
		Message: fmt.Sprintf("Round %d finished!", finished),
	}}

	if r.round >= r.opts.MaxRounds || r.allHandsEmpty() {
		return append(events, r.finish())
	}

	r.round++
	return append(events, RoundEnded{
		NextRound:    r.round,
		PlayerStatus: r.statusMap(),
	})
}

func (r *Room) finish() Event {
	r.phase = PhaseFinished
	r.FinishedAt = r.opts.Now()

	res := Result{
		WinnerPoints: -1,
		FinalScores:  make(map[string]Score, len(r.players)),
		Rounds:       r.round,
	}

	// First pass: lowest score
	for _, p := range r.players {
		if res.WinnerPoints < 0 || p.Points < res.WinnerPoints {
			res.WinnerPoints = p.Points
		}
	}

	// Second pass: everyone sharing it, in join order
	for _, p := range r.players {
		score := Score{PlayerID: p.ID, Name: p.Name, Points: p.Points, Collected: copyCards(p.Collected)}
		res.FinalScores[p.ID] = score
		if p.Points == res.WinnerPoints {
			res.Winners = append(res.Winners, score)
		}
	}

	res.WinnerID = res.Winners[0].PlayerID
	res.WinnerName = res.Winners[0].Name
	res.Tie = len(res.Winners) > 1
	r.result = &res

	if res.Tie {
		log.Printf("[GAME-END] Room %s ended in a %d-way tie with %d points each",
			r.ID, len(res.Winners), res.WinnerPoints)
	} else {
		log.Printf("[GAME-END] Room %s winner is %s with %d points", r.ID, res.WinnerName, res.WinnerPoints)
	}

	return GameFinished{Result: res}
}

func (r *Room) allHandsEmpty() bool {
	for _, p := range r.players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

func (r *Room) cheapestPile() int {
	best := 0
	for i, pile := range r.piles {
		if pile.Points() < r.piles[best].Points() {
			best = i
		}
	}
	return best
}

// verify checks deck conservation after a mutation and faults the room when it fails
func (r *Room) verify() error {
	if err := r.CheckConservation(); err != nil {
		return r.markFaulted(err)
	}
	return nil
}

func (r *Room) markFaulted(err error) error {
	r.fault = err
	log.Printf("[ROOM-FAULT] Room %s entered an unrecoverable state: %v", r.ID, err)
	return fmt.Errorf("%w: %v", ErrRoomFaulted, err)
}

// CheckConservation verifies that hands, cards in flight, piles, collected cards
// and the undealt remainder together hold each of the 104 cards exactly once
func (r *Room) CheckConservation() error {
	if r.phase == PhaseLobby {
		return nil
	}

	seen := make([]bool, game_constants.DECK_SIZE+1)
	count := 0
	mark := func(cards []Card, where string) error {
		for _, c := range cards {
			if !c.Valid() {
				return fmt.Errorf("%w: invalid card %d in %s", ErrDeckMismatch, c, where)
			}
			if seen[c] {
				return fmt.Errorf("%w: card %d duplicated in %s", ErrDeckMismatch, c, where)
			}
			seen[c] = true
			count++
		}
		return nil
	}

	for _, p := range r.players {
		if err := mark(p.Hand, "hand of "+p.Name); err != nil {
			return err
		}
		if err := mark(p.Collected, "penalty cards of "+p.Name); err != nil {
			return err
		}
	}

	var inFlight []Card
	if r.resolver != nil {
		inFlight = r.resolver.InFlight()
	} else {
		for _, c := range r.selections {
			inFlight = append(inFlight, c)
		}
	}
	if err := mark(inFlight, "selections"); err != nil {
		return err
	}

	for i, pile := range r.piles {
		if pile.Len() == 0 {
			return fmt.Errorf("%w: pile %d", ErrEmptyPile, i)
		}
		if err := mark(pile.cards, fmt.Sprintf("pile %d", i)); err != nil {
			return err
		}
	}

	if r.deck != nil {
		if err := mark(r.deck.Cards, "undealt deck"); err != nil {
			return err
		}
	}

	if count != game_constants.DECK_SIZE {
		return fmt.Errorf("%w: %d cards accounted for", ErrDeckMismatch, count)
	}
	return nil
}

func (r *Room) handsMap() map[string][]Card {
	out := make(map[string][]Card, len(r.players))
	for _, p := range r.players {
		out[p.ID] = copyCards(p.Hand)
	}
	return out
}

func (r *Room) lastSelectedMap() map[string]Card {
	out := make(map[string]Card, len(r.players))
	for _, p := range r.players {
		if p.LastSelected != 0 {
			out[p.ID] = p.LastSelected
		}
	}
	return out
}

func (r *Room) pointsMap() map[string]int {
	out := make(map[string]int, len(r.players))
	for _, p := range r.players {
		out[p.ID] = p.Points
	}
	return out
}

func (r *Room) statusMap() map[string]StatusInfo {
	out := make(map[string]StatusInfo, len(r.players))
	for _, p := range r.players {
		out[p.ID] = StatusInfo{Name: p.Name, Status: p.Status}
	}
	return out
}

func (r *Room) pilesView() [][]Card {
	out := make([][]Card, len(r.piles))
	for i, pile := range r.piles {
		out[i] = pile.Cards()
	}
	return out
}

func indexOf(cards []Card, card Card) int {
	for i, c := range cards {
		if c == card {
			return i
		}
	}
	return -1
}
