package game_constants

// Deck and table layout
const DECK_SIZE = 104
const PILE_COUNT = 4
const MAX_PILE_SIZE = 5 // NOTE: the 6th card placed on a pile makes the placer take the other 5

// Room limits
const MAX_PLAYERS_PER_ROOM = 10
const MIN_PLAYERS_TO_START = 2

// Game length. HAND_SIZE * MAX_PLAYERS_PER_ROOM + PILE_COUNT must never exceed DECK_SIZE
const DEFAULT_HAND_SIZE = 10
const DEFAULT_MAX_ROUNDS = 10

// Roles of a player inside a room
const ROLE_ADMIN = "admin"
const ROLE_MEMBER = "member"
