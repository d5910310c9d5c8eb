package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by PlayerToken, from the token or from the session cookie
const (
	TokenPlayerKey = "token_player_id"
	TokenRoomKey   = "token_room_id"
)

var (
	ErrMissingToken  = errors.New("player token required")
	ErrInvalidToken  = errors.New("invalid player token")
	ErrTokenMismatch = errors.New("player token does not match this room or player")
)

const tokenLifetime = 24 * time.Hour

// PlayerClaims identify one player inside one room
type PlayerClaims struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	jwt.RegisteredClaims
}

func IssuePlayerToken(secret []byte, roomID, playerID string) (string, error) {
	now := time.Now()
	claims := PlayerClaims{
		RoomID:   roomID,
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func ParsePlayerToken(secret []byte, raw string) (*PlayerClaims, error) {
	claims := &PlayerClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// tokenFrom reads a bearer header, or the "token" query parameter that
// browsers have to use for websockets
func tokenFrom(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Query("token")
}

func roomParam(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return c.Param("room_id")
}

// PlayerToken validates the player token of a room route. A valid token is
// stored in the context and wins over any player_id sent by the client.
// Without a token the player remembered by the session cookie counts as
// authenticated too
func PlayerToken(secret []byte, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFrom(c)
		if raw == "" {
			roomID := roomParam(c)
			if playerID := SessionPlayer(c, roomID); playerID != "" {
				c.Set(TokenRoomKey, roomID)
				c.Set(TokenPlayerKey, playerID)
				c.Next()
				return
			}
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrMissingToken.Error()})
				return
			}
			c.Next()
			return
		}

		claims, err := ParsePlayerToken(secret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if claims.RoomID != roomParam(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": ErrTokenMismatch.Error()})
			return
		}

		c.Set(TokenRoomKey, claims.RoomID)
		c.Set(TokenPlayerKey, claims.PlayerID)
		c.Next()
	}
}
