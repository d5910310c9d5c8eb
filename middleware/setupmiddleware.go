package middleware

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const SessionName = "bullpen_session"

func SetUpMiddleware(r *gin.Engine, key string) {
	store := cookie.NewStore([]byte(key))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(tokenLifetime.Seconds()),
		Secure:   false,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionName, store))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"*"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))
}

// SessionPlayerKey is the session entry remembering which player this browser is in a room
func SessionPlayerKey(roomID string) string {
	return "player:" + roomID
}

// RememberPlayer stores the player id of a room in the cookie session
func RememberPlayer(c *gin.Context, roomID, playerID string) error {
	session := sessions.Default(c)
	session.Set(SessionPlayerKey(roomID), playerID)
	return session.Save()
}

// SessionPlayer returns the player id remembered for a room, if any.
// Engines without the sessions middleware have no session at all
func SessionPlayer(c *gin.Context, roomID string) string {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	session := sessions.Default(c)
	if id, ok := session.Get(SessionPlayerKey(roomID)).(string); ok {
		return id
	}
	return ""
}
