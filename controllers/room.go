package controllers

import (
	"Bullpen/middleware"
	"Bullpen/services/registry"
	"Bullpen/utils"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type roomRequest struct {
	Name     string `json:"name" form:"name"`
	Password string `json:"password" form:"password"`
}

func bindRoomRequest(c *gin.Context) (roomRequest, error) {
	var req roomRequest
	if err := c.ShouldBind(&req); err != nil {
		return req, fmt.Errorf("%w: %v", utils.ErrBadRequest, err)
	}
	return req, nil
}

// issueCredentials remembers the player in the session and signs a token for them
func issueCredentials(c *gin.Context, secret []byte, roomID, playerID string) (string, error) {
	if err := middleware.RememberPlayer(c, roomID, playerID); err != nil {
		log.Printf("[SESSION-ERROR] Could not save session for %s: %v", playerID, err)
	}
	token, err := middleware.IssuePlayerToken(secret, roomID, playerID)
	if err != nil {
		return "", fmt.Errorf("error signing player token: %v", err)
	}
	return token, nil
}

// resolvePlayerID finds out who is calling. The player that PlayerToken
// authenticated, by token or session cookie, wins and a player_id that
// disagrees with it is rejected. A bare player_id is only trusted when
// nothing authenticated the caller
func resolvePlayerID(c *gin.Context) (string, error) {
	query := c.Query("player_id")
	if tokenPlayer, ok := c.Get(middleware.TokenPlayerKey); ok {
		id := tokenPlayer.(string)
		if query != "" && query != id {
			return "", middleware.ErrTokenMismatch
		}
		return id, nil
	}
	if query != "" {
		return query, nil
	}
	return "", fmt.Errorf("%w: player_id is required", utils.ErrBadRequest)
}

// @Summary Create a room
// @Description Creates a room with the caller as admin
// @Tags rooms
// @Accept json
// @Produce json
// @Param room body object{name=string,password=string} true "Admin name and optional password"
// @Success 200 {object} object{room_id=string,player_id=string,redirect_url=string,token=string}
// @Failure 400 {object} object{error=string}
// @Router /room [post]
func CreateRoom(reg *registry.Registry, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindRoomRequest(c)
		if err != nil {
			c.Error(err)
			return
		}

		roomID, playerID, err := reg.Create(req.Name, req.Password)
		if err != nil {
			c.Error(err)
			return
		}

		token, err := issueCredentials(c, secret, roomID, playerID)
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"room_id":      roomID,
			"player_id":    playerID,
			"redirect_url": fmt.Sprintf("/rooms/%s?player_id=%s", roomID, playerID),
			"token":        token,
		})
	}
}

// @Summary Join a room
// @Description Adds a player to a room that has not started yet
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "Room id"
// @Param player body object{name=string,password=string} true "Player name and room password"
// @Success 200 {object} object{room_id=string,player_id=string,token=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /rooms/{id}/join [post]
func JoinRoom(reg *registry.Registry, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("id")
		req, err := bindRoomRequest(c)
		if err != nil {
			c.Error(err)
			return
		}

		playerID, err := reg.Join(roomID, req.Name, req.Password)
		if err != nil {
			c.Error(err)
			return
		}

		token, err := issueCredentials(c, secret, roomID, playerID)
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"room_id": roomID, "player_id": playerID, "token": token})
	}
}

// @Summary List rooms
// @Description Returns every live room, oldest first
// @Tags rooms
// @Produce json
// @Success 200 {array} registry.RoomInfo
// @Router /rooms [get]
func ListRooms(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, reg.List())
	}
}

// @Summary Get a room
// @Description Public information about a room. Rooms that left memory are read from the archive
// @Tags rooms
// @Produce json
// @Param id path string true "Room id"
// @Success 200 {object} registry.RoomInfo
// @Failure 404 {object} object{error=string}
// @Router /rooms/{id} [get]
func GetRoom(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := reg.Info(c.Param("id"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

// @Summary Start the game
// @Description Deals the cards. Only the admin can start, the response only holds the caller's hand
// @Tags game
// @Produce json
// @Param id path string true "Room id"
// @Param player_id query string false "Player id, optional with a token or session"
// @Param Authorization header string false "Bearer player token"
// @Success 200 {object} object{message=string,room_id=string,player_cards=object}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /rooms/{id}/start [post]
func StartGame(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("id")
		playerID, err := resolvePlayerID(c)
		if err != nil {
			c.Error(err)
			return
		}

		hands, err := reg.Start(roomID, playerID)
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Game started",
			"room_id":      roomID,
			"player_cards": hands,
		})
	}
}

// @Summary Select a card
// @Description Plays a card for the current round
// @Tags game
// @Produce json
// @Param id path string true "Room id"
// @Param player_id query string false "Player id, optional with a token or session"
// @Param card query int true "Card number"
// @Success 200 {object} object{}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /rooms/{id}/select [post]
func SelectCard(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("id")
		playerID, err := resolvePlayerID(c)
		if err != nil {
			c.Error(err)
			return
		}
		card, err := utils.ParseCard(c.Query("card"))
		if err != nil {
			c.Error(err)
			return
		}

		if err := reg.Select(roomID, playerID, card); err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{})
	}
}

// @Summary Take a pile
// @Description Resolves the caller's pending penalty by taking a pile
// @Tags game
// @Produce json
// @Param id path string true "Room id"
// @Param player_id query string false "Player id, optional with a token or session"
// @Param pile_idx query int true "Pile index, 0 to 3"
// @Param low_card query int true "The card that forced the take"
// @Success 200 {object} object{}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /rooms/{id}/take_pile [post]
func TakePile(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("id")
		playerID, err := resolvePlayerID(c)
		if err != nil {
			c.Error(err)
			return
		}
		pileIdx, err := utils.ParsePileIndex(c.Query("pile_idx"))
		if err != nil {
			c.Error(err)
			return
		}
		lowCard, err := utils.ParseCard(c.Query("low_card"))
		if err != nil {
			c.Error(err)
			return
		}

		if err := reg.TakePile(roomID, playerID, pileIdx, lowCard); err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{})
	}
}

// @Summary Room state
// @Description Full state of the room as the caller sees it, for clients that reconnect
// @Tags game
// @Produce json
// @Param id path string true "Room id"
// @Param player_id query string false "Player id, optional with a token or session"
// @Success 200 {object} nimmt.Snapshot
// @Failure 404 {object} object{error=string}
// @Router /rooms/{id}/state [get]
func GetState(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("id")
		playerID, err := resolvePlayerID(c)
		if err != nil {
			c.Error(err)
			return
		}

		state, err := reg.State(roomID, playerID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, state)
	}
}
