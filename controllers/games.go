package controllers

import (
	"Bullpen/models/postgres"
	"Bullpen/utils"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultGamesLimit = 20
	maxGamesLimit     = 100
)

// GameHistory lists recorded games
type GameHistory interface {
	RecentGames(limit int) ([]postgres.GameRecord, error)
}

// @Summary Recent games
// @Description Finished games, newest first
// @Tags games
// @Produce json
// @Param limit query int false "Maximum number of games (default 20, max 100)"
// @Success 200 {array} postgres.GameRecord
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /games [get]
func ListGames(history GameHistory) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultGamesLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.Error(fmt.Errorf("%w: limit must be a positive number", utils.ErrBadRequest))
				return
			}
			limit = min(n, maxGamesLimit)
		}

		games, err := history.RecentGames(limit)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, games)
	}
}
