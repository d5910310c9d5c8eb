package routes

import (
	"Bullpen/controllers"
	"Bullpen/middleware"
	"Bullpen/services/registry"
	"Bullpen/services/websocket"
	utils "Bullpen/utils"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options is what the routes need besides the registry
type Options struct {
	TokenSecret        []byte
	RequirePlayerToken bool
	// History is nil when no database is configured
	History controllers.GameHistory
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, reg *registry.Registry, opts Options) {
	// utils global
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.POST("/room", controllers.CreateRoom(reg, opts.TokenSecret))

	api.GET("/rooms", controllers.ListRooms(reg))

	if opts.History != nil {
		api.GET("/games", controllers.ListGames(opts.History))
	}

	playerToken := middleware.PlayerToken(opts.TokenSecret, opts.RequirePlayerToken)

	rooms := api.Group("/rooms/:id")
	{
		rooms.GET("", controllers.GetRoom(reg))

		rooms.POST("/join", controllers.JoinRoom(reg, opts.TokenSecret))

		// Routes acting as a player of the room
		player := rooms.Group("")
		player.Use(playerToken)
		{
			player.POST("/start", controllers.StartGame(reg))

			player.POST("/select", controllers.SelectCard(reg))

			player.POST("/take_pile", controllers.TakePile(reg))

			player.GET("/state", controllers.GetState(reg))
		}
	}

	api.GET("/ws/:room_id/:player_id", playerToken, websocket.NewGateway(reg).Handle)
}
