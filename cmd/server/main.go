package main

import (
	"fmt"
	"log"
	"net/http"

	"trackparty/backend/internal/auth"
	"trackparty/backend/internal/config"
	"trackparty/backend/internal/database"
	"trackparty/backend/internal/game"
	"trackparty/backend/internal/handler"
	"trackparty/backend/internal/hub"
	"trackparty/backend/internal/supplier"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	// Swagger imports
	_ "trackparty/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           TrackParty API
// @version         1.0
// @description     This is the API for the TrackParty game server.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// Track supplier, optionally cached in Redis
	var trackSupplier supplier.Supplier = supplier.NewHTTPClient(
		config.AppConfig.TrackAPIURL,
		config.AppConfig.TrackAPIKey,
	)
	if config.AppConfig.RedisURL != "" {
		opts, err := redis.ParseURL(config.AppConfig.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		trackSupplier = supplier.NewCached(trackSupplier, redis.NewClient(opts))
		log.Println("Track supplier cache enabled.")
	}

	// Game engine and its collaborators
	eventHub := hub.NewHub()
	engine := game.NewEngine(
		game.NewGormStore(database.DB),
		game.NewStateStore(),
		eventHub,
		trackSupplier,
		game.Options{},
	)
	handler.Init(engine, eventHub)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me/music-account", handler.LinkMusicAccount)
		}

		// Room routes
		roomRoutes := apiV1.Group("/rooms")
		{
			// Public room browsing works without a token.
			roomRoutes.GET("", auth.OptionalAuthMiddleware(), handler.SearchRooms)

			protected := roomRoutes.Group("")
			protected.Use(auth.AuthMiddleware())
			{
				protected.POST("", handler.CreateRoom)
				protected.POST("/leave", handler.LeaveRoom) // No code needed, user leaves their own room
				protected.GET("/:code", handler.GetRoomByCode)
				protected.POST("/:code/join", handler.JoinRoom)
				protected.DELETE("/:code/players/:userID", handler.KickMember)

				// Game loop
				protected.POST("/:code/start", handler.StartGame)
				protected.POST("/:code/answer", handler.SubmitAnswer)
				protected.GET("/:code/game", handler.GetGameSnapshot)
				protected.POST("/:code/rematch", handler.Rematch)

				// Event feeds
				protected.GET("/:code/events", handler.RoomEvents)
				protected.GET("/:code/ws", handler.RoomEventsWS)
			}
		}
	}

	fmt.Println("Server is running on :8080")
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(":8080"))
}
