package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/fring-api/internal/config"
	"github.com/gravadigital/fring-api/internal/handlers"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/middleware/auth"
	"github.com/gravadigital/fring-api/internal/middleware/events"
	"github.com/gravadigital/fring-api/internal/middleware/metrics"
	"github.com/gravadigital/fring-api/internal/realtime"
	"github.com/gravadigital/fring-api/internal/services"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	services   *services.Services
	hub        *realtime.Hub
	verifier   *auth.Verifier
}

// New creates a new server instance
func New(cfg *config.Config, svcs *services.Services, hub *realtime.Hub) *Server {
	return &Server{
		config:   cfg,
		services: svcs,
		hub:      hub,
		verifier: auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.Router()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Port,
		Handler: router,

		// WriteTimeout stays at zero: websocket connections outlive it
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Router configures the HTTP router with middleware and routes
func (s *Server) Router() *gin.Engine {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if s.config.Server.GinMode != "" {
		gin.SetMode(s.config.Server.GinMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(events.RequestLog())
	router.Use(metrics.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.SplitList(s.config.CORS.AllowOrigins)
	corsConfig.AllowMethods = config.SplitList(s.config.CORS.AllowMethods)
	corsConfig.AllowHeaders = config.SplitList(s.config.CORS.AllowHeaders)
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Fring API is running",
			"status":  "healthy",
		})
	})
	router.GET("/metrics", metrics.Handler())

	s.setupAPIRoutes(router)

	return router
}

// setupAPIRoutes configures all authenticated API routes
func (s *Server) setupAPIRoutes(router *gin.Engine) {
	svcs := s.services

	profileHandler := handlers.NewProfileHandler(svcs.Profiles)
	itemHandler := handlers.NewItemHandler(svcs.Wardrobe, s.config.Storage.MaxFileSize)
	ensembleHandler := handlers.NewEnsembleHandler(svcs.Ensembles, svcs.Votes)
	challengeHandler := handlers.NewChallengeHandler(svcs.Challenges, svcs.Votes)
	friendHandler := handlers.NewFriendHandler(svcs.Friends)
	favoriteHandler := handlers.NewFavoriteHandler(svcs.Favorites)
	messageHandler := handlers.NewMessageHandler(svcs.Messages)
	suggestionHandler := handlers.NewSuggestionHandler(svcs.Suggestions)
	adminHandler := handlers.NewAdminHandler(svcs.Admin)
	realtimeHandler := handlers.NewRealtimeHandler(s.hub, config.SplitList(s.config.CORS.AllowOrigins))

	// Browsers cannot set headers on a websocket handshake, so this route
	// also accepts the token as a query parameter.
	router.GET("/api/ws", auth.WebSocketRequired(s.verifier, svcs.Profiles), realtimeHandler.Connect)

	api := router.Group("/api")
	api.Use(auth.Required(s.verifier, svcs.Profiles))
	{
		me := api.Group("/me")
		{
			me.GET("", profileHandler.GetMe)
			me.PATCH("/preferences", profileHandler.UpdatePreferences)
			me.GET("/stats", profileHandler.GetStats)
		}

		items := api.Group("/items")
		{
			items.GET("", itemHandler.ListItems)
			items.POST("", itemHandler.CreateItem)
			items.POST("/detect", itemHandler.Detect)
			items.GET("/:id", itemHandler.GetItem)
			items.PUT("/:id", itemHandler.UpdateItem)
			items.DELETE("/:id", itemHandler.DeleteItem)
			items.GET("/:id/photo", itemHandler.GetPhotoURL)
			items.POST("/:id/photo", itemHandler.UploadPhoto)
		}

		ensembles := api.Group("/ensembles")
		{
			ensembles.GET("", ensembleHandler.ListEnsembles)
			ensembles.POST("", ensembleHandler.CreateEnsemble)
			ensembles.GET("/:id", ensembleHandler.GetEnsemble)
			ensembles.DELETE("/:id", ensembleHandler.DeleteEnsemble)
			ensembles.GET("/:id/votes", ensembleHandler.GetVotes)
			ensembles.POST("/:id/votes", ensembleHandler.SubmitVote)
		}

		users := api.Group("/users")
		{
			users.GET("/:id/items", itemHandler.ListUserItems)
			users.GET("/:id/ensembles", ensembleHandler.ListUserEnsembles)
		}

		defis := api.Group("/defis")
		{
			defis.GET("", challengeHandler.ListChallenges)
			defis.POST("", auth.AdminRequired(svcs.Profiles), challengeHandler.CreateChallenge)
			defis.GET("/:id", challengeHandler.GetChallenge)
			defis.GET("/:id/participations", challengeHandler.ListParticipations)
			defis.POST("/:id/participations", challengeHandler.Submit)
			defis.GET("/:id/ranking", challengeHandler.GetRanking)
		}

		participations := api.Group("/participations")
		{
			participations.GET("/:id/votes", challengeHandler.GetParticipationVotes)
			participations.POST("/:id/votes", challengeHandler.VoteParticipation)
		}

		friends := api.Group("/friends")
		{
			friends.GET("", friendHandler.ListFriends)
			friends.GET("/requests", friendHandler.ListRequests)
			friends.POST("/requests", friendHandler.SendRequest)
			friends.POST("/requests/:id/accept", friendHandler.AcceptRequest)
			friends.POST("/requests/:id/reject", friendHandler.RejectRequest)
			friends.DELETE("/requests/:id", friendHandler.CancelRequest)
			friends.DELETE("/:userId", friendHandler.RemoveFriend)
			friends.GET("/:userId/status", friendHandler.GetStatus)
		}

		favorites := api.Group("/favorites")
		{
			favorites.GET("", favoriteHandler.ListFavorites)
			favorites.POST("", favoriteHandler.AddFavorite)
			favorites.DELETE("/:id", favoriteHandler.RemoveFavorite)
		}

		messages := api.Group("/messages")
		{
			messages.GET("/unread", messageHandler.UnreadCount)
			messages.GET("/:userId", messageHandler.GetConversation)
			messages.POST("/:userId", messageHandler.SendMessage)
			messages.POST("/:userId/read", messageHandler.MarkRead)
		}

		api.GET("/suggestions", suggestionHandler.GetSuggestion)

		admin := api.Group("/admin")
		admin.Use(auth.AdminRequired(svcs.Profiles))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/activity", adminHandler.ListActivity)
			admin.GET("/database", adminHandler.DatabaseStats)
		}
	}
}
