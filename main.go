package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"mingle/config"
	"mingle/database"
	"mingle/handlers"
	"mingle/logger"
	"mingle/metrics"
	"mingle/middleware"
	"mingle/service"
	"mingle/store"
	"mingle/websocket"
)

func main() {
	cfg := config.Load("config/config.yaml")

	log := logger.Init(cfg.Log)
	defer log.Sync()

	if err := database.Connect(cfg.Database.DSN, cfg.Database.MaxOpen, cfg.Database.MaxIdle); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.CreateTables(); err != nil {
		logger.Fatal("failed to create tables", zap.Error(err))
	}

	st := store.NewMySQLStore(database.DB)
	users := service.NewUserService(st)
	friends := service.NewFriendService(st)
	conversations := service.NewConversationService(st)

	hub := websocket.NewHub()
	go hub.Run()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	h := handlers.New(users, friends, conversations, hub, cfg.Webhook.Secret)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(logger.RequestLogger(), logger.Recovery(), collector.Middleware())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler(registry))

	r.POST("/webhooks/identity", h.IdentityWebhook)

	friendsGroup := r.Group("/api/friends")
	friendsGroup.Use(middleware.AuthMiddleware(cfg.Auth.Secret))
	{
		friendsGroup.GET("", h.GetFriends)
		friendsGroup.DELETE("/:conversation_id", h.RemoveFriend)
	}

	requests := r.Group("/api/requests")
	requests.Use(middleware.AuthMiddleware(cfg.Auth.Secret))
	{
		requests.GET("", h.GetFriendRequests)
		requests.POST("", h.SendFriendRequest)
		requests.POST("/:id/accept", h.AcceptFriendRequest)
		requests.POST("/:id/deny", h.DenyFriendRequest)
	}

	conversationsGroup := r.Group("/api/conversations")
	conversationsGroup.Use(middleware.AuthMiddleware(cfg.Auth.Secret))
	{
		conversationsGroup.GET("", h.GetConversations)
		conversationsGroup.POST("", h.CreateGroup)
		conversationsGroup.GET("/:id", h.GetConversation)
		conversationsGroup.DELETE("/:id", h.DeleteGroup)
		conversationsGroup.POST("/:id/leave", h.LeaveGroup)
		conversationsGroup.POST("/:id/read", h.MarkRead)

		conversationsGroup.GET("/:id/messages", h.GetMessages)
		conversationsGroup.POST("/:id/messages", h.SendMessage)
	}

	gateway := &websocket.Gateway{Hub: hub, Secret: cfg.Auth.Secret, Users: users}
	r.GET("/ws", gateway.Handle)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("server starting", zap.String("addr", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
