package cmd

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/docchat/docchat-be/config"
	"github.com/docchat/docchat-be/database"
	"github.com/docchat/docchat-be/handler"
	"github.com/docchat/docchat-be/middleware"
	"github.com/docchat/docchat-be/repository"
	"github.com/docchat/docchat-be/service"
	"github.com/docchat/docchat-be/utils"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document chat server",
	Long:  `Starts the HTTP server exposing the auth and document/chat APIs`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		mongoClient, err := database.NewMongoClient(cfg.Mongo.URI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoClient.Disconnect(context.Background())
		db := mongoClient.Database(cfg.Mongo.Database)

		// repositories
		userRepo := repository.NewUserRepo(db.Collection("users"))
		documentRepo := repository.NewDocumentRepo(db.Collection("documents"))
		textRepo := repository.NewExtractedTextRepo(db.Collection("extracted_texts"))
		selectionRepo := repository.NewSelectionRepo(db.Collection("active_selections"))
		chatRepo := repository.NewChatRepo(db.Collection("chat_exchanges"))
		binaryStore := database.NewGridFSStore(db)

		// services
		tokens := utils.NewTokenManager(
			cfg.JWT.AccessSecret,
			cfg.JWT.RefreshSecret,
			time.Duration(cfg.JWT.AccessTTLMinutes)*time.Minute,
			time.Duration(cfg.JWT.RefreshTTLDays)*24*time.Hour,
		)
		authService := service.NewAuthService(userRepo, tokens, service.NewMailer(cfg.Mail))
		documentService := service.NewDocumentService(documentRepo, binaryStore)
		pdfService := service.NewPDFService(documentService, documentRepo, binaryStore, textRepo, service.NewExecRunner())
		activeDocService := service.NewActiveDocumentService(documentService, selectionRepo)

		var aiService service.AIService
		switch cfg.AI.Provider {
		case "openai":
			aiService = service.NewOpenAIService(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model)
		default:
			gemini, err := service.NewGeminiService(context.Background(), cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
			if err != nil {
				log.Fatalf("Failed to create Gemini client: %v", err)
			}
			defer gemini.Close()
			aiService = gemini
		}
		chatService := service.NewChatService(activeDocService, pdfService, aiService, chatRepo)
		wsService := service.NewWebSocketService(chatService)

		// handlers
		authHandler := handler.NewAuthHandler(authService)
		documentHandler := handler.NewDocumentHandler(
			documentService, pdfService, activeDocService, cfg.Upload.MaxSizeMB<<20)
		chatHandler := handler.NewChatHandler(chatService, wsService)

		authMW := middleware.AuthMiddleware(tokens)
		registerLimit := middleware.NewRateLimiter(cfg.RateLimit.RegisterPerFiveMinutes, 5*time.Minute)
		loginLimit := middleware.NewRateLimiter(cfg.RateLimit.LoginPerMinute, time.Minute)
		apiLimit := middleware.NewRateLimiter(cfg.RateLimit.APIPerMinute, time.Minute)

		router := gin.Default()
		router.Use(cors.Default())

		apiV1 := router.Group("/api/v1")

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", registerLimit.Middleware(), authHandler.HandleRegister)
			auth.POST("/login", loginLimit.Middleware(), authHandler.HandleLogin)
			auth.POST("/refresh-token", authHandler.HandleRefreshToken)
			auth.GET("/me", authMW, authHandler.HandleMe)
			auth.POST("/password-reset/request", authHandler.HandlePasswordResetRequest)
			auth.POST("/password-reset/:token", authHandler.HandlePasswordReset)
		}

		protected := apiV1.Group("")
		protected.Use(authMW, apiLimit.Middleware())
		{
			protected.POST("/pdf-upload", documentHandler.HandleUpload)
			protected.GET("/pdf-list", documentHandler.HandleList)
			protected.GET("/pdf/:id", documentHandler.HandleGet)
			protected.GET("/pdf/:id/download", documentHandler.HandleDownload)
			protected.DELETE("/pdf/:id", documentHandler.HandleDelete)
			protected.POST("/pdf-parse", documentHandler.HandleParse)
			protected.POST("/pdf-select", documentHandler.HandleSelect)
			protected.GET("/pdf-selected", documentHandler.HandleGetSelected)
			protected.POST("/chat", chatHandler.HandleChat)
			protected.GET("/chat-history", chatHandler.HandleHistory)
			protected.GET("/ws/chat", chatHandler.HandleWebsocket)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
