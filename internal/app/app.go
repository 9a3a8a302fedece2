package app

import (
	"database/sql"
	"fmt"
	"log"

	"contactbook/internal/config"
	"contactbook/internal/handlers"
	"contactbook/internal/pdf"
	"contactbook/internal/repositories"
	"contactbook/internal/routes"
	"contactbook/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "contactbook/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	contactRepo := repositories.NewContactRepository(db)

	// === Services ===
	authService := services.NewAuthService(cfg.Auth.BcryptCost)
	tokenService := services.NewTokenService(
		cfg.Auth.Secret,
		cfg.Auth.AccessTTLDur,
		cfg.Auth.RefreshTTLDur,
		cfg.Auth.EmailTokenTTLDur,
	)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	sessionService := services.NewSessionService(
		userRepo,
		tokenService,
		authService,
		emailService,
		cfg.Server.BaseURL,
	)
	contactService := services.NewContactService(contactRepo)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(sessionService)
	contactHandler := handlers.NewContactHandler(contactService, pdf.NewListGenerator())

	// === Birthday digest bot (optional) ===
	if cfg.Telegram.BotToken != "" || cfg.Telegram.DryRun {
		notifier, err := services.NewBirthdayNotifier(
			cfg.Telegram.BotToken,
			cfg.Telegram.ChatID,
			cfg.Telegram.DryRun,
			contactRepo,
		)
		if err != nil {
			log.Printf("Birthday notifier disabled: %v", err)
		} else {
			notifier.Start()
			defer notifier.Stop()
		}
	}

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, authHandler, contactHandler, tokenService, userRepo)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
