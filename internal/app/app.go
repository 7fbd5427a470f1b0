package app

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"cloudauth/internal/config"
	"cloudauth/internal/handlers"
	"cloudauth/internal/middleware"
	"cloudauth/internal/repositories"
	"cloudauth/internal/routes"
	"cloudauth/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "cloudauth/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("БД недоступна: ", err)
	}

	middleware.SetJWTKey([]byte(cfg.Auth.JWTSecret))

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	verificationRepo := repositories.NewEmailVerificationRepository(db)

	// === Services ===
	authService := services.NewAuthService(
		[]byte(cfg.Auth.JWTSecret),
		time.Duration(cfg.Auth.AccessTokenExpireMinutes)*time.Minute,
	)
	emailService := services.NewEmailService(cfg.Email)
	verificationService := services.NewVerificationService(
		userRepo,
		verificationRepo,
		authService,
		emailService,
		time.Duration(cfg.Email.VerificationExpireMinutes)*time.Minute,
	)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(verificationService)
	userHandler := handlers.NewUserHandler(verificationService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupRoutes(router, authHandler, userHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s (email mode: %s)", listenAddr, cfg.Email.Mode)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
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
