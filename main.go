package main

import (
	"log"

	"github.com/joho/godotenv"

	"cloudauth/internal/app"
)

// @title        Cloud Service Auth API
// @version      1.0
// @description  User registration, email verification and token issuance.
// @BasePath     /api/v1
func main() {
	// .env необязателен — в проде всё приходит из окружения
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	app.Run()
}
