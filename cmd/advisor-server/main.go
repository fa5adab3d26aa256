// Package main Calo AI Nutrition Advisor API Server
//
//	@title			Calo AI Nutrition Advisor API
//	@version		1.0
//	@description	Conversational meal recommendation service with multi-agent routing, RAG-backed meal search, and feedback analytics
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//
//	@host		localhost:8080
//	@BasePath	/
package main

import (
	"log"

	"github.com/joho/godotenv"

	_ "github.com/Ali-Dakheel/calo-ai-app/docs" // This imports the docs package to initialize swagger
	"github.com/Ali-Dakheel/calo-ai-app/internal/server"
)

func main() {
	// A missing .env file is fine, the environment still applies
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	log.Println("Starting Nutrition Advisor Server...")
	srv := server.NewServer()
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
