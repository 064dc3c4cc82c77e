package main

import (
	"log"

	_ "patientmanager/docs"
	"patientmanager/internal/config"
	"patientmanager/internal/server"
)

// @title           Patient Manager API
// @version         1.0
// @description     REST API for patient records, treatment programs and per-program Kanban boards.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.LoadServer()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
