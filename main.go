// @title Sahayak API
// @version 1.0
// @description Backend of the Sahayak education portal: directory, quizzes, grading and AI teaching tools.

// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"sahayak_backend/internal/app"
	"sahayak_backend/internal/config"
)

func main() {
	configPath := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.NewApp(cfg, *configPath)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	application.Run()
}
