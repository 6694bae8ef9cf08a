package main

import (
	"context"
	"log"

	"github.com/dmorris/notedly/internal/server"
	"github.com/dmorris/notedly/internal/server/config"
	"github.com/joho/godotenv"
)

func main() {

	// local development convenience, absent file is fine
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
