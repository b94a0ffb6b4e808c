package main

import (
	"context"
	"log"

	"github.com/techclub/recruitd/internal/server"
	"github.com/techclub/recruitd/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
