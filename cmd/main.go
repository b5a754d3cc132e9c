package main

import (
	"context"
	"log"

	"github.com/mateusmacedo/go-sleeper/internal/app"
	"github.com/mateusmacedo/go-sleeper/internal/config"
)

func main() {
	cfg := config.MustLoad()
	ctx := context.Background()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("app init: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		log.Fatalf("app run: %v", err)
	}
}
