package main

import (
	"context"
	"log"

	"joslyn-advocacy-be/internal/bootstrap"
	"joslyn-advocacy-be/internal/config"
	"joslyn-advocacy-be/internal/server"
	"joslyn-advocacy-be/internal/tracer"
	"joslyn-advocacy-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// Embedding backfill worker
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
