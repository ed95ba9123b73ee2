package main

import (
	"context"
	"log"

	"github.com/soujanyavullam/epic-web-app/internal/bootstrap"
	"github.com/soujanyavullam/epic-web-app/internal/config"
	"github.com/soujanyavullam/epic-web-app/internal/server"
	"github.com/soujanyavullam/epic-web-app/internal/tracer"
	"github.com/soujanyavullam/epic-web-app/pkg/database"
)

func main() {
	// 0. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load configuration
	cfg := config.Load()

	// 2. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap dependencies
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()
	if container.NatsPublisher != nil {
		defer container.NatsPublisher.Close()
	}

	// 4. Background consumer for async book ingestion
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. HTTP server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
