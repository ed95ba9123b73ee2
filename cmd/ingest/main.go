package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/soujanyavullam/epic-web-app/internal/bootstrap"
	"github.com/soujanyavullam/epic-web-app/internal/config"
	"github.com/soujanyavullam/epic-web-app/internal/dto"
	"github.com/soujanyavullam/epic-web-app/internal/service"
	"github.com/soujanyavullam/epic-web-app/pkg/database"
)

// Batch-ingests every .txt file in a directory straight through the
// ingestion pipeline, bypassing HTTP.
func main() {
	dir := flag.String("dir", "./books", "directory of .txt files to ingest")
	flag.Parse()

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()
	if container.NatsPublisher != nil {
		defer container.NatsPublisher.Close()
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Unable to read directory %s: %v", *dir, err)
	}

	ctx := context.Background()
	succeeded, failed := 0, 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}

		title := service.NormalizeTitle(entry.Name())
		color.Cyan("Ingesting %s (title: %s)...", entry.Name(), title)

		text, err := os.ReadFile(filepath.Join(*dir, entry.Name()))
		if err != nil {
			color.Red("  Failed to read %s: %v", entry.Name(), err)
			failed++
			continue
		}

		result, err := container.IngestionService.Ingest(ctx, dto.IngestBookRequest{
			Title: title,
			Text:  string(text),
		})
		if err != nil {
			color.Red("  Failed: %v", err)
			failed++
			continue
		}

		if result.Warning != "" {
			color.Yellow("  Stored %d/%d chunks (%s)", result.ChunksStored, result.ChunksRequested, result.Warning)
		} else {
			color.Green("  Stored %d/%d chunks", result.ChunksStored, result.ChunksRequested)
		}
		succeeded++
	}

	color.White("Done: %d books ingested, %d failed", succeeded, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
