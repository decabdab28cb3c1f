package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/behindthegarage/gfs-ordering/internal/web"
	"github.com/behindthegarage/gfs-ordering/pkg/gfs/catalog/sqlite"
	"github.com/behindthegarage/gfs-ordering/pkg/gfs/config"
	"github.com/behindthegarage/gfs-ordering/pkg/gfs/export"
)

func main() {
	cfg := config.LoadServer()

	ctx := context.Background()

	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer store.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	exporter := export.NewService(store, logger)
	server := web.NewServer(store, exporter, logger)

	logger.Info("server starting", "addr", cfg.HTTPAddr, "db", cfg.DBPath)
	if err := server.Router().Run(cfg.HTTPAddr); err != nil {
		log.Fatal("Server stopped:", err)
	}
}
