package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/schichtwerk/schichtplaner/backend/internal/config"
	"github.com/schichtwerk/schichtplaner/backend/internal/repository"
	"github.com/schichtwerk/schichtplaner/backend/internal/seed"
)

func main() {
	var demo bool
	flag.BoolVar(&demo, "demo", false, "Demodaten einspielen (Teams, Schichtarten, Mitarbeiter)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Konfiguration konnte nicht geladen werden", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("Datenbank-Verbindungspool konnte nicht erstellt werden", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not connect yet, so ping explicitly
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("Datenbank nicht erreichbar", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	if !demo {
		slog.Error("keine Operation angegeben, -demo verwenden")
		return
	}

	seed.SeedDemoData(repo)
}
