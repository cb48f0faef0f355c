package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/schichtwerk/schichtplaner/backend/internal/config"
	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
	"github.com/schichtwerk/schichtplaner/backend/internal/handler"
	"github.com/schichtwerk/schichtplaner/backend/internal/notification"
	"github.com/schichtwerk/schichtplaner/backend/internal/planning"
	"github.com/schichtwerk/schichtplaner/backend/internal/repository"
	"github.com/schichtwerk/schichtplaner/backend/internal/scheduler"
	"github.com/schichtwerk/schichtplaner/backend/internal/springer"
	"github.com/schichtwerk/schichtplaner/backend/internal/staffing"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Konfiguration konnte nicht geladen werden", "error", err)
		return
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

	// make sure the initial admin account exists
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Passwort-Hash für den initialen Admin konnte nicht erzeugt werden", "error", err)
		return
	}
	initialAdmin := &domain.Employee{
		Username:     cfg.InitialAdmin.Username,
		PasswordHash: string(passwordHash),
		FirstName:    cfg.InitialAdmin.FullName,
		LastName:     "",
		Email:        cfg.InitialAdmin.Email,
		Role:         domain.RoleAdmin,
		WeeklyHours:  40,
		Capabilities: domain.CapabilitySet{},
		IsActive:     true,
	}
	if err := repo.CreateEmployee(initialAdmin); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "employees_username_key":
				// admin already exists, nothing to do
			default:
				logger.Error("initialer Admin konnte nicht angelegt werden", "error", err)
				return
			}
		default:
			logger.Error("initialer Admin konnte nicht angelegt werden", "error", err)
			return
		}
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("RabbitMQ nicht erreichbar", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("RabbitMQ-Kanal konnte nicht geöffnet werden", "error", err)
		return
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		notification.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("Warteschlange konnte nicht deklariert werden", "error", err)
		return
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	publisher := notification.NewAMQPPublisher(ch, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)

	solver := scheduler.NewGeneticSolver(scheduler.Parameters{
		PopulationSize:  cfg.Planner.PopulationSize,
		MaxGenerations:  cfg.Planner.MaxGenerations,
		CrossoverRate:   cfg.Planner.CrossoverRate,
		MutationRate:    cfg.Planner.MutationRate,
		EliteCount:      cfg.Planner.EliteCount,
		ReturnIncumbent: cfg.Planner.ReturnIncumbent,
	})

	staffingSvc := staffing.NewService(repo)
	notificationMgr := notification.NewManager(repo, staffingSvc, publisher)
	springerEngine := springer.NewEngine(repo, staffingSvc)
	planningSvc := planning.NewService(repo, solver, staffingSvc, notificationMgr, springerEngine)

	h, err := handler.NewHandler(cfg, repo, planningSvc, notificationMgr, publisher, rdb)
	if err != nil {
		logger.Error("Handler konnte nicht erstellt werden", "error", err)
		return
	}
	h.RegisterRoutes()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server startet...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server konnte nicht gestartet werden", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("Server wird heruntergefahren...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Herunterfahren fehlgeschlagen", slog.String("error", err.Error()))
	}
	logger.Info("Server beendet")
}
